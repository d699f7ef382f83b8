package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"datatools/internal/rates"
)

var (
	currencyRefresh bool
	currencyFeedURL string
)

var currencyCmd = &cobra.Command{
	Use:   "currency <amount> <from> <to>",
	Short: "Convert an amount between currencies",
	Long: `Convert an amount between two currency codes through the USD pivot.
Uses a built-in approximate rate table; with --refresh the live rate
feed is fetched first, falling back to the built-in rates if the feed
is unreachable.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		start := time.Now()
		defer func() { observeRun("currency", start, err) }()

		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}

		tbl := rates.Fallback()
		if currencyRefresh {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			tbl, err = rates.Refresh(ctx, currencyFeedURL)
			if err != nil {
				log.Printf("currency: rate feed unavailable, using fallback rates: %v", err)
				err = nil
			}
		}

		c, err := tbl.Convert(amount, args[1], args[2])
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, c.String())
		if verbose && tbl.IsFallback() {
			log.Printf("currency: rates are the static fallback table")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(currencyCmd)

	currencyCmd.Flags().BoolVar(&currencyRefresh, "refresh", false, "fetch live rates before converting")
	currencyCmd.Flags().StringVar(&currencyFeedURL, "feed-url", "", "override the rate feed URL")
}
