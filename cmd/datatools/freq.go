package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"datatools/internal/freq"
	"datatools/internal/metrics"
)

var freqVerify bool

var freqCmd = &cobra.Command{
	Use:   "freq [file]",
	Short: "Count word frequencies in a text",
	Long: `Split a text on whitespace and count how often each token occurs.
Prints a tab-separated Item/Count/Percentage table followed by total and
unique counts. With --verify, prints a verification report that recounts
every token and flags mismatches instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		start := time.Now()
		defer func() { observeRun("freq", start, err) }()

		data, err := readInput(args)
		if err != nil {
			return err
		}

		r := freq.Count(string(data))
		if r.Total() == 0 {
			return fmt.Errorf("no tokens found in input")
		}
		metrics.IncCounter(metrics.RecordsTotal, float64(r.Total()), metrics.Labels{"kind": "processed"})

		if freqVerify {
			fmt.Fprint(os.Stdout, r.VerificationReport())
			return nil
		}
		fmt.Fprint(os.Stdout, r.Report())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(freqCmd)
	freqCmd.Flags().BoolVar(&freqVerify, "verify", false, "print the count verification report")
}
