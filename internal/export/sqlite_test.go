package export

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datatools/internal/table"
)

func tableWithNoColumns() *table.Table {
	return table.New(table.SortedUnion)
}

func TestSQLite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.db")

	require.NoError(t, SQLite(context.Background(), path, "survey_data", sampleTable()))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "survey_data"`).Scan(&n))
	assert.Equal(t, 2, n)

	var notes string
	require.NoError(t, db.QueryRow(`SELECT "Notes" FROM "survey_data" WHERE "Name" = ?`, "Jane").Scan(&notes))
	assert.Equal(t, `He said "hi", once`, notes)

	// Numeric cells round-trip through their text rendering.
	var score string
	require.NoError(t, db.QueryRow(`SELECT "Score" FROM "survey_data" WHERE "Name" = ?`, "John").Scan(&score))
	assert.Equal(t, "95", score)
}

func TestSQLite_RejectsEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.db")

	err := SQLite(context.Background(), path, "t", tableWithNoColumns())
	require.Error(t, err)

	err = SQLite(context.Background(), path, "  ", sampleTable())
	require.Error(t, err)
}

func TestSQLite_QuotedIdentifiers(t *testing.T) {
	assert.Equal(t, `"plain"`, sqlIdent("plain"))
	assert.Equal(t, `"with ""quote"""`, sqlIdent(`with "quote"`))
}
