package postgres

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

const initMigration = "000001_init.up.sql"

// The repositories build their SELECT lists from the column constants
// below; this guards them against drifting from the migrated schema.
func TestMigrationDefinesQueriedColumns(t *testing.T) {
	path := filepath.Join("..", "..", "..", "infrastructure", "postgres", "migrations", initMigration)
	ddl, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read migration: %v", err)
	}

	tests := []struct {
		table   string
		columns string
	}{
		{table: "users", columns: userColumns},
		{table: "wallets", columns: walletColumns},
		{table: "wallet_transactions", columns: transactionColumns},
	}

	for _, tt := range tests {
		block := tableDefinition(t, string(ddl), tt.table)

		for _, column := range strings.Split(tt.columns, ",") {
			column = strings.TrimSpace(column)

			matched, err := regexp.MatchString(`(?m)^\s*`+column+`\s`, block)
			if err != nil {
				t.Fatalf("bad column pattern for %q: %v", column, err)
			}
			if !matched {
				t.Errorf("table %s: queried column %q is not defined in %s", tt.table, column, initMigration)
			}
		}
	}
}

func tableDefinition(t *testing.T, ddl, table string) string {
	t.Helper()

	start := strings.Index(ddl, "CREATE TABLE "+table+" (")
	if start < 0 {
		t.Fatalf("table %s not found in migration", table)
	}

	end := strings.Index(ddl[start:], ");")
	if end < 0 {
		t.Fatalf("table %s definition is not terminated", table)
	}

	return ddl[start : start+end]
}
