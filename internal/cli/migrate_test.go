package cli_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/mcairns/taskdeck/internal/cli"
	"github.com/mcairns/taskdeck/internal/repository/sqlite"
)

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli-test.db")

	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"migrate", "--database", dbPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// The schema must be usable afterwards.
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("open migrated db: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.SqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 applied migrations, got %d", count)
	}
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"bogus"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
}
