package main

import (
	"testing"
	"time"

	"github.com/Aashi1109/contacts-api/internal/app/system/timeouts"
	"github.com/alecthomas/kong"
)

func TestCLI_Defaults(t *testing.T) {
	var cli CLI
	k, err := kong.New(&cli, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cli.Users != 20 || cli.Contacts != 3 || !cli.Clear {
		t.Errorf("defaults = users %d, contacts %d, clear %v", cli.Users, cli.Contacts, cli.Clear)
	}
	if got := cli.deadline(); got != timeouts.Batch() {
		t.Errorf("deadline = %s, want batch timeout %s", got, timeouts.Batch())
	}
}

func TestCLI_TimeoutOverridesBatch(t *testing.T) {
	var cli CLI
	k, err := kong.New(&cli, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.Parse([]string{"--timeout=45s"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := cli.deadline(); got != 45*time.Second {
		t.Errorf("deadline = %s, want 45s", got)
	}
}

func TestCLI_Flags(t *testing.T) {
	t.Setenv("CONTACTSAPI_MONGO_DATABASE", "FromEnv")

	var cli CLI
	k, err := kong.New(&cli, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.Parse([]string{"--users=5", "--contacts=2", "--no-clear", "--seed=9"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cli.Users != 5 || cli.Contacts != 2 || cli.Clear || cli.Seed != 9 {
		t.Errorf("parsed = %+v", cli)
	}
	if cli.Database != "FromEnv" {
		t.Errorf("Database = %q, want value from env", cli.Database)
	}
}
