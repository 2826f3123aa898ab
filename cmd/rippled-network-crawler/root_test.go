package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewRootCmd verifies the command tree wiring.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "rippled-network-crawler" {
		t.Errorf("Use = %q, want %q", cmd.Use, "rippled-network-crawler")
	}

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"crawl", "version"} {
		if !names[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}

	if flag := cmd.PersistentFlags().Lookup("verbose"); flag == nil {
		t.Error("missing persistent --verbose flag")
	}
}

// TestRootCmdHelp verifies that help runs without error.
func TestRootCmdHelp(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() returned error: %v", err)
	}
	if !strings.Contains(out.String(), "rippled-network-crawler") {
		t.Errorf("help output missing command name:\n%s", out.String())
	}
}

// TestRootCmdUnknownCommand verifies that an unknown subcommand fails.
func TestRootCmdUnknownCommand(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"no-such-command"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown subcommand")
	}
}
