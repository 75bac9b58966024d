package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCollectStaticCopiesAssets(t *testing.T) {
	outDir := t.TempDir()

	output, err := runCommand(t, "collect-static", "--out", outDir)
	if err != nil {
		t.Fatalf("collect-static: %v", err)
	}
	if !strings.Contains(output, "copied to "+outDir) {
		t.Errorf("output = %q", output)
	}
	if _, err := os.Stat(filepath.Join(outDir, "app.css")); err != nil {
		t.Errorf("app.css not copied: %v", err)
	}
}

func TestSeedClearRequiresConfirm(t *testing.T) {
	t.Setenv("FOODRESCUE_DB_PATH", filepath.Join(t.TempDir(), "cli.db"))

	_, err := runCommand(t, "seed", "clear")
	if err == nil {
		t.Fatalf("seed clear without --confirm should fail")
	}
	if !strings.Contains(err.Error(), "--confirm") {
		t.Errorf("error = %v, want mention of --confirm", err)
	}
}

func TestMigrateReportsAppliedMigrations(t *testing.T) {
	t.Setenv("FOODRESCUE_DB_PATH", filepath.Join(t.TempDir(), "cli.db"))

	output, err := runCommand(t, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(output, "001_regions_partners.sql") {
		t.Errorf("output missing first migration: %q", output)
	}
	if !strings.Contains(output, "5 migrations applied") {
		t.Errorf("output = %q, want 5 migrations applied", output)
	}
}

func TestCreateOperator(t *testing.T) {
	t.Setenv("FOODRESCUE_DB_PATH", filepath.Join(t.TempDir(), "cli.db"))

	output, err := runCommand(t, "create-operator",
		"--username", "dispatcher", "--password", "rescue-pass-1")
	if err != nil {
		t.Fatalf("create-operator: %v", err)
	}
	if !strings.Contains(output, "operator dispatcher created") {
		t.Errorf("output = %q", output)
	}

	_, err = runCommand(t, "create-operator",
		"--username", "dispatcher", "--password", "rescue-pass-1")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("duplicate create should fail, got %v", err)
	}
}

func TestSeedSampleAndClear(t *testing.T) {
	t.Setenv("FOODRESCUE_DB_PATH", filepath.Join(t.TempDir(), "cli.db"))

	output, err := runCommand(t, "seed", "sample")
	if err != nil {
		t.Fatalf("seed sample: %v", err)
	}
	if !strings.Contains(output, "created 1 regions, 3 food banks, 4 grocery stores, 5 donations") {
		t.Errorf("output = %q", output)
	}

	output, err = runCommand(t, "seed", "clear", "--confirm", "--keep-categories")
	if err != nil {
		t.Fatalf("seed clear: %v", err)
	}
	if !strings.Contains(output, "1 regions, 0 categories") {
		t.Errorf("output = %q", output)
	}
}
