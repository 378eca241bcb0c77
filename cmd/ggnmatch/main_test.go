package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ggnmatch/internal/config"
	"ggnmatch/internal/testsupport"
)

type cliTestEnv struct {
	cfg         *config.Config
	api         *testsupport.FakeGGN
	baseDir     string
	configPath  string
	catalogPath string
}

var ggnReplies = map[string]string{
	"Half-Life 2": `{"status":"success","response":{"groups":{"42":{"platform":"Windows","weblinks":{"Steam":"https://store.steampowered.com/app/220/x"}}}}}`,
	"Indie Duo":   `{"status":"success","response":{"groups":{"5":{"platform":"Linux","weblinks":[]},"6":{"platform":"Mac","weblinks":[]}}}}`,
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Setenv("GGN_API_KEY", "")
	t.Setenv("LOGLEVEL", "")

	api := testsupport.NewFakeGGN(t, ggnReplies)
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(api.URL()), testsupport.WithHistory())

	env := &cliTestEnv{
		cfg:         cfg,
		api:         api,
		baseDir:     base,
		configPath:  filepath.Join(base, "ggnmatch.toml"),
		catalogPath: filepath.Join(base, "games.csv"),
	}
	testsupport.WriteConfig(t, env.configPath, cfg)
	testsupport.WriteCatalog(t, env.catalogPath,
		[2]string{"Half-Life 2®", "220"},
		[2]string{"Obscure Game", "999"},
		[2]string{"Indie Duo", "123"},
		[2]string{"", "77"},
	)
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestMatchCommandEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"match", env.catalogPath}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	requireContains(t, out, "Half-Life 2, ✅, "+env.api.URL()+"/torrents.php?id=42")
	requireContains(t, out, "Obscure Game, ❌ (no groups found), ")
	requireContains(t, out, "Indie Duo, ☑️, "+env.api.URL()+"/torrents.php?id=6")
	requireContains(t, out, "High confidence")
	requireContains(t, out, "Report written to "+env.cfg.Output.ReportPath)

	if got := strings.Join(env.api.Queries(), "|"); got != "Half-Life 2|Obscure Game|Indie Duo" {
		t.Fatalf("unexpected remote queries: %q", got)
	}

	html, err := os.ReadFile(env.cfg.Output.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	requireContains(t, string(html), "<td>Half-Life 2</td>")
	requireContains(t, string(html), "</table>")

	metrics, err := os.ReadFile(env.cfg.Output.MetricsFile)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	requireContains(t, string(metrics), `ggnmatch_outcomes_total{kind="high_confidence"} 1`)
	requireContains(t, string(metrics), "ggnmatch_entries_skipped_total 1")

	store := testsupport.MustOpenStore(t, env.cfg.Output.ResultsDB)
	runs, err := store.Runs(context.Background(), 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || !runs[0].Finished() {
		t.Fatalf("expected one finished run, got %+v", runs)
	}
	if runs[0].HighConfidence != 1 || runs[0].PreferredPlatform != 1 || runs[0].NoMatch != 1 || runs[0].Skipped != 1 {
		t.Fatalf("unexpected run summary: %+v", runs[0])
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, runs[0].ID)
	requireContains(t, out, env.catalogPath)

	out, _, err = runCLI(t, []string{"history", "--run", runs[0].ID}, env.configPath)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	requireContains(t, out, "Obscure Game")
	requireContains(t, out, "no groups found")
}

func TestMatchCommandSilentAndOutputOverride(t *testing.T) {
	env := setupCLITestEnv(t)
	override := filepath.Join(env.baseDir, "custom.html")

	out, _, err := runCLI(t, []string{"match", env.catalogPath, "-s", "-o", override}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no console output in silent mode, got %q", out)
	}
	if _, err := os.Stat(override); err != nil {
		t.Fatalf("expected report at override path: %v", err)
	}
	if _, err := os.Stat(env.cfg.Output.ReportPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected configured report path untouched, got %v", err)
	}
}

func TestMatchCommandVerboseLogsDecisions(t *testing.T) {
	env := setupCLITestEnv(t)

	_, stderr, err := runCLI(t, []string{"match", env.catalogPath, "-v"}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, stderr, "entry matched")
	requireContains(t, stderr, "catalog row skipped")
}

func TestMatchCommandRejectsVerboseWithSilent(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"match", env.catalogPath, "-v", "-s"}, env.configPath); err == nil {
		t.Fatal("expected error when combining --verbose and --silent")
	}
}

func TestMatchCommandAPIKeyFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	configPath := filepath.Join(env.baseDir, "nokey.toml")
	testsupport.WriteConfig(t, configPath, testsupport.NewConfig(t,
		testsupport.WithBaseURL(env.api.URL()),
		testsupport.WithAPIKey(""),
	))

	_, _, err := runCLI(t, []string{"match", env.catalogPath}, configPath)
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected missing api key error, got %v", err)
	}

	out, _, err := runCLI(t, []string{"match", env.catalogPath, "--api-key", testsupport.TestAPIKey}, configPath)
	if err != nil {
		t.Fatalf("match with --api-key: %v", err)
	}
	requireContains(t, out, "Half-Life 2, ✅")
}

func TestMatchCommandMissingCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"match", filepath.Join(env.baseDir, "missing.csv")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing catalog")
	}
	if _, statErr := os.Stat(env.cfg.Output.ReportPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("report must not be created when the catalog is unreadable, got %v", statErr)
	}
}

func TestHistoryRequiresResultsDB(t *testing.T) {
	env := setupCLITestEnv(t)
	configPath := filepath.Join(env.baseDir, "nohistory.toml")
	testsupport.WriteFile(t, configPath, "[logging]\nformat = \"json\"\n")
	_, _, err := runCLI(t, []string{"history"}, configPath)
	if err == nil || !strings.Contains(err.Error(), "results_db") {
		t.Fatalf("expected results_db hint, got %v", err)
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	if _, _, err := runCLI(t, []string{"history", "--run", "nope"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown run")
	}
}
