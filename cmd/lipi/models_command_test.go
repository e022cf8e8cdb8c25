package main

import (
	"os"
	"path/filepath"
	"testing"
)

func seedModelCache(t *testing.T, env *cliTestEnv) {
	t.Helper()
	if err := os.MkdirAll(env.cacheDir, 0o755); err != nil {
		t.Fatalf("mkdir cache: %v", err)
	}
	if err := os.WriteFile(filepath.Join(env.cacheDir, "tiny.pt"), make([]byte, 100), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	if err := os.WriteFile(filepath.Join(env.cacheDir, "base.pt"), make([]byte, 200), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
}

func TestModelsListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"models", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("models list: %v", err)
	}
	requireContains(t, stdout, "No models cached at "+env.cacheDir)
}

func TestModelsList(t *testing.T) {
	env := setupCLITestEnv(t)
	seedModelCache(t, env)

	stdout, _, err := runCLI(t, []string{"models", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("models list: %v", err)
	}
	requireContains(t, stdout, "tiny.pt")
	requireContains(t, stdout, "base.pt")
	requireContains(t, stdout, "Total: 2 models, 300 B")
}

func TestModelsStatsMissingCache(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"models", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("models stats: %v", err)
	}
	requireContains(t, stdout, "Model cache does not exist at "+env.cacheDir)
}

func TestModelsStats(t *testing.T) {
	env := setupCLITestEnv(t)
	seedModelCache(t, env)

	stdout, _, err := runCLI(t, []string{"models", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("models stats: %v", err)
	}
	requireContains(t, stdout, "Cache:   "+env.cacheDir)
	requireContains(t, stdout, "Models:  2")
	requireContains(t, stdout, "Size:    300 B")
	requireContains(t, stdout, "free of")
}

func TestModelsCleanConfirms(t *testing.T) {
	env := setupCLITestEnv(t)
	seedModelCache(t, env)

	stdout, _, err := runCLIWithInput(t, []string{"models", "clean"}, env.configPath, "n\n")
	if err != nil {
		t.Fatalf("models clean: %v", err)
	}
	requireContains(t, stdout, "Aborted")
	if _, statErr := os.Stat(filepath.Join(env.cacheDir, "tiny.pt")); statErr != nil {
		t.Fatalf("aborted clean must keep models: %v", statErr)
	}

	stdout, _, err = runCLI(t, []string{"models", "clean", "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("models clean --yes: %v", err)
	}
	requireContains(t, stdout, "Removed 2 models, freed 300 B")

	stdout, _, err = runCLI(t, []string{"models", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("models list: %v", err)
	}
	requireContains(t, stdout, "No models cached at "+env.cacheDir)
}

func TestModelsCleanEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"models", "clean", "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("models clean: %v", err)
	}
	requireContains(t, stdout, "Model cache is already empty")
}

func TestModelsRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	seedModelCache(t, env)

	stdout, _, err := runCLI(t, []string{"models", "remove", "tiny.pt"}, env.configPath)
	if err != nil {
		t.Fatalf("models remove: %v", err)
	}
	requireContains(t, stdout, "Removed tiny.pt (freed 100 B)")
	if _, statErr := os.Stat(filepath.Join(env.cacheDir, "base.pt")); statErr != nil {
		t.Fatalf("sibling model must survive: %v", statErr)
	}
}

func TestModelsRemoveMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	seedModelCache(t, env)

	_, _, err := runCLI(t, []string{"models", "remove", "huge.pt"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown model")
	}
}
