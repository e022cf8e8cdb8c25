package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lipi/internal/history"
)

func TestCheckReportsMatch(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.json")
	output := filepath.Join(env.baseDir, "out.json")
	writeTranscriptFile(t, input, map[string]any{
		"text":     "नमस्ते दुनिया",
		"language": "hi",
	})

	stdout, stderr, err := runCLI(t, []string{"check", input, output, "hi"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v (stderr=%q)", err, stderr)
	}
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
	requireContains(t, stderr, "SUCCESS: Script matches expected: devanagari")
	requireNotContains(t, stderr, "NEEDS_RETRANSCRIPTION")

	record := readJSONMap(t, output)
	issue, ok := record["script_issue"].(map[string]any)
	if !ok {
		t.Fatalf("script_issue missing in %v", record)
	}
	if issue["has_mismatch"] != false {
		t.Errorf("has_mismatch = %v, want false", issue["has_mismatch"])
	}
	if issue["expected_script"] != "devanagari" {
		t.Errorf("expected_script = %v, want devanagari", issue["expected_script"])
	}
	if issue["detected_script"] != "devanagari" {
		t.Errorf("detected_script = %v, want devanagari", issue["detected_script"])
	}
	if issue["needs_retranscription"] != false {
		t.Errorf("needs_retranscription = %v, want false", issue["needs_retranscription"])
	}
}

func TestCheckReportsMismatch(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.json")
	output := filepath.Join(env.baseDir, "out.json")
	writeTranscriptFile(t, input, map[string]any{
		"text":     "namaste duniya",
		"language": "hi",
	})

	stdout, stderr, err := runCLI(t, []string{"check", input, output, "hi"}, env.configPath)
	if err != nil {
		t.Fatalf("mismatch must not fail the command: %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
	requireContains(t, stderr, "WARNING: SCRIPT MISMATCH DETECTED!")
	requireContains(t, stderr, "Expected: devanagari for language 'hi'")
	requireContains(t, stderr, "Detected: latin")
	requireContains(t, stderr, "NEEDS_RETRANSCRIPTION")

	record := readJSONMap(t, output)
	issue, ok := record["script_issue"].(map[string]any)
	if !ok {
		t.Fatalf("script_issue missing in %v", record)
	}
	if issue["has_mismatch"] != true {
		t.Errorf("has_mismatch = %v, want true", issue["has_mismatch"])
	}
	if issue["needs_retranscription"] != true {
		t.Errorf("needs_retranscription = %v, want true", issue["needs_retranscription"])
	}
}

func TestCheckPreservesUnrelatedFields(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.json")
	output := filepath.Join(env.baseDir, "out.json")
	writeTranscriptFile(t, input, map[string]any{
		"text":     "hello world",
		"language": "en",
		"segments": []any{map[string]any{"start": 0.0, "end": 1.5, "text": "hello world"}},
		"model":    "tiny",
	})

	_, stderr, err := runCLI(t, []string{"check", input, output, "en"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v (stderr=%q)", err, stderr)
	}

	record := readJSONMap(t, output)
	if record["text"] != "hello world" {
		t.Errorf("text = %v, want unchanged", record["text"])
	}
	if record["model"] != "tiny" {
		t.Errorf("model = %v, want unchanged", record["model"])
	}
	if _, ok := record["segments"].([]any); !ok {
		t.Errorf("segments lost: %v", record["segments"])
	}
}

func TestCheckUnknownLanguageExpectsLatin(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.json")
	output := filepath.Join(env.baseDir, "out.json")
	writeTranscriptFile(t, input, map[string]any{"text": "bonjour le monde"})

	_, stderr, err := runCLI(t, []string{"check", input, output, "fr"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, stderr, "SUCCESS: Script matches expected: latin")
}

func TestCheckWrongArityPrintsUsage(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.json")
	output := filepath.Join(env.baseDir, "out.json")
	writeTranscriptFile(t, input, map[string]any{"text": "hello"})

	_, stderr, err := runCLI(t, []string{"check", input, output}, env.configPath)
	if err == nil {
		t.Fatal("expected arity error")
	}
	requireContains(t, err.Error(), "accepts 3 arg(s), received 2")
	requireContains(t, stderr, "Usage:")
	requireContains(t, stderr, "check <input.json> <output.json> <language_code>")
	if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output must not be written on arity error, stat: %v", statErr)
	}
}

func TestCheckMissingInput(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "absent.json")
	output := filepath.Join(env.baseDir, "out.json")

	_, _, err := runCLI(t, []string{"check", input, output, "hi"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output must not be written on failure, stat: %v", statErr)
	}
}

func TestCheckMalformedInput(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "bad.json")
	output := filepath.Join(env.baseDir, "out.json")
	if err := os.WriteFile(input, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	_, _, err := runCLI(t, []string{"check", input, output, "hi"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for malformed input")
	}
	if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output must not be written on failure, stat: %v", statErr)
	}
}

func TestCheckRerunIsIdempotent(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.json")
	output := filepath.Join(env.baseDir, "out.json")
	writeTranscriptFile(t, input, map[string]any{
		"text":     "namaste duniya",
		"language": "hi",
	})

	if _, _, err := runCLI(t, []string{"check", input, output, "hi"}, env.configPath); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read first output: %v", err)
	}

	if _, _, err := runCLI(t, []string{"check", output, output, "hi"}, env.configPath); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read second output: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("reprocessing changed the output:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestCheckRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.json")
	output := filepath.Join(env.baseDir, "out.json")
	writeTranscriptFile(t, input, map[string]any{
		"text":     "namaste duniya",
		"language": "hi",
	})

	if _, _, err := runCLI(t, []string{"check", input, output, "hi"}, env.configPath); err != nil {
		t.Fatalf("check: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"history", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("parse history output: %v\n%s", err, stdout)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.Kind != history.KindCheck {
		t.Errorf("kind = %q, want %q", run.Kind, history.KindCheck)
	}
	if !run.HasMismatch || !run.NeedsRetry {
		t.Errorf("mismatch flags not recorded: %+v", run)
	}
	if run.DetectedScript != "latin" || run.ExpectedScript != "devanagari" {
		t.Errorf("scripts not recorded: %+v", run)
	}
	if run.Status != history.StatusOK {
		t.Errorf("status = %q, want %q (a mismatch is not a failure)", run.Status, history.StatusOK)
	}
}
