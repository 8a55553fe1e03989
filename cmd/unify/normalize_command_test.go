package main

import (
	"encoding/json"
	"testing"
)

func TestNormalizeArguments(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "normalize", "Icons/Game_Logo.png", "./a/b/c/d.png", "game/logo..png")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if want := "game-icon-logo\nc-d\ngame-logo\n"; out != want {
		t.Fatalf("normalize output = %q, want %q", out, want)
	}
}

func TestNormalizeReadsStdin(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "ui/logo.png\n\n/splash/#win32/logo\r\n", "normalize", "--tags")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if want := "logo-ui\nlogo-splash\t#win32\n"; out != want {
		t.Fatalf("normalize output = %q, want %q", out, want)
	}
}

func TestNormalizeJSONWithSeparatorOverride(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "normalize", "--json", "--separator", "_", "./game.zip/logos #win32/big.webp")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	var results []normalizeResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode json %q: %v", out, err)
	}
	if len(results) != 1 || results[0].UID != "big_logo" {
		t.Fatalf("unexpected results %+v", results)
	}
	if len(results[0].Tags) != 1 || results[0].Tags[0] != "#win32" {
		t.Fatalf("unexpected tags %+v", results[0].Tags)
	}
}

func TestNormalizeDiacriticsToggle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "normalize", "âñimátïón/wàlk")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out != "animation-walk\n" {
		t.Fatalf("folded output = %q", out)
	}

	out, _, err = runCLI(t, env, "", "normalize", "--no-diacritics", "café/x")
	if err != nil {
		t.Fatalf("normalize --no-diacritics: %v", err)
	}
	if out != "café-x\n" {
		t.Fatalf("unfolded output = %q", out)
	}
}

func TestNormalizeTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "normalize", "--table", "ui/logo.png")
	if err != nil {
		t.Fatalf("normalize --table: %v", err)
	}
	requireContains(t, out, "UID")
	requireContains(t, out, "logo-ui")
}

func TestNormalizeRejectsBadFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "", "normalize", "--separator", ".", "a/b"); err == nil {
		t.Fatal("expected error for unsupported separator")
	}
	if _, _, err := runCLI(t, env, "", "normalize", "--json", "--table", "a/b"); err == nil {
		t.Fatal("expected error for --json with --table")
	}
}
