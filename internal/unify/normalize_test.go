package unify_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"unify/internal/unify"
)

func TestNormalizeSeparatorInvariance(t *testing.T) {
	want := "asset-folder"
	inputs := []string{
		"folder\\asset",
		"folder/asset",
		"folder-asset",
		"folder_asset",
		"folder|asset",
		"folder:asset",
		"folder;asset",
		"folder,asset",
		"[folder]asset",
		"asset(folder)",
	}
	for _, input := range inputs {
		if got := unify.Normalize(input, nil); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizePathDepthInvariance(t *testing.T) {
	want := unify.Normalize("~home/game/folder/asset.jpg", nil)
	if want != "asset-folder" {
		t.Fatalf("unexpected base UID %q", want)
	}
	inputs := []string{
		"~user/game1/folder/asset.jpg",
		"~mark/game2/folder/asset.jpg",
		"~john/game3/data/folder/asset.jpg",
		"../folder/asset.jpg",
		"C:\\data\\folder\\asset.jpg",
		"C:/game/data/folder/asset.jpg",
		"data.zip/data/folder/asset.jpg",
		"virtual.rar/folder/asset.jpg",
		"http://web.domain.com%20/folder/asset.jpg?blabla=123&abc=123#qwe",
	}
	for _, input := range inputs {
		if got := unify.Normalize(input, nil); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeCanonicalForms(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"mesh/main-character", "character-main-mesh"},
		{"mesh/main_character", "character-main-mesh"},
		{"mesh/Main Character", "character-main-mesh"},
		{"mesh / Main  character ", "character-main-mesh"},
		{"mesh\t/Main\ncharacter", "character-main-mesh"},
		{"music/theme.ogg", "music-theme"},
		{"music/theme.wav", "music-theme"},
		{"ui/logo.png", "logo-ui"},
		{"ui/logo.webp", "logo-ui"},
		{"game\\logo.bmp", "game-logo"},
		{"logo/game", "game-logo"},
		{"player-joins-scene.intro", "join-player-scene"},
		{"roses-are-red", "are-red-rose"},
	}
	for _, tc := range cases {
		if got := unify.Normalize(tc.input, nil); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeDoubleExtensionsAndPunctuation(t *testing.T) {
	pairs := [][2]string{
		{"game/logo.bmp.png", "game/logo.bmp"},
		{"game/logo.png", "game/logo..png"},
	}
	for _, pair := range pairs {
		a := unify.Normalize(pair[0], nil)
		b := unify.Normalize(pair[1], nil)
		if a != b {
			t.Errorf("Normalize(%q) = %q, Normalize(%q) = %q; want equal", pair[0], a, pair[1], b)
		}
	}
}

func TestNormalizeSegmentOrderInvariance(t *testing.T) {
	want := unify.Normalize("player-joins-scene.intro", nil)
	for _, input := range []string{
		"player-scene-join.intro",
		"join-player-scene.intro",
		"join-scene-player.intro",
		"scene-join-player.intro",
		"scene-player-join.intro",
	} {
		if got := unify.Normalize(input, nil); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeFoldsAoSAndSoALayouts(t *testing.T) {
	cases := []struct {
		aos, soa, want string
	}{
		{"sounds/kid", "kid/sound", "kid-sound"},
		{"sprites/kid", "kid/sprite", "kid-sprite"},
		{"sounds/car", "car/sound", "car-sound"},
		{"sprites/car", "car/sprite", "car-sprite"},
	}
	for _, tc := range cases {
		a := unify.Normalize(tc.aos, nil)
		b := unify.Normalize(tc.soa, nil)
		if a != tc.want || b != tc.want {
			t.Errorf("Normalize(%q)=%q Normalize(%q)=%q, want both %q", tc.aos, a, tc.soa, b, tc.want)
		}
	}
}

func TestNormalizeNaivePluralStrip(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		// Singular words ending in "s" still lose one character.
		{"bus/glass", "bu-glas"},
		{"status", "statu"},
		// Only one trailing "s" is removed per pass.
		{"classes", "classe"},
		// A lone "s" token disappears instead of leaving an empty token.
		{"s/asset", "asset"},
	}
	for _, tc := range cases {
		if got := unify.Normalize(tc.input, nil); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeKeepsDuplicateTokens(t *testing.T) {
	if got := unify.Normalize("red/red-blue", nil); got != "blue-red-red" {
		t.Fatalf("expected duplicates to be preserved, got %q", got)
	}
}

func TestNormalizeDiacritics(t *testing.T) {
	want := unify.Normalize("animation/walk", nil)
	if got := unify.Normalize("âñimátïón/wàlk", nil); got != want {
		t.Fatalf("Normalize with diacritics = %q, want %q", got, want)
	}
	if got := unify.Normalize("ÇÀÑÉ/Ü", nil); got != "cane-u" {
		t.Fatalf("uppercase accented letters: got %q", got)
	}
}

func TestNormalizeLatin1Bytes(t *testing.T) {
	// 0xE0 is Latin-1 'à'; on its own it is not valid UTF-8.
	if got := unify.Normalize("\xe0nim\xe0/walk", nil); got != "anima-walk" {
		t.Fatalf("Latin-1 bytes: got %q", got)
	}
}

func TestNormalizeUnmappedNonASCIIPassesThrough(t *testing.T) {
	if got := unify.Normalize("straße", nil); got != "straße" {
		t.Fatalf("expected unmapped rune to pass through, got %q", got)
	}
	if got := unify.Normalize("a\xff/b", nil); got != "a\xff-b" {
		t.Fatalf("expected invalid byte to pass through, got %q", got)
	}
}

func TestNormalizeWithoutDiacritics(t *testing.T) {
	n := unify.New(unify.WithDiacritics(false))
	if n.FoldsDiacritics() {
		t.Fatal("expected diacritic folding disabled")
	}
	if got := n.Normalize("wàlk", nil); got != "wàlk" {
		t.Fatalf("expected accented input preserved, got %q", got)
	}
	if got := n.Normalize("Main Character", nil); got != "character-main" {
		t.Fatalf("unexpected UID %q", got)
	}
}

func TestNormalizeUnderscoreSeparator(t *testing.T) {
	n := unify.New(unify.WithSeparator(unify.SeparatorUnderscore))
	got := n.Normalize("mesh/Main Character", nil)
	if got != "character_main_mesh" {
		t.Fatalf("unexpected UID %q", got)
	}
	if again := n.Normalize(got, nil); again != got {
		t.Fatalf("underscore UID not stable: %q -> %q", got, again)
	}
	if n.Profile() == unify.Default().Profile() {
		t.Fatalf("expected profiles to differ, both %q", n.Profile())
	}
}

func TestWithSeparatorIgnoresUnsupportedBytes(t *testing.T) {
	n := unify.New(unify.WithSeparator('/'))
	if n.Separator() != unify.SeparatorHyphen {
		t.Fatalf("expected hyphen separator, got %q", n.Separator())
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"roses-are-red",
		"folder\\asset",
		"mesh/Main Character",
		"music/theme.ogg",
		"sounds/kid",
		"splash #mobile/logo #win32=always.png",
		"~john/game3/data/folder/asset.jpg",
		"âñimátïón/wàlk",
	}
	for _, input := range inputs {
		once := unify.Normalize(input, nil)
		twice := unify.Normalize(once, nil)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", input, once, twice)
		}
	}
}

func TestNormalizeDegenerateInput(t *testing.T) {
	for _, input := range []string{"", "///", "\\\\", "?a=b", "#tag", ".png", "---", " ", "s", "(),;:|[]"} {
		if got := unify.Normalize(input, nil); got != "" {
			t.Errorf("Normalize(%q) = %q, want empty", input, got)
		}
	}
}

func TestNormalizeLongInput(t *testing.T) {
	input := strings.Repeat("à", 3000) + "/" + strings.Repeat("b", 3000)
	got := unify.Normalize(input, nil)
	want := strings.Repeat("a", 3000) + "-" + strings.Repeat("b", 3000)
	if got != want {
		t.Fatalf("unexpected UID for long input (len %d)", len(got))
	}
}

func TestNormalizeConcurrentCallsAgree(t *testing.T) {
	inputs := []string{"folder/asset", "âñimátïón/wàlk", "splash #mobile/logo", "sounds/kid"}
	want := make([]string, len(inputs))
	for i, input := range inputs {
		want[i] = unify.Normalize(input, nil)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, input := range inputs {
				var tags []string
				if got := unify.Normalize(input, &tags); got != want[i] {
					errs <- fmt.Sprintf("Normalize(%q) = %q, want %q", input, got, want[i])
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}
