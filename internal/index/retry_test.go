package index

import (
	"context"
	"errors"
	"testing"
)

type codedErr struct{ code int }

func (e codedErr) Error() string { return "sqlite error" }
func (e codedErr) Code() int     { return e.code }

func TestIsSQLiteBusy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"code", codedErr{code: 5}, true},
		{"extended code", codedErr{code: 517}, true},
		{"other code", codedErr{code: 19}, false},
		{"message", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"plain", errors.New("disk I/O error"), false},
	}
	for _, tc := range cases {
		if got := isSQLiteBusy(tc.err); got != tc.want {
			t.Fatalf("%s: isSQLiteBusy = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRetryOnBusyRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := retryOnBusy(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return codedErr{code: sqliteBusyCode}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retryOnBusy returned error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryOnBusyStopsOnOtherErrors(t *testing.T) {
	attempts := 0
	want := errors.New("constraint failed")
	err := retryOnBusy(context.Background(), func() error {
		attempts++
		return want
	})
	if !errors.Is(err, want) || attempts != 1 {
		t.Fatalf("expected single attempt returning %v, got %v after %d", want, err, attempts)
	}
}

func TestRetryOnBusyGivesUp(t *testing.T) {
	attempts := 0
	err := retryOnBusy(context.Background(), func() error {
		attempts++
		return codedErr{code: sqliteBusyCode}
	})
	if !isSQLiteBusy(err) || attempts != busyRetryAttempts {
		t.Fatalf("expected busy error after %d attempts, got %v after %d", busyRetryAttempts, err, attempts)
	}
}

func TestRetryOnBusyHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retryOnBusy(ctx, func() error {
		return codedErr{code: sqliteBusyCode}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNormalizeTag(t *testing.T) {
	for in, want := range map[string]string{
		"":        "",
		"#":       "",
		"win32":   "#win32",
		"#Mobile": "#mobile",
		" hd ":    "#hd",
	} {
		if got := normalizeTag(in); got != want {
			t.Fatalf("normalizeTag(%q) = %q, want %q", in, got, want)
		}
	}
}
