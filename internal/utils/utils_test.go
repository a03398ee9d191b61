package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRetry(t *testing.T) {
	var calls int
	err := Retry(3, 0, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("Retry() = %v after %d calls, want nil after 3", err, calls)
	}

	calls = 0
	fatal := errors.New("fatal")
	err = Retry(5, 0, func() error {
		calls++
		return Stop(fatal)
	})
	if !errors.Is(err, fatal) || calls != 1 {
		t.Errorf("Retry(Stop) = %v after %d calls, want fatal after 1", err, calls)
	}

	calls = 0
	err = Retry(2, 0, func() error {
		calls++
		return errors.New("always")
	})
	if err == nil || calls != 2 {
		t.Errorf("Retry() = %v after %d calls, want error after 2", err, calls)
	}
}

func TestSha256(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	path := filepath.Join(t.TempDir(), "abc")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := Sha256Bytes([]byte("abc")); got != want {
		t.Errorf("Sha256Bytes() = %s, want %s", got, want)
	}
	got, err := Sha256(path)
	if err != nil || got != want {
		t.Errorf("Sha256() = %s, %v, want %s", got, err, want)
	}

	tests := []struct {
		name     string
		expected string
		valid    bool
	}{
		{"lower", want, true},
		{"upper", strings.ToUpper(want), true},
		{"wrong", strings.Repeat("0", 64), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := ValidSha256(path, tt.expected)
			if err != nil || ok != tt.valid {
				t.Errorf("ValidSha256() = %t, %v, want %t", ok, err, tt.valid)
			}
			err = VerifySha256(path, tt.expected)
			if tt.valid && err != nil {
				t.Errorf("VerifySha256() error = %v", err)
			}
			if !tt.valid {
				var ce *ChecksumMismatchError
				if !errors.As(err, &ce) || ce.Actual != want || !errors.Is(err, ErrChecksumMismatch) {
					t.Errorf("VerifySha256() error = %v, want ChecksumMismatchError", err)
				}
			}
		})
	}

	if _, err := Sha256(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Sha256() on a missing file returned nil error")
	}
}
