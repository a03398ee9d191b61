package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
)

var ErrChecksumMismatch = errors.New("checksum mismatch")

// ChecksumMismatchError is returned when a file's sha256 differs from the expected one
type ChecksumMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("%s: checksum mismatch: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

func (e *ChecksumMismatchError) Unwrap() error { return ErrChecksumMismatch }

// Sha256 returns the hex encoded sha256 of a file
func Sha256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sha256Bytes returns the hex encoded sha256 of data
func Sha256Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ValidSha256 reports whether the file matches the expected (case-insensitive) hash
func ValidSha256(path, expected string) (bool, error) {
	actual, err := Sha256(path)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(actual, expected), nil
}

// VerifySha256 returns a *ChecksumMismatchError when the file does not match expected
func VerifySha256(path, expected string) error {
	actual, err := Sha256(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actual, expected) {
		Indent(log.WithFields(log.Fields{
			"expected": expected,
			"actual":   actual,
		}).Error, 3)("BAD CHECKSUM")
		return &ChecksumMismatchError{Path: path, Expected: strings.ToLower(expected), Actual: actual}
	}
	return nil
}
