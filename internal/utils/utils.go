package utils

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/apex/log/handlers/cli"
)

var normalPadding = cli.Default.Padding

type stop struct {
	error
}

// Stop wraps err so Retry returns it without trying again
func Stop(err error) error {
	return stop{err}
}

// Retry calls f until it succeeds, doubling sleep (plus jitter) between attempts
func Retry(attempts int, sleep time.Duration, f func() error) error {
	if err := f(); err != nil {
		var s stop
		if errors.As(err, &s) {
			// Return the original error for later checking
			return s.error
		}

		if attempts--; attempts > 0 {
			if sleep > 0 {
				jitter := time.Duration(rand.Int64N(int64(sleep)))
				sleep = sleep + jitter/2
			}

			time.Sleep(sleep)
			return Retry(attempts, 2*sleep, f)
		}
		return fmt.Errorf("retry attempts exhausted: %w", err)
	}

	return nil
}

func RandomAgent() string {
	var userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	}
	return userAgents[rand.IntN(len(userAgents))]
}

// Indent indents apex log line to supplied level
func Indent(f func(s string), level int) func(string) {
	return func(s string) {
		cli.Default.Padding = normalPadding * level
		f(s)
		cli.Default.Padding = normalPadding
	}
}
