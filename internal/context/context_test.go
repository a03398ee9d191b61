package context

import (
	"errors"
	"testing"
	"time"

	"github.com/timeless-lut/tjlut/internal/config"
	"github.com/timeless-lut/tjlut/pkg/lut"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
)

func TestFailures(t *testing.T) {
	ctx := New(&config.Config{})
	if got := ctx.Failures(); len(got) != 0 {
		t.Fatalf("Failures() = %v, want none", got)
	}

	errBad := errors.New("bad")
	ctx.Fail(pobdata.DecodeResult{Jewel: lut.MilitantFaith, Err: errBad})
	ctx.Fail(pobdata.DecodeResult{Jewel: lut.GloriousVanity, Err: errBad})
	ctx.Fail(pobdata.DecodeResult{Jewel: lut.GloriousVanity, Err: errBad})

	got := ctx.Failures()
	if len(got) != 2 {
		t.Fatalf("Failures() = %v, want 2 entries", got)
	}
	if got[0].Jewel > got[1].Jewel {
		t.Errorf("Failures() not ordered: %v", got)
	}
}

func TestNewWithTimeout(t *testing.T) {
	ctx, cancel := NewWithTimeout(&config.Config{}, 0)
	if _, ok := ctx.Deadline(); ok {
		t.Error("zero timeout should not set a deadline")
	}
	cancel()
	if ctx.Err() == nil {
		t.Error("cancel() did not cancel the context")
	}

	ctx, cancel = NewWithTimeout(&config.Config{}, time.Minute)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("timeout did not set a deadline")
	}
	if ctx.Parallelism < 1 {
		t.Errorf("Parallelism = %d", ctx.Parallelism)
	}
}
