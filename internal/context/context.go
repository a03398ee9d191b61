// Package context provides the tjlut context which is passed through the
// pipeline.
//
// The context extends the standard library context and adds a few more
// fields, so pipes can gather data provided by previous pipes without
// really knowing each other.
package context

import (
	stdctx "context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/timeless-lut/tjlut/internal/config"
	"github.com/timeless-lut/tjlut/internal/manifest"
	"github.com/timeless-lut/tjlut/pkg/lut"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
)

// Context carries along some data through the pipes.
type Context struct {
	stdctx.Context
	Config   *config.Config
	Manifest *manifest.DataManifest
	Data     *pobdata.LutData
	Date     time.Time

	// Jewels restricts decoding to these types; empty means all of them
	Jewels []lut.Jewel
	// Fetched lists the files downloaded by this run
	Fetched []string

	Force        bool
	SkipDownload bool
	SkipVerify   bool
	SkipPersist  bool
	Parallelism  int

	mu       sync.Mutex
	failures map[lut.Jewel]pobdata.DecodeResult
}

// New context.
func New(cfg *config.Config) *Context {
	return Wrap(stdctx.Background(), cfg)
}

// NewWithTimeout new context with the given timeout. A zero timeout never expires.
func NewWithTimeout(cfg *config.Config, timeout time.Duration) (*Context, stdctx.CancelFunc) {
	if timeout <= 0 {
		ctx, cancel := stdctx.WithCancel(stdctx.Background())
		return Wrap(ctx, cfg), cancel
	}
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), timeout)
	return Wrap(ctx, cfg), cancel
}

// Wrap wraps an existing context.
func Wrap(ctx stdctx.Context, cfg *config.Config) *Context {
	return &Context{
		Context:     ctx,
		Config:      cfg,
		Parallelism: runtime.NumCPU(),
		Date:        time.Now(),
		failures:    make(map[lut.Jewel]pobdata.DecodeResult),
	}
}

// Fail records a jewel that could not be decoded.
func (ctx *Context) Fail(r pobdata.DecodeResult) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.failures[r.Jewel] = r
}

// Failures returns the recorded decode failures ordered by jewel.
func (ctx *Context) Failures() []pobdata.DecodeResult {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	out := make([]pobdata.DecodeResult, 0, len(ctx.failures))
	for _, r := range ctx.failures {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Jewel < out[j].Jewel })
	return out
}
