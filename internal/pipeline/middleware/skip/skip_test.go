package skip

import (
	"testing"

	"github.com/timeless-lut/tjlut/internal/config"
	"github.com/timeless-lut/tjlut/internal/context"
)

type downloadPipe struct{}

func (downloadPipe) String() string                 { return "download" }
func (downloadPipe) Skip(ctx *context.Context) bool { return ctx.SkipDownload }

func TestMaybe(t *testing.T) {
	tests := []struct {
		name    string
		skipper any
		skip    bool
		wantRun bool
	}{
		{"skipped", downloadPipe{}, true, false},
		{"not skipped", downloadPipe{}, false, true},
		{"not a skipper", struct{}{}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.New(&config.Config{})
			ctx.SkipDownload = tt.skip
			ran := false
			err := Maybe(tt.skipper, func(*context.Context) error {
				ran = true
				return nil
			})(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if ran != tt.wantRun {
				t.Errorf("ran = %t, want %t", ran, tt.wantRun)
			}
		})
	}
}
