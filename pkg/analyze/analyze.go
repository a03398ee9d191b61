// Package analyze scores timeless jewel seeds against weighted modifiers and
// ranks them.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/timeless-lut/tjlut/pkg/lut"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
)

var (
	// ErrNoTable is returned when the jewel type has no decoded table
	ErrNoTable = errors.New("no lookup table for jewel")
	// ErrSeedOutOfRange is returned for seeds outside the jewel's range
	ErrSeedOutOfRange = errors.New("seed out of range")
)

// Jewel is one timeless jewel to analyze
type Jewel struct {
	Type      lut.Jewel `json:"type"`
	Seed      uint32    `json:"seed"`
	Conqueror string    `json:"conqueror,omitempty"`
}

// SocketResult is the score of a jewel in one socket
type SocketResult struct {
	Socket  string       `json:"socket"`
	Name    string       `json:"name,omitempty"`
	Score   float64      `json:"score"`
	Matched []MatchedMod `json:"matched,omitempty"`
	Mods    []string     `json:"mods"`
}

// Result is the analysis of one jewel over every configured socket
type Result struct {
	Jewel      Jewel          `json:"jewel"`
	Sockets    []SocketResult `json:"sockets"`
	BestScore  float64        `json:"best_score"`
	BestSocket string         `json:"best_socket,omitempty"`
}

// Ranked is a result with its rank, 1 being the best
type Ranked struct {
	Rank int `json:"rank"`
	*Result
}

// Analyzer scores jewels with decoded lookup tables
type Analyzer struct {
	data    *pobdata.LutData
	scorer  *Scorer
	sockets []Socket
}

// New returns an analyzer over data using cfg's mods and sockets
func New(data *pobdata.LutData, cfg *Config) (*Analyzer, error) {
	if data == nil || data.Jewels == nil {
		return nil, fmt.Errorf("analyze: %w", pobdata.ErrNoDataFiles)
	}
	if err := cfg.verify(); err != nil {
		return nil, err
	}
	return &Analyzer{
		data:    data,
		scorer:  NewScorer(cfg.Mods),
		sockets: cfg.Sockets,
	}, nil
}

// Analyze scores j in every socket. The best socket is the first one with the
// highest score.
func (a *Analyzer) Analyze(j Jewel) (*Result, error) {
	table, ok := a.data.Jewels.Get(j.Type)
	if !ok {
		return nil, fmt.Errorf("%s: %w", j.Type, ErrNoTable)
	}
	if !table.Seeds.Contains(j.Seed) {
		return nil, fmt.Errorf("%s seed %d not in %s: %w", j.Type, j.Seed, table.Seeds, ErrSeedOutOfRange)
	}

	res := &Result{Jewel: j, Sockets: make([]SocketResult, 0, len(a.sockets))}
	for i, s := range a.sockets {
		sr := a.socket(j, s)
		if i == 0 || sr.Score > res.BestScore {
			res.BestScore = sr.Score
			res.BestSocket = sr.Socket
		}
		res.Sockets = append(res.Sockets, sr)
	}
	return res, nil
}

func (a *Analyzer) socket(j Jewel, s Socket) SocketResult {
	sr := SocketResult{Socket: s.ID, Name: s.Name, Mods: []string{}}
	index := make(map[string]int)

	for _, nodeID := range s.Nodes {
		mod, ok := a.data.GetModifier(j.Type, j.Seed, nodeID)
		if !ok {
			continue
		}
		name := mod.DisplayName
		if name == "" {
			name = mod.ID
		}
		sr.Mods = append(sr.Mods, name)

		// a modifier counts once per key even if several of its texts match
		seen := make(map[string]bool)
		for _, text := range modTexts(mod) {
			if seen[text] {
				continue
			}
			seen[text] = true
			weight, ok := a.scorer.Weight(text)
			if !ok {
				continue
			}
			if i, ok := index[text]; ok {
				sr.Matched[i].Count++
				continue
			}
			index[text] = len(sr.Matched)
			sr.Matched = append(sr.Matched, MatchedMod{Text: text, Weight: weight, Count: 1})
		}
	}
	sr.Score = a.scorer.Score(sr.Matched)
	return sr
}

func modTexts(m *pobdata.NodeModifier) []string {
	texts := make([]string, 0, len(m.StatDescriptions)+2)
	texts = append(texts, m.ID)
	if m.DisplayName != "" {
		texts = append(texts, m.DisplayName)
	}
	return append(texts, m.StatDescriptions...)
}

// Rank analyzes jewels in parallel and orders them by best score, highest
// first. Equal scores keep their input order. Any failed jewel fails the batch.
func (a *Analyzer) Rank(ctx context.Context, jewels []Jewel) ([]Ranked, error) {
	results := make([]*Result, len(jewels))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, j := range jewels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := a.Analyze(j)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, k int) bool { return results[i].BestScore > results[k].BestScore })
	ranked := make([]Ranked, len(results))
	for i, res := range results {
		ranked[i] = Ranked{Rank: i + 1, Result: res}
	}
	return ranked, nil
}

// Seeds returns one Jewel per seed of the jewel type's decoded table
func (a *Analyzer) Seeds(t lut.Jewel, conqueror string) ([]Jewel, error) {
	table, ok := a.data.Jewels.Get(t)
	if !ok {
		return nil, fmt.Errorf("%s: %w", t, ErrNoTable)
	}
	jewels := make([]Jewel, 0, table.Seeds.Size())
	for seed := table.Seeds.Min; seed <= table.Seeds.Max; seed++ {
		jewels = append(jewels, Jewel{Type: t, Seed: seed, Conqueror: conqueror})
	}
	return jewels, nil
}
