package sim

import (
	"context"

	"github.com/san-kum/gravsim/internal/body"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent copies of one scenario side by side. Every member
// must finish with the same digest.
type Ensemble struct {
	cat     *body.Catalog
	cfg     Config
	numRuns int
}

func NewEnsemble(cat *body.Catalog, cfg Config, numRuns int) *Ensemble {
	return &Ensemble{cat: cat, cfg: cfg, numRuns: numRuns}
}

type EnsembleResult struct {
	Steps  int
	Time   float64
	Digest uint64
}

func (e *Ensemble) Run(ctx context.Context, target float64) ([]EnsembleResult, error) {
	results := make([]EnsembleResult, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.cfg
			cfg.DetectCollisions = false

			s, err := New(e.cat, cfg)
			if err != nil {
				return err
			}
			steps, err := s.RunContext(ctx, target)
			if err != nil {
				return err
			}
			results[i] = EnsembleResult{Steps: steps, Time: s.Time(), Digest: s.Snapshot().Digest()}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Agree reports whether every result carries the same digest.
func Agree(results []EnsembleResult) bool {
	for i := 1; i < len(results); i++ {
		if results[i].Digest != results[0].Digest {
			return false
		}
	}
	return true
}
