package sources

import (
	"context"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/moznion/go-optional"
)

// Scorer is a pluggable opinion such as a statistical model, a position
// sizing output or a stub. None means no opinion.
type Scorer interface {
	Score(ctx context.Context, input aggregator.Input) (optional.Option[float64], error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(ctx context.Context, input aggregator.Input) (optional.Option[float64], error)

func (f ScorerFunc) Score(ctx context.Context, input aggregator.Input) (optional.Option[float64], error) {
	return f(ctx, input)
}

// ScorerSource exposes a Scorer as an aggregator source.
type ScorerSource struct {
	name   string
	scorer Scorer
}

func NewScorerSource(name string, scorer Scorer) (*ScorerSource, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "scorer source needs a name")
	}

	if scorer == nil {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "scorer source %s has no scorer", name)
	}

	return &ScorerSource{
		name:   name,
		scorer: scorer,
	}, nil
}

func (s *ScorerSource) Name() string {
	return s.name
}

func (s *ScorerSource) Analyze(ctx context.Context, input aggregator.Input) (aggregator.Score, error) {
	value, err := s.scorer.Score(ctx, input)
	if err != nil {
		return aggregator.Score{}, errors.Wrapf(errors.ErrCodeSourceFailed, err, "scorer %s failed", s.name)
	}

	if value.IsNone() {
		return aggregator.NullScore("no score"), nil
	}

	return aggregator.NewScore(value.Unwrap(), "external score"), nil
}
