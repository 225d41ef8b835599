// Package core implements the deterministic aggregation and filtering logic
// over loaded assertion/evidence values: per-evidence top predicates,
// per-assertion aggregate confidence, query spec parsing, and flattened
// edge derivation.
package core

import (
	"errors"

	"github.com/tmkp/assertions-api/internal/model"
)

// ErrNoScores is returned when an evidence record carries no predicate
// scores. Callers must treat it as "no data", never as zero confidence.
var ErrNoScores = errors.New("evidence has no predicate scores")

// TopPredicate returns the predicate with the maximum score among the
// evidence's score set. Ties keep the earliest stored entry, so the result
// is deterministic for unchanged input.
func TopPredicate(e *model.Evidence) (string, error) {
	if len(e.Scores) == 0 {
		return "", ErrNoScores
	}
	best := e.Scores[0]
	for _, s := range e.Scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.PredicateCurie, nil
}

// ScoreFor returns the evidence's score for the named predicate, or
// ok=false when the predicate has no score entry. An empty predicate means
// the top predicate.
func ScoreFor(e *model.Evidence, predicate string) (float64, bool) {
	if predicate == "" {
		top, err := TopPredicate(e)
		if err != nil {
			return 0, false
		}
		predicate = top
	}
	for _, s := range e.Scores {
		if s.PredicateCurie == predicate {
			return s.Score, true
		}
	}
	return 0, false
}
