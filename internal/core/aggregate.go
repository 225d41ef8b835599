package core

import (
	"errors"

	"github.com/tmkp/assertions-api/internal/model"
)

// ErrPredicateUnsupported is returned by AggregateScore when no evidence
// has the given predicate as its top predicate. It only occurs when the
// predicate was not drawn from SupportedPredicates.
var ErrPredicateUnsupported = errors.New("predicate not supported by any evidence")

// SupportedPredicates returns the distinct top predicates across the
// assertion's evidence, in first-seen (stored) order. Evidence without
// scores is skipped. An assertion with no evidence supports no predicates.
func SupportedPredicates(a *model.Assertion) []string {
	var predicates []string
	seen := make(map[string]bool)
	for _, e := range a.Evidence {
		top, err := TopPredicate(e)
		if err != nil {
			continue
		}
		if !seen[top] {
			seen[top] = true
			predicates = append(predicates, top)
		}
	}
	return predicates
}

// AggregateScore returns the arithmetic mean of the predicate's score over
// every evidence item whose top predicate equals the given predicate.
// Summation follows stored evidence order, so repeated calls on unchanged
// input are bit-identical.
func AggregateScore(a *model.Assertion, predicate string) (float64, error) {
	var sum float64
	var n int
	for _, e := range a.Evidence {
		top, err := TopPredicate(e)
		if err != nil || top != predicate {
			continue
		}
		if score, ok := ScoreFor(e, predicate); ok {
			sum += score
			n++
		}
	}
	if n == 0 {
		return 0, ErrPredicateUnsupported
	}
	return sum / float64(n), nil
}

// PredicateScores maps every supported predicate to its aggregate score.
func PredicateScores(a *model.Assertion) map[string]float64 {
	scores := make(map[string]float64)
	for _, p := range SupportedPredicates(a) {
		if s, err := AggregateScore(a, p); err == nil {
			scores[p] = s
		}
	}
	return scores
}
