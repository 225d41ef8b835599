package core

import (
	"errors"
	"math"
	"testing"

	"github.com/tmkp/assertions-api/internal/model"
)

func TestSupportedPredicates(t *testing.T) {
	a := &model.Assertion{Evidence: []*model.Evidence{
		ev("e1", score("biolink:treats", 0.9)),
		ev("e2", score("biolink:treats", 0.7), score("biolink:contributes_to", 0.3)),
		ev("e3", score("biolink:contributes_to", 0.8), score("biolink:treats", 0.2)),
		ev("e4"), // no scores, skipped
	}}

	predicates := SupportedPredicates(a)
	want := []string{"biolink:treats", "biolink:contributes_to"}
	if len(predicates) != len(want) {
		t.Fatalf("predicates = %v, want %v", predicates, want)
	}
	for i := range want {
		if predicates[i] != want[i] {
			t.Errorf("predicates[%d] = %q, want %q", i, predicates[i], want[i])
		}
	}
}

func TestSupportedPredicatesNoEvidence(t *testing.T) {
	if got := SupportedPredicates(&model.Assertion{}); len(got) != 0 {
		t.Errorf("predicates = %v, want none", got)
	}
}

// SupportedPredicates must be a subset of the union of predicates in the
// evidence score sets.
func TestSupportedPredicatesSubsetOfScored(t *testing.T) {
	a := &model.Assertion{Evidence: []*model.Evidence{
		ev("e1", score("biolink:treats", 0.9), score("biolink:affects", 0.1)),
		ev("e2", score("biolink:contributes_to", 0.5)),
	}}
	scored := make(map[string]bool)
	for _, e := range a.Evidence {
		for _, s := range e.Scores {
			scored[s.PredicateCurie] = true
		}
	}
	for _, p := range SupportedPredicates(a) {
		if !scored[p] {
			t.Errorf("supported predicate %q never appears in any score set", p)
		}
	}
}

func TestAggregateScore(t *testing.T) {
	t.Run("WorkedExample", func(t *testing.T) {
		// Two evidence items both topping at biolink:treats, 0.9 and 0.7.
		a := &model.Assertion{Evidence: []*model.Evidence{
			ev("e1", score("biolink:treats", 0.9)),
			ev("e2", score("biolink:treats", 0.7)),
		}}
		predicates := SupportedPredicates(a)
		if len(predicates) != 1 || predicates[0] != "biolink:treats" {
			t.Fatalf("predicates = %v, want [biolink:treats]", predicates)
		}
		got, err := AggregateScore(a, "biolink:treats")
		if err != nil {
			t.Fatalf("AggregateScore: %v", err)
		}
		if math.Abs(got-0.8) > 1e-12 {
			t.Errorf("aggregate = %v, want 0.8", got)
		}
	})

	t.Run("OnlyTopMatchingEvidenceCounts", func(t *testing.T) {
		// e2 scores biolink:treats but tops at contributes_to, so it does
		// not enter the treats mean.
		a := &model.Assertion{Evidence: []*model.Evidence{
			ev("e1", score("biolink:treats", 0.6)),
			ev("e2", score("biolink:treats", 0.1), score("biolink:contributes_to", 0.9)),
		}}
		got, err := AggregateScore(a, "biolink:treats")
		if err != nil {
			t.Fatalf("AggregateScore: %v", err)
		}
		if got != 0.6 {
			t.Errorf("aggregate = %v, want 0.6", got)
		}
	})

	t.Run("UnsupportedPredicate", func(t *testing.T) {
		a := &model.Assertion{Evidence: []*model.Evidence{
			ev("e1", score("biolink:treats", 0.6)),
		}}
		if _, err := AggregateScore(a, "biolink:affects"); !errors.Is(err, ErrPredicateUnsupported) {
			t.Errorf("err = %v, want ErrPredicateUnsupported", err)
		}
	})

	t.Run("ReorderInvariant", func(t *testing.T) {
		e1 := ev("e1", score("biolink:treats", 0.1))
		e2 := ev("e2", score("biolink:treats", 0.2))
		e3 := ev("e3", score("biolink:treats", 0.7))
		forward := &model.Assertion{Evidence: []*model.Evidence{e1, e2, e3}}
		reversed := &model.Assertion{Evidence: []*model.Evidence{e3, e2, e1}}

		f, err := AggregateScore(forward, "biolink:treats")
		if err != nil {
			t.Fatalf("AggregateScore: %v", err)
		}
		r, err := AggregateScore(reversed, "biolink:treats")
		if err != nil {
			t.Fatalf("AggregateScore: %v", err)
		}
		if math.Abs(f-r) > 1e-12 {
			t.Errorf("mean not reorder-invariant: %v vs %v", f, r)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		a := &model.Assertion{Evidence: []*model.Evidence{
			ev("e1", score("biolink:treats", 0.1)),
			ev("e2", score("biolink:treats", 0.3)),
			ev("e3", score("biolink:treats", 0.7)),
		}}
		first, _ := AggregateScore(a, "biolink:treats")
		for i := 0; i < 10; i++ {
			again, _ := AggregateScore(a, "biolink:treats")
			if first != again {
				t.Fatalf("repeated call differs: %v vs %v", first, again)
			}
		}
	})
}

func TestPredicateScores(t *testing.T) {
	a := &model.Assertion{Evidence: []*model.Evidence{
		ev("e1", score("biolink:treats", 0.8)),
		ev("e2", score("biolink:contributes_to", 0.4)),
	}}
	scores := PredicateScores(a)
	if len(scores) != 2 {
		t.Fatalf("scores = %v, want two entries", scores)
	}
	if scores["biolink:treats"] != 0.8 || scores["biolink:contributes_to"] != 0.4 {
		t.Errorf("scores = %v", scores)
	}
}
