package core

import (
	"errors"
	"testing"

	"github.com/tmkp/assertions-api/internal/model"
)

func ev(id string, scores ...model.EvidenceScore) *model.Evidence {
	return &model.Evidence{EvidenceID: id, Scores: scores}
}

func score(predicate string, value float64) model.EvidenceScore {
	return model.EvidenceScore{PredicateCurie: predicate, Score: value}
}

func TestTopPredicate(t *testing.T) {
	t.Run("MaxWins", func(t *testing.T) {
		e := ev("e1",
			score("biolink:treats", 0.4),
			score("biolink:contributes_to", 0.9),
			score("biolink:entity_positively_regulates_entity", 0.2))
		top, err := TopPredicate(e)
		if err != nil {
			t.Fatalf("TopPredicate: %v", err)
		}
		if top != "biolink:contributes_to" {
			t.Errorf("top = %q, want biolink:contributes_to", top)
		}
	})

	t.Run("TieKeepsFirstStored", func(t *testing.T) {
		e := ev("e1",
			score("biolink:treats", 0.5),
			score("biolink:contributes_to", 0.5))
		top, err := TopPredicate(e)
		if err != nil {
			t.Fatalf("TopPredicate: %v", err)
		}
		if top != "biolink:treats" {
			t.Errorf("top = %q, want first stored biolink:treats", top)
		}
	})

	t.Run("NoScores", func(t *testing.T) {
		_, err := TopPredicate(ev("e1"))
		if !errors.Is(err, ErrNoScores) {
			t.Errorf("err = %v, want ErrNoScores", err)
		}
	})
}

func TestScoreFor(t *testing.T) {
	e := ev("e1",
		score("biolink:treats", 0.4),
		score("biolink:contributes_to", 0.9))

	t.Run("Named", func(t *testing.T) {
		s, ok := ScoreFor(e, "biolink:treats")
		if !ok || s != 0.4 {
			t.Errorf("ScoreFor = %v, %v; want 0.4, true", s, ok)
		}
	})

	t.Run("DefaultsToTop", func(t *testing.T) {
		s, ok := ScoreFor(e, "")
		if !ok || s != 0.9 {
			t.Errorf("ScoreFor = %v, %v; want 0.9, true", s, ok)
		}
	})

	t.Run("AbsentPredicate", func(t *testing.T) {
		if _, ok := ScoreFor(e, "biolink:affects"); ok {
			t.Error("expected absent score for unknown predicate")
		}
	})

	t.Run("NoScoresIsAbsentNotZero", func(t *testing.T) {
		if _, ok := ScoreFor(ev("empty"), ""); ok {
			t.Error("expected absent score for evidence without scores")
		}
	})
}
