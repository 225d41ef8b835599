package core

import (
	"reflect"
	"testing"

	"github.com/tmkp/assertions-api/internal/model"
)

func versioned(e *model.Evidence, versions ...int) *model.Evidence {
	e.Versions = versions
	return e
}

func anySpec() QuerySpec {
	return QuerySpec{
		Subject:   EndpointSpec{Value: "any", Kind: SpecAny},
		Object:    EndpointSpec{Value: "any", Kind: SpecAny},
		Predicate: "any",
	}
}

func TestBuildEdges(t *testing.T) {
	a := &model.Assertion{
		AssertionID:  "a1",
		SubjectCurie: "PR:000001754",
		ObjectCurie:  "MONDO:0005148",
		Evidence: []*model.Evidence{
			versioned(ev("e1", score("biolink:treats", 0.9)), 1, 2),
			versioned(ev("e2", score("biolink:treats", 0.7)), 2),
			versioned(ev("e3", score("biolink:contributes_to", 0.5)), 2),
		},
	}

	t.Run("AggregateRepeatedPerRow", func(t *testing.T) {
		edges := BuildEdges([]*model.Assertion{a}, anySpec(), 2)
		if len(edges) != 3 {
			t.Fatalf("len(edges) = %d, want 3", len(edges))
		}
		for _, e := range edges {
			if e.PredicateCurie == "biolink:treats" && e.ConfidenceScore != 0.8 {
				t.Errorf("treats edge confidence = %v, want aggregate 0.8", e.ConfidenceScore)
			}
		}
	})

	t.Run("RankedNonIncreasing", func(t *testing.T) {
		edges := BuildEdges([]*model.Assertion{a}, anySpec(), 2)
		for i := 1; i < len(edges); i++ {
			if edges[i].ConfidenceScore > edges[i-1].ConfidenceScore {
				t.Errorf("edges[%d] score %v > edges[%d] score %v",
					i, edges[i].ConfidenceScore, i-1, edges[i-1].ConfidenceScore)
			}
		}
	})

	t.Run("PredicatePostFilter", func(t *testing.T) {
		spec := anySpec()
		spec.Predicate = "biolink:contributes_to"
		edges := BuildEdges([]*model.Assertion{a}, spec, 2)
		if len(edges) != 1 || edges[0].PredicateCurie != "biolink:contributes_to" {
			t.Fatalf("edges = %+v, want single contributes_to edge", edges)
		}
	})

	t.Run("VersionFilter", func(t *testing.T) {
		edges := BuildEdges([]*model.Assertion{a}, anySpec(), 1)
		// Only e1 carries version 1.
		if len(edges) != 1 {
			t.Fatalf("len(edges) = %d, want 1 surviving version-1 edge", len(edges))
		}
		if !reflect.DeepEqual(edges[0].Version, []int{1, 2}) {
			t.Errorf("version list = %v, want [1 2]", edges[0].Version)
		}
	})

	t.Run("VersionFilterIdempotent", func(t *testing.T) {
		once := BuildEdges([]*model.Assertion{a}, anySpec(), 2)
		twice := BuildEdges([]*model.Assertion{a}, anySpec(), 2)
		if !reflect.DeepEqual(once, twice) {
			t.Error("repeated filtering by the same version changed the list")
		}
	})

	t.Run("NoCurrentVersionData", func(t *testing.T) {
		edges := BuildEdges([]*model.Assertion{a}, anySpec(), 3)
		if len(edges) != 0 {
			t.Errorf("len(edges) = %d, want 0 for unknown version", len(edges))
		}
	})
}

func TestBuildEdgesXrefTranslation(t *testing.T) {
	a := &model.Assertion{
		AssertionID:    "a1",
		SubjectCurie:   "PR:000001754",
		ObjectCurie:    "MONDO:0005148",
		SubjectUniProt: "UniProtKB:P04637",
		Evidence: []*model.Evidence{
			versioned(ev("e1", score("biolink:treats", 0.9)), 2),
		},
	}

	t.Run("RawMode", func(t *testing.T) {
		edges := BuildEdges([]*model.Assertion{a}, anySpec(), 2)
		if edges[0].SubjectCurie != "PR:000001754" {
			t.Errorf("subject = %q, want internal curie", edges[0].SubjectCurie)
		}
	})

	t.Run("XrefMode", func(t *testing.T) {
		spec := anySpec()
		spec.Subject = EndpointSpec{Value: "UniProtKB:P04637", Kind: SpecXref}
		edges := BuildEdges([]*model.Assertion{a}, spec, 2)
		if edges[0].SubjectCurie != "UniProtKB:P04637" {
			t.Errorf("subject = %q, want translated xref", edges[0].SubjectCurie)
		}
		// Object has no cross-reference, passes through unchanged.
		if edges[0].ObjectCurie != "MONDO:0005148" {
			t.Errorf("object = %q, want passthrough curie", edges[0].ObjectCurie)
		}
	})
}

func TestBuildEdgesStableAmongEqualScores(t *testing.T) {
	a1 := &model.Assertion{
		AssertionID: "a1", SubjectCurie: "PR:1", ObjectCurie: "MONDO:1",
		Evidence: []*model.Evidence{versioned(ev("e1", score("biolink:treats", 0.5)), 2)},
	}
	a2 := &model.Assertion{
		AssertionID: "a2", SubjectCurie: "PR:2", ObjectCurie: "MONDO:2",
		Evidence: []*model.Evidence{versioned(ev("e2", score("biolink:treats", 0.5)), 2)},
	}
	edges := BuildEdges([]*model.Assertion{a1, a2}, anySpec(), 2)
	if len(edges) != 2 {
		t.Fatalf("len(edges) = %d, want 2", len(edges))
	}
	if edges[0].SubjectCurie != "PR:1" || edges[1].SubjectCurie != "PR:2" {
		t.Error("equal scores must preserve source order")
	}
}
