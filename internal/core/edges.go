package core

import (
	"sort"

	"github.com/tmkp/assertions-api/internal/model"
)

// BuildEdges flattens selected assertions into a version-filtered,
// confidence-ranked edge list. For each assertion, each supported predicate
// contributes one edge per evidence item whose top predicate matches it.
// An edge survives only when its evidence carries currentVersion and its
// predicate passes the query's predicate post-filter.
//
// ConfidenceScore on every edge is the assertion-level aggregate for the
// predicate, repeated per evidence row. When the query is in cross-reference
// mode, subject/object ids are translated through the assertion's loaded
// cross-references where present.
func BuildEdges(assertions []*model.Assertion, spec QuerySpec, currentVersion int) []model.Edge {
	var edges []model.Edge
	for _, a := range assertions {
		sub := a.SubjectCurie
		obj := a.ObjectCurie
		if spec.XrefMode() {
			if a.SubjectUniProt != "" {
				sub = a.SubjectUniProt
			}
			if a.ObjectUniProt != "" {
				obj = a.ObjectUniProt
			}
		}
		for _, predicate := range SupportedPredicates(a) {
			if !spec.MatchesPredicate(predicate) {
				continue
			}
			aggregate, err := AggregateScore(a, predicate)
			if err != nil {
				continue
			}
			for _, e := range a.Evidence {
				top, err := TopPredicate(e)
				if err != nil || top != predicate {
					continue
				}
				if !e.HasVersion(currentVersion) {
					continue
				}
				edges = append(edges, model.Edge{
					DocumentPMID:    e.DocumentID,
					DocumentZone:    e.DocumentZone,
					DocumentYear:    e.DocumentYearPublished,
					PredicateCurie:  predicate,
					ConfidenceScore: aggregate,
					Sentence:        e.Sentence,
					SubjectSpan:     e.SubjectSpan(),
					ObjectSpan:      e.ObjectSpan(),
					SubjectCurie:    sub,
					ObjectCurie:     obj,
					Version:         e.Versions,
				})
			}
		}
	}
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].ConfidenceScore > edges[j].ConfidenceScore
	})
	return edges
}
