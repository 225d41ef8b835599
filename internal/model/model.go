// Package model holds the plain value structs the aggregation core operates
// on. The store loads each Assertion with its full Evidence/EvidenceScore/
// Entity/cross-reference closure before any of these are used; nothing in
// this package touches the database.
package model

// Assertion is a text-mined subject-predicate-object claim.
type Assertion struct {
	AssertionID      string      `json:"assertion_id"`
	SubjectCurie     string      `json:"subject_curie"`
	ObjectCurie      string      `json:"object_curie"`
	AssociationCurie string      `json:"association_curie"`
	SubjectUniProt   string      `json:"subject_uniprot,omitempty"`
	ObjectUniProt    string      `json:"object_uniprot,omitempty"`
	Evidence         []*Evidence `json:"evidence_list"`
}

// Evidence is one sentence-level extraction supporting an assertion.
// Scores and Versions are kept in stored (ingestion) order; the aggregation
// core depends on that order for deterministic results.
type Evidence struct {
	EvidenceID              string          `json:"evidence_id"`
	AssertionID             string          `json:"assertion_id"`
	DocumentID              string          `json:"document_id"`
	Sentence                string          `json:"sentence"`
	DocumentZone            string          `json:"document_zone"`
	DocumentPublicationType string          `json:"document_publication_type"`
	DocumentYearPublished   int             `json:"document_year_published"`
	SubjectEntity           *Entity         `json:"subject_entity,omitempty"`
	ObjectEntity            *Entity         `json:"object_entity,omitempty"`
	Scores                  []EvidenceScore `json:"evidence_scores"`
	Versions                []int           `json:"version"`
}

// EvidenceScore is the confidence for one candidate predicate on one
// evidence record. Immutable once written.
type EvidenceScore struct {
	PredicateCurie string  `json:"predicate_curie"`
	Score          float64 `json:"score"`
}

// Entity is a text span reference inside an evidence sentence.
type Entity struct {
	EntityID    string `json:"entity_id"`
	Span        string `json:"span"`
	CoveredText string `json:"covered_text"`
}

// DefaultSpan is used when an evidence record has no entity row.
const DefaultSpan = "0|0"

// SubjectSpan returns the subject entity span, or DefaultSpan when the
// entity is missing.
func (e *Evidence) SubjectSpan() string {
	if e.SubjectEntity == nil || e.SubjectEntity.Span == "" {
		return DefaultSpan
	}
	return e.SubjectEntity.Span
}

// ObjectSpan returns the object entity span, or DefaultSpan when the
// entity is missing.
func (e *Evidence) ObjectSpan() string {
	if e.ObjectEntity == nil || e.ObjectEntity.Span == "" {
		return DefaultSpan
	}
	return e.ObjectEntity.Span
}

// HasVersion reports whether the evidence carries the given data-release tag.
func (e *Evidence) HasVersion(version int) bool {
	for _, v := range e.Versions {
		if v == version {
			return true
		}
	}
	return false
}

// Edge is one flattened query result row. ConfidenceScore is the
// assertion-level aggregate for the edge's predicate, repeated on every
// evidence-level row.
type Edge struct {
	DocumentPMID    string  `json:"document_pmid"`
	DocumentZone    string  `json:"document_zone"`
	DocumentYear    int     `json:"document_year"`
	PredicateCurie  string  `json:"predicate_curie"`
	ConfidenceScore float64 `json:"confidence_score"`
	Sentence        string  `json:"sentence"`
	SubjectSpan     string  `json:"subject_span"`
	ObjectSpan      string  `json:"object_span"`
	SubjectCurie    string  `json:"subject_curie"`
	ObjectCurie     string  `json:"object_curie"`
	Version         []int   `json:"version"`
}
