// Package kgx emits knowledge-graph-exchange edge and node records for bulk
// export. The attribute shape is a compatibility contract with downstream
// graph-exchange consumers; field names, type ids, and descriptions must be
// reproduced exactly.
package kgx

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tmkp/assertions-api/internal/core"
	"github.com/tmkp/assertions-api/internal/db"
	"github.com/tmkp/assertions-api/internal/model"
	"github.com/tmkp/assertions-api/internal/normalize"
)

const (
	sourceTargeted = "infores:text-mining-provider-targeted"
	sourcePubmed   = "infores:pubmed"
)

// Mode selects the endpoint-identifier substitution for exported records.
type Mode int

const (
	// ModeRaw exports subject/object as their internal CURIEs.
	ModeRaw Mode = iota
	// ModeXref substitutes the cross-referenced external identifier where
	// one exists. Predicate and attribute derivation are identical.
	ModeXref
)

// EdgeRecord is one exported (assertion, predicate) edge row.
type EdgeRecord struct {
	SubjectID              string
	PredicateCurie         string
	ObjectID               string
	AssertionID            string
	AssociationCurie       string
	AggregateScore         float64
	SupportingStudyResults string
	SupportingPublications string
	AttributesJSON         string
}

// Row returns the ordered field list per the KGX edge-row convention.
func (r EdgeRecord) Row() []string {
	return []string{
		r.SubjectID, r.PredicateCurie, r.ObjectID, r.AssertionID, r.AssociationCurie,
		strconv.FormatFloat(r.AggregateScore, 'g', -1, 64),
		r.SupportingStudyResults, r.SupportingPublications, r.AttributesJSON,
	}
}

// NodeRecord is one exported node row.
type NodeRecord struct {
	ID       string
	Name     string
	Category string
}

// Row returns the ordered field list per the KGX node-row convention.
func (r NodeRecord) Row() []string {
	return []string{r.ID, r.Name, r.Category}
}

// Attribute is one fixed-shape KGX attribute. Value varies by attribute
// (string, count, or score), everything else is fixed text.
type Attribute struct {
	AttributeTypeID string      `json:"attribute_type_id"`
	Value           any         `json:"value"`
	ValueTypeID     string      `json:"value_type_id"`
	ValueURL        string      `json:"value_url,omitempty"`
	Description     string      `json:"description,omitempty"`
	AttributeSource string      `json:"attribute_source"`
	Attributes      []Attribute `json:"attributes,omitempty"`
}

// Exporter produces KGX records from the store, reusing the aggregation
// core for predicate and score derivation.
type Exporter struct {
	database *db.DB
}

// NewExporter creates a KGX exporter.
func NewExporter(database *db.DB) *Exporter {
	return &Exporter{database: database}
}

// EdgeRecords derives one record per supported predicate of the assertion.
func EdgeRecords(a *model.Assertion, mode Mode) ([]EdgeRecord, error) {
	var records []EdgeRecord
	for _, predicate := range core.SupportedPredicates(a) {
		rec, err := edgeRecord(a, predicate, mode)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func edgeRecord(a *model.Assertion, predicate string, mode Mode) (EdgeRecord, error) {
	aggregate, err := core.AggregateScore(a, predicate)
	if err != nil {
		return EdgeRecord{}, fmt.Errorf("assertion %s: %w", a.AssertionID, err)
	}

	var relevant []*model.Evidence
	var studyResults, publications []string
	for _, e := range a.Evidence {
		top, err := core.TopPredicate(e)
		if err != nil || top != predicate {
			continue
		}
		relevant = append(relevant, e)
		studyResults = append(studyResults, "tmkp:"+e.EvidenceID)
		publications = append(publications, e.DocumentID)
	}

	attrs, err := jsonAttributes(aggregate, relevant)
	if err != nil {
		return EdgeRecord{}, err
	}

	subjectID := a.SubjectCurie
	objectID := a.ObjectCurie
	if mode == ModeXref {
		if a.SubjectUniProt != "" {
			subjectID = a.SubjectUniProt
		}
		if a.ObjectUniProt != "" {
			objectID = a.ObjectUniProt
		}
	}

	return EdgeRecord{
		SubjectID:              subjectID,
		PredicateCurie:         predicate,
		ObjectID:               objectID,
		AssertionID:            a.AssertionID,
		AssociationCurie:       a.AssociationCurie,
		AggregateScore:         aggregate,
		SupportingStudyResults: strings.Join(studyResults, "|"),
		SupportingPublications: strings.Join(publications, "|"),
		AttributesJSON:         attrs,
	}, nil
}

// NodeRecords derives the object and subject node rows, in that order,
// with labels and categories from the normalization result.
func NodeRecords(a *model.Assertion, mode Mode, nodes map[string]*normalize.Node) []NodeRecord {
	subjectID := a.SubjectCurie
	objectID := a.ObjectCurie
	if mode == ModeXref {
		if a.SubjectUniProt != "" {
			subjectID = a.SubjectUniProt
		}
		if a.ObjectUniProt != "" {
			objectID = a.ObjectUniProt
		}
	}
	return []NodeRecord{
		{ID: objectID, Name: nodes[objectID].Label("UNKNOWN_NAME"), Category: nodes[objectID].Category()},
		{ID: subjectID, Name: nodes[subjectID].Label("UNKNOWN_NAME"), Category: nodes[subjectID].Category()},
	}
}

// jsonAttributes builds the fixed attribute list: five assertion-level
// provenance/aggregate attributes, then one supporting-study-result block
// per contributing evidence item.
func jsonAttributes(aggregate float64, relevant []*model.Evidence) (string, error) {
	var publications []string
	for _, e := range relevant {
		publications = append(publications, e.DocumentID)
	}

	attributes := []Attribute{
		{
			AttributeTypeID: "biolink:original_knowledge_source",
			Value:           sourceTargeted,
			ValueTypeID:     "biolink:InformationResource",
			Description:     "The Text Mining Provider Targeted Biolink Association KP from NCATS Translator provides text-mined assertions from the biomedical literature.",
			AttributeSource: sourceTargeted,
		},
		{
			AttributeTypeID: "biolink:supporting_data_source",
			Value:           sourcePubmed,
			ValueTypeID:     "biolink:InformationResource",
			AttributeSource: sourceTargeted,
		},
		{
			AttributeTypeID: "biolink:has_evidence_count",
			Value:           len(relevant),
			ValueTypeID:     "biolink:EvidenceCount",
			Description:     "The count of the number of sentences that assert this edge",
			AttributeSource: sourceTargeted,
		},
		{
			AttributeTypeID: "biolink:tmkp_confidence_score",
			Value:           aggregate,
			ValueTypeID:     "biolink:ConfidenceLevel",
			Description:     "An aggregate confidence score that combines evidence from all sentences that support the edge",
			AttributeSource: sourceTargeted,
		},
		{
			AttributeTypeID: "biolink:supporting_document",
			Value:           strings.Join(publications, "|"),
			ValueTypeID:     "biolink:Publication",
			Description:     "The document(s) that contains the sentence(s) that assert the Biolink association represented by the edge; pipe-delimited",
			AttributeSource: sourcePubmed,
		},
	}
	for _, e := range relevant {
		attributes = append(attributes, evidenceAttribute(e))
	}

	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(attributes); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func evidenceAttribute(e *model.Evidence) Attribute {
	score, _ := core.ScoreFor(e, "")
	pmid := e.DocumentID
	if i := strings.LastIndex(pmid, ":"); i >= 0 {
		pmid = pmid[i+1:]
	}
	return Attribute{
		AttributeTypeID: "biolink:supporting_study_result",
		Value:           "tmkp:" + e.EvidenceID,
		ValueTypeID:     "biolink:TextMiningResult",
		Description:     "a single result from running NLP tool over a piece of text",
		AttributeSource: sourceTargeted,
		Attributes: []Attribute{
			{
				AttributeTypeID: "biolink:supporting_text",
				Value:           e.Sentence,
				ValueTypeID:     "EDAM:data_3671",
				Description:     "A sentence asserting the Biolink association represented by the parent edge",
				AttributeSource: sourceTargeted,
			},
			{
				AttributeTypeID: "biolink:supporting_document",
				Value:           e.DocumentID,
				ValueTypeID:     "biolink:Publication",
				ValueURL:        "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/",
				Description:     "The document that contains the sentence that asserts the Biolink association represented by the parent edge",
				AttributeSource: sourcePubmed,
			},
			{
				AttributeTypeID: "biolink:supporting_document_type",
				Value:           e.DocumentPublicationType,
				ValueTypeID:     "MESH:U000020",
				Description:     "The publication type(s) for the document in which the sentence appears, as defined by PubMed; pipe-delimited",
				AttributeSource: sourcePubmed,
			},
			{
				AttributeTypeID: "biolink:supporting_document_year",
				Value:           e.DocumentYearPublished,
				ValueTypeID:     "UO:0000036",
				Description:     "The year the document in which the sentence appears was published",
				AttributeSource: sourcePubmed,
			},
			{
				AttributeTypeID: "biolink:supporting_text_located_in",
				Value:           e.DocumentZone,
				ValueTypeID:     "IAO_0000314",
				Description:     "The part of the document where the sentence is located, e.g. title, abstract, introduction, conclusion, etc.",
				AttributeSource: sourcePubmed,
			},
			{
				AttributeTypeID: "biolink:extraction_confidence_score",
				Value:           score,
				ValueTypeID:     "EDAM:data_1772",
				Description:     "The score provided by the underlying algorithm that asserted this sentence to represent the assertion specified by the parent edge",
				AttributeSource: sourceTargeted,
			},
			{
				AttributeTypeID: "biolink:subject_location_in_text",
				Value:           e.SubjectSpan(),
				ValueTypeID:     "SIO:001056",
				Description:     "The start and end character offsets relative to the sentence for the subject of the assertion represented by the parent edge; start and end offsets are pipe-delimited, discontinuous spans are delimited using commas",
				AttributeSource: sourceTargeted,
			},
			{
				AttributeTypeID: "biolink:object_location_in_text",
				Value:           e.ObjectSpan(),
				ValueTypeID:     "SIO:001056",
				Description:     "The start and end character offsets relative to the sentence for the object of the assertion represented by the parent edge; start and end offsets are pipe-delimited, discontinuous spans are delimited using commas",
				AttributeSource: sourceTargeted,
			},
		},
	}
}

// WriteEdges streams tab-separated edge rows for every assertion in the
// store.
func (e *Exporter) WriteEdges(ctx context.Context, w io.Writer, mode Mode) error {
	assertions, err := e.database.FindAssertions(ctx, core.QuerySpec{}, 0)
	if err != nil {
		return fmt.Errorf("loading assertions: %w", err)
	}

	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	for _, a := range assertions {
		records, err := EdgeRecords(a, mode)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if err := tsv.Write(rec.Row()); err != nil {
				return err
			}
		}
	}
	tsv.Flush()
	return tsv.Error()
}

// WriteNodes streams tab-separated node rows for every assertion, resolving
// labels through one batched normalizer call.
func (e *Exporter) WriteNodes(ctx context.Context, w io.Writer, mode Mode, client *normalize.Client) error {
	assertions, err := e.database.FindAssertions(ctx, core.QuerySpec{}, 0)
	if err != nil {
		return fmt.Errorf("loading assertions: %w", err)
	}

	var curies []string
	for _, a := range assertions {
		sub, obj := a.SubjectCurie, a.ObjectCurie
		if mode == ModeXref {
			if a.SubjectUniProt != "" {
				sub = a.SubjectUniProt
			}
			if a.ObjectUniProt != "" {
				obj = a.ObjectUniProt
			}
		}
		curies = append(curies, sub, obj)
	}

	nodes := map[string]*normalize.Node{}
	if client != nil {
		if resolved, err := client.NormalizedNodes(ctx, curies); err == nil {
			nodes = resolved
		}
	}

	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	seen := make(map[string]bool)
	for _, a := range assertions {
		for _, rec := range NodeRecords(a, mode, nodes) {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			if err := tsv.Write(rec.Row()); err != nil {
				return err
			}
		}
	}
	tsv.Flush()
	return tsv.Error()
}
