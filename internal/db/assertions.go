package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tmkp/assertions-api/internal/core"
	"github.com/tmkp/assertions-api/internal/model"
)

// ErrNotFound is returned when no record matches a lookup id.
var ErrNotFound = errors.New("not found")

// FindAssertions selects assertions matching the query spec, capped at
// limit (0 = no cap), and returns them with their full evidence, score,
// version, entity, and cross-reference closure eagerly loaded. Aggregation
// code never goes back to the database.
func (db *DB) FindAssertions(ctx context.Context, spec core.QuerySpec, limit int) ([]*model.Assertion, error) {
	query := `SELECT assertion_id, subject_curie, object_curie, association_curie FROM assertion`
	var conds []string
	var args []any

	if cond, arg, ok := endpointCond("subject_curie", spec.Subject); ok {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if cond, arg, ok := endpointCond("object_curie", spec.Object); ok {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY rowid`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting assertions: %w", err)
	}
	defer rows.Close()

	var assertions []*model.Assertion
	for rows.Next() {
		a := &model.Assertion{}
		if err := rows.Scan(&a.AssertionID, &a.SubjectCurie, &a.ObjectCurie, &a.AssociationCurie); err != nil {
			return nil, err
		}
		assertions = append(assertions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.loadClosure(ctx, assertions); err != nil {
		return nil, err
	}
	return assertions, nil
}

// GetAssertion returns one assertion with its full closure, or ErrNotFound.
func (db *DB) GetAssertion(ctx context.Context, assertionID string) (*model.Assertion, error) {
	a := &model.Assertion{}
	err := db.QueryRowContext(ctx, `
		SELECT assertion_id, subject_curie, object_curie, association_curie
		FROM assertion WHERE assertion_id = ?`, assertionID).
		Scan(&a.AssertionID, &a.SubjectCurie, &a.ObjectCurie, &a.AssociationCurie)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := db.loadClosure(ctx, []*model.Assertion{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// GetEvidence returns one evidence record with scores, versions, and
// entities loaded, or ErrNotFound.
func (db *DB) GetEvidence(ctx context.Context, evidenceID string) (*model.Evidence, error) {
	evidence, err := db.loadEvidence(ctx, `WHERE e.evidence_id = ?`, evidenceID)
	if err != nil {
		return nil, err
	}
	if len(evidence) == 0 {
		return nil, ErrNotFound
	}
	return evidence[0], nil
}

// endpointCond builds the WHERE fragment for one side of the selection.
// Xref specs translate the external identifier back to the internal
// namespace via the cross-reference table.
func endpointCond(column string, spec core.EndpointSpec) (cond string, arg any, ok bool) {
	switch spec.Kind {
	case core.SpecLiteral:
		return column + ` = ?`, spec.Value, true
	case core.SpecXref:
		return column + ` IN (SELECT pr FROM pr_to_uniprot WHERE uniprot = ?)`, spec.Value, true
	default:
		return "", nil, false
	}
}

// loadClosure bulk-loads evidence, scores, versions, entities, and
// cross-references for the given assertions in a few IN-list queries.
func (db *DB) loadClosure(ctx context.Context, assertions []*model.Assertion) error {
	if len(assertions) == 0 {
		return nil
	}

	byID := make(map[string]*model.Assertion, len(assertions))
	ids := make([]string, 0, len(assertions))
	curies := make(map[string]bool)
	for _, a := range assertions {
		byID[a.AssertionID] = a
		ids = append(ids, a.AssertionID)
		curies[a.SubjectCurie] = true
		curies[a.ObjectCurie] = true
	}

	err := inChunks(ids, func(chunk []string) error {
		evidence, err := db.loadEvidence(ctx,
			`WHERE e.assertion_id IN (`+placeholders(len(chunk))+`)`, toAny(chunk)...)
		if err != nil {
			return err
		}
		for _, e := range evidence {
			if a, ok := byID[e.AssertionID]; ok {
				a.Evidence = append(a.Evidence, e)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	xrefs, err := db.lookupUniProts(ctx, keys(curies))
	if err != nil {
		return err
	}
	for _, a := range assertions {
		a.SubjectUniProt = xrefs[a.SubjectCurie]
		a.ObjectUniProt = xrefs[a.ObjectCurie]
	}
	return nil
}

// loadEvidence selects evidence rows by an arbitrary condition and attaches
// scores (in stored order), version tags, and entities.
func (db *DB) loadEvidence(ctx context.Context, where string, args ...any) ([]*model.Evidence, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT e.evidence_id, e.assertion_id, e.document_id, e.sentence,
			e.subject_entity_id, e.object_entity_id, e.document_zone,
			e.document_publication_type, e.document_year_published
		FROM evidence e `+where+` ORDER BY e.rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting evidence: %w", err)
	}
	defer rows.Close()

	var evidence []*model.Evidence
	byID := make(map[string]*model.Evidence)
	entityIDs := make(map[string]bool)
	entityOf := make(map[string][2]string) // evidence_id -> subject/object entity ids
	for rows.Next() {
		e := &model.Evidence{}
		var subjEnt, objEnt sql.NullString
		if err := rows.Scan(&e.EvidenceID, &e.AssertionID, &e.DocumentID, &e.Sentence,
			&subjEnt, &objEnt, &e.DocumentZone, &e.DocumentPublicationType, &e.DocumentYearPublished); err != nil {
			return nil, err
		}
		var pair [2]string
		if subjEnt.Valid {
			pair[0] = subjEnt.String
			entityIDs[subjEnt.String] = true
		}
		if objEnt.Valid {
			pair[1] = objEnt.String
			entityIDs[objEnt.String] = true
		}
		entityOf[e.EvidenceID] = pair
		evidence = append(evidence, e)
		byID[e.EvidenceID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(evidence) == 0 {
		return nil, nil
	}

	evidenceIDs := make([]string, 0, len(evidence))
	for _, e := range evidence {
		evidenceIDs = append(evidenceIDs, e.EvidenceID)
	}

	// Scores, in rowid order: the tie-break contract for top predicates.
	err = inChunks(evidenceIDs, func(chunk []string) error {
		scoreRows, err := db.QueryContext(ctx, `
			SELECT evidence_id, predicate_curie, score FROM evidence_score
			WHERE evidence_id IN (`+placeholders(len(chunk))+`) ORDER BY rowid`, toAny(chunk)...)
		if err != nil {
			return fmt.Errorf("selecting evidence scores: %w", err)
		}
		defer scoreRows.Close()
		for scoreRows.Next() {
			var evidenceID string
			var s model.EvidenceScore
			if err := scoreRows.Scan(&evidenceID, &s.PredicateCurie, &s.Score); err != nil {
				return err
			}
			if e, ok := byID[evidenceID]; ok {
				e.Scores = append(e.Scores, s)
			}
		}
		return scoreRows.Err()
	})
	if err != nil {
		return nil, err
	}

	err = inChunks(evidenceIDs, func(chunk []string) error {
		versionRows, err := db.QueryContext(ctx, `
			SELECT evidence_id, version FROM evidence_version
			WHERE evidence_id IN (`+placeholders(len(chunk))+`) ORDER BY version`, toAny(chunk)...)
		if err != nil {
			return fmt.Errorf("selecting evidence versions: %w", err)
		}
		defer versionRows.Close()
		for versionRows.Next() {
			var evidenceID string
			var version int
			if err := versionRows.Scan(&evidenceID, &version); err != nil {
				return err
			}
			if e, ok := byID[evidenceID]; ok {
				e.Versions = append(e.Versions, version)
			}
		}
		return versionRows.Err()
	})
	if err != nil {
		return nil, err
	}

	entities, err := db.loadEntities(ctx, keys(entityIDs))
	if err != nil {
		return nil, err
	}
	for _, e := range evidence {
		pair := entityOf[e.EvidenceID]
		e.SubjectEntity = entities[pair[0]]
		e.ObjectEntity = entities[pair[1]]
	}
	return evidence, nil
}

func (db *DB) loadEntities(ctx context.Context, ids []string) (map[string]*model.Entity, error) {
	entities := make(map[string]*model.Entity, len(ids))
	err := inChunks(ids, func(chunk []string) error {
		rows, err := db.QueryContext(ctx, `
			SELECT entity_id, span, covered_text FROM entity
			WHERE entity_id IN (`+placeholders(len(chunk))+`)`, toAny(chunk)...)
		if err != nil {
			return fmt.Errorf("selecting entities: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			ent := &model.Entity{}
			if err := rows.Scan(&ent.EntityID, &ent.Span, &ent.CoveredText); err != nil {
				return err
			}
			entities[ent.EntityID] = ent
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// --- IN-list helpers ---

// maxInList keeps IN lists under SQLite's bound-parameter ceiling.
const maxInList = 900

func inChunks(ids []string, fn func(chunk []string) error) error {
	for len(ids) > 0 {
		n := len(ids)
		if n > maxInList {
			n = maxInList
		}
		if err := fn(ids[:n]); err != nil {
			return err
		}
		ids = ids[n:]
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toAny(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
