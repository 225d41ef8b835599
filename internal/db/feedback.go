package db

import (
	"context"
	"time"
)

// Evaluation is a curator judgment on one evidence record.
type Evaluation struct {
	ID               string `json:"id"`
	EvidenceID       string `json:"evidence_id"`
	OverallCorrect   *bool  `json:"overall_correct"`
	SubjectCorrect   *bool  `json:"subject_correct"`
	ObjectCorrect    *bool  `json:"object_correct"`
	PredicateCorrect *bool  `json:"predicate_correct"`
	Comments         string `json:"comments,omitempty"`
	SourceID         string `json:"source_id"`
}

// FeedbackAnswer is one free-text question/answer pair attached to a
// feedback submission.
type FeedbackAnswer struct {
	PromptText string `json:"prompt_text"`
	Response   string `json:"response"`
}

// InsertEvaluation stores an evaluation row. Append-only, no derived state.
func (db *DB) InsertEvaluation(ctx context.Context, ev *Evaluation) error {
	ev.ID = NewID()
	_, err := db.ExecContext(ctx, `
		INSERT INTO evaluation (id, evidence_id, overall_correct, subject_correct,
			object_correct, predicate_correct, comments, source_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.EvidenceID, boolPtrToInt(ev.OverallCorrect), boolPtrToInt(ev.SubjectCorrect),
		boolPtrToInt(ev.ObjectCorrect), boolPtrToInt(ev.PredicateCorrect), ev.Comments, ev.SourceID)
	return err
}

// InsertEvidenceFeedback stores a feedback row plus its answers in one
// transaction and returns the feedback id.
func (db *DB) InsertEvidenceFeedback(ctx context.Context, evidenceID, comments, sourceID string, answers []FeedbackAnswer) (string, error) {
	return db.insertFeedback(ctx, "evidence_feedback", "evidence_id", evidenceID, comments, sourceID, answers)
}

// InsertPredicationFeedback stores feedback keyed to a predication record.
func (db *DB) InsertPredicationFeedback(ctx context.Context, predicationID, comments, sourceID string, answers []FeedbackAnswer) (string, error) {
	return db.insertFeedback(ctx, "predication_feedback", "predication_id", predicationID, comments, sourceID, answers)
}

func (db *DB) insertFeedback(ctx context.Context, table, keyColumn, keyID, comments, sourceID string, answers []FeedbackAnswer) (string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	feedbackID := NewID()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO `+table+` (id, `+keyColumn+`, comments, source_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		feedbackID, keyID, comments, sourceID, time.Now().UTC())
	if err != nil {
		return "", err
	}
	for _, ans := range answers {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO `+table+`_answer (feedback_id, prompt_text, response)
			VALUES (?, ?, ?)`, feedbackID, ans.PromptText, ans.Response)
		if err != nil {
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return feedbackID, nil
}

func boolPtrToInt(b *bool) any {
	if b == nil {
		return nil
	}
	if *b {
		return 1
	}
	return 0
}
