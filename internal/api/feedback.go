package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/tmkp/assertions-api/internal/db"
)

// DefaultSourceID attributes anonymous submissions.
const DefaultSourceID = "tmui"

// handleRe validates handle format: ASCII alphanumeric, underscore, hyphen only.
var handleRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// --- Curator accounts ---

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Handle   string `json:"handle"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Handle == "" || req.Password == "" {
		jsonError(w, "handle and password are required", http.StatusBadRequest)
		return
	}
	if len(req.Handle) < 3 || len(req.Handle) > 30 {
		jsonError(w, "handle must be 3-30 characters", http.StatusBadRequest)
		return
	}
	if !handleRe.MatchString(req.Handle) {
		jsonError(w, "handle must contain only ASCII letters, digits, underscore or hyphen", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		jsonError(w, "password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	hash, err := a.auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	curator, err := a.db.CreateCurator(r.Context(), req.Handle, hash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			jsonError(w, "handle already taken", http.StatusConflict)
			return
		}
		slog.Error("creating curator", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	token, err := a.auth.GenerateToken(curator.ID, curator.Handle)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusCreated, map[string]interface{}{
		"curator": curator,
		"token":   token,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Handle   string `json:"handle"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	curator, err := a.db.GetCuratorByHandle(r.Context(), req.Handle)
	if err != nil || !a.auth.CheckPassword(curator.PasswordHash, req.Password) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := a.auth.GenerateToken(curator.ID, curator.Handle)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusOK, map[string]interface{}{
		"curator": curator,
		"token":   token,
	})
}

// sourceID resolves the submission source: the authenticated curator when a
// valid token is present, the shared UI source otherwise.
func (a *API) sourceID(r *http.Request) string {
	if claims := a.auth.ExtractClaims(r); claims != nil {
		return claims.CuratorID
	}
	return DefaultSourceID
}

// --- Evaluations ---

func (a *API) handleAddEvaluation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EvidenceID       string `json:"evidence_id"`
		OverallCorrect   *bool  `json:"overall_correct"`
		SubjectCorrect   *bool  `json:"subject_correct"`
		ObjectCorrect    *bool  `json:"object_correct"`
		PredicateCorrect *bool  `json:"predicate_correct"`
		Comments         string `json:"comments"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.EvidenceID == "" {
		jsonError(w, "evidence_id is required", http.StatusBadRequest)
		return
	}

	err := a.db.InsertEvaluation(r.Context(), &db.Evaluation{
		EvidenceID:       req.EvidenceID,
		OverallCorrect:   req.OverallCorrect,
		SubjectCorrect:   req.SubjectCorrect,
		ObjectCorrect:    req.ObjectCorrect,
		PredicateCorrect: req.PredicateCorrect,
		Comments:         req.Comments,
		SourceID:         a.sourceID(r),
	})
	if err != nil {
		slog.Error("inserting evaluation", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]string{})
}

// --- Free-form feedback ---

func (a *API) handleEvidenceFeedback(w http.ResponseWriter, r *http.Request) {
	a.handleFeedback(w, r, "evidence_id", a.db.InsertEvidenceFeedback)
}

func (a *API) handlePredicationFeedback(w http.ResponseWriter, r *http.Request) {
	a.handleFeedback(w, r, "predication_id", a.db.InsertPredicationFeedback)
}

// handleFeedback accepts a JSON object holding the record key, optional
// comments, and arbitrary question/answer pairs which become one answer row
// each.
func (a *API) handleFeedback(w http.ResponseWriter, r *http.Request, keyField string,
	insert func(ctx context.Context, keyID, comments, sourceID string, answers []db.FeedbackAnswer) (string, error)) {
	var body map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	keyID, _ := body[keyField].(string)
	if keyID == "" {
		jsonError(w, keyField+" is required", http.StatusBadRequest)
		return
	}
	comments, _ := body["comments"].(string)

	// Everything else is a question/answer pair; sorted for deterministic
	// insert order.
	prompts := make([]string, 0, len(body))
	for q := range body {
		if q == keyField || q == "comments" {
			continue
		}
		prompts = append(prompts, q)
	}
	sort.Strings(prompts)
	answers := make([]db.FeedbackAnswer, 0, len(prompts))
	for _, q := range prompts {
		answers = append(answers, db.FeedbackAnswer{
			PromptText: q,
			Response:   fmt.Sprint(body[q]),
		})
	}

	feedbackID, err := insert(r.Context(), keyID, comments, a.sourceID(r), answers)
	if err != nil {
		slog.Error("inserting feedback", "key", keyField, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]string{"feedback_id": feedbackID})
}
