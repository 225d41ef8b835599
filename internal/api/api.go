// Package api exposes the assertions dataset over a JSON HTTP API: pattern
// queries, record lookups, curie/predicate option lists, and curated
// feedback submission.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/tmkp/assertions-api/internal/auth"
	"github.com/tmkp/assertions-api/internal/config"
	"github.com/tmkp/assertions-api/internal/core"
	"github.com/tmkp/assertions-api/internal/db"
	"github.com/tmkp/assertions-api/internal/model"
	"github.com/tmkp/assertions-api/internal/normalize"
)

// maxBodySize is the maximum HTTP body size for write endpoints.
const maxBodySize = 200 * 1024 // 200KB

// QueryRateLimiter is the rate limiter for POST /api/query (30 req/60s).
var QueryRateLimiter = NewRateLimiter(30, 60*time.Second)

type API struct {
	db         *db.DB
	auth       *auth.Auth
	normalizer *normalize.Client
	query      config.QueryConfig
	cache      *responseCache

	lookupTTL  time.Duration
	optionsTTL time.Duration
}

func New(database *db.DB, a *auth.Auth, normalizer *normalize.Client, cfg *config.Config) *API {
	return &API{
		db:         database,
		auth:       a,
		normalizer: normalizer,
		query:      cfg.Query,
		cache:      newResponseCache(),
		lookupTTL:  time.Duration(cfg.Cache.LookupTTLSec) * time.Second,
		optionsTTL: time.Duration(cfg.Cache.OptionsTTLSec) * time.Second,
	}
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	// Curator auth
	mux.HandleFunc("POST /api/register", a.handleRegister)
	mux.HandleFunc("POST /api/login", a.handleLogin)

	// Query
	mux.HandleFunc("POST /api/query", RateLimitMiddleware(QueryRateLimiter, a.handleQuery))

	// Record lookups
	mux.HandleFunc("GET /api/assertion/{id}", a.cached(a.lookupTTL, a.handleGetAssertion))
	mux.HandleFunc("GET /api/evidence/{id}", a.cached(a.lookupTTL, a.handleGetEvidence))

	// Query form options
	mux.HandleFunc("GET /api/curies/subject", a.cached(a.optionsTTL, a.handleSubjectCuries))
	mux.HandleFunc("GET /api/curies/object", a.cached(a.optionsTTL, a.handleObjectCuries))
	mux.HandleFunc("GET /api/predicates", a.cached(a.optionsTTL, a.handlePredicates))

	// Feedback
	mux.HandleFunc("POST /api/evaluations", a.handleAddEvaluation)
	mux.HandleFunc("POST /api/evidence/feedback", a.handleEvidenceFeedback)
	mux.HandleFunc("POST /api/predication/feedback", a.handlePredicationFeedback)

	// Health
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		jsonResp(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// --- Query ---

type queryEcho struct {
	SubjectCurie   string `json:"subject_curie"`
	SubjectText    string `json:"subject_text"`
	PredicateCurie string `json:"predicate_curie"`
	ObjectCurie    string `json:"object_curie"`
	ObjectText     string `json:"object_text"`
}

type queryEnvelope struct {
	Query   queryEcho    `json:"query"`
	Results []model.Edge `json:"results"`
	Message string       `json:"message,omitempty"`
}

func (a *API) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject   string `json:"subject"`
		Predicate string `json:"predicate"`
		Object    string `json:"object"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	spec, err := core.ParseQuerySpec(req.Subject, req.Predicate, req.Object, a.query.XrefPrefixes)
	if err != nil {
		jsonError(w, "subject, predicate and object are required", http.StatusBadRequest)
		return
	}

	assertions, err := a.db.FindAssertions(r.Context(), spec, a.query.EdgeLimit)
	if err != nil {
		slog.Error("selecting assertions", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	edges := core.BuildEdges(assertions, spec, a.query.CurrentVersion)
	if edges == nil {
		edges = []model.Edge{}
	}

	// One deduplicated normalizer call for the two query endpoints; on
	// failure the response degrades to raw CURIEs.
	nodes, err := a.normalizer.NormalizedNodes(r.Context(), []string{req.Subject, req.Object})
	if err != nil {
		slog.Warn("normalizer unavailable, using raw curies", "error", err)
		nodes = map[string]*normalize.Node{}
	}

	envelope := queryEnvelope{
		Query: queryEcho{
			SubjectCurie:   req.Subject,
			SubjectText:    nodes[req.Subject].Label(req.Subject),
			PredicateCurie: req.Predicate,
			ObjectCurie:    req.Object,
			ObjectText:     nodes[req.Object].Label(req.Object),
		},
		Results: edges,
	}
	if len(edges) == 0 {
		if len(assertions) > 0 {
			envelope.Message = "no results found in current version"
		} else {
			envelope.Message = "no results found"
		}
	}
	jsonResp(w, http.StatusOK, envelope)
}

// --- Record lookups ---

func (a *API) handleGetAssertion(w http.ResponseWriter, r *http.Request) {
	assertion, err := a.db.GetAssertion(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonResp(w, http.StatusOK, map[string]string{"message": "no results found"})
		return
	}
	if err != nil {
		slog.Error("loading assertion", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	current := 0
	for _, e := range assertion.Evidence {
		if e.HasVersion(a.query.CurrentVersion) {
			current++
		}
	}
	if current == 0 {
		jsonResp(w, http.StatusOK, map[string]string{"message": "no results found in current version"})
		return
	}

	jsonResp(w, http.StatusOK, map[string]any{
		"assertion":        assertion,
		"predicate_scores": core.PredicateScores(assertion),
	})
}

func (a *API) handleGetEvidence(w http.ResponseWriter, r *http.Request) {
	evidence, err := a.db.GetEvidence(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonResp(w, http.StatusOK, map[string]string{"message": "no results found"})
		return
	}
	if err != nil {
		slog.Error("loading evidence", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !evidence.HasVersion(a.query.CurrentVersion) {
		jsonResp(w, http.StatusOK, map[string]string{"message": "no results found in current version"})
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"evidence": evidence})
}

// --- Query form options ---

func (a *API) handleSubjectCuries(w http.ResponseWriter, r *http.Request) {
	curies, err := a.db.DistinctSubjectCuries(r.Context())
	if err != nil {
		slog.Error("listing subject curies", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, curieOptions(curies))
}

func (a *API) handleObjectCuries(w http.ResponseWriter, r *http.Request) {
	curies, err := a.db.DistinctObjectCuries(r.Context())
	if err != nil {
		slog.Error("listing object curies", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, curieOptions(curies))
}

func (a *API) handlePredicates(w http.ResponseWriter, r *http.Request) {
	predicates, err := a.db.DistinctPredicates(r.Context())
	if err != nil {
		slog.Error("listing predicates", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if predicates == nil {
		predicates = []string{}
	}
	jsonResp(w, http.StatusOK, map[string]any{"predicates": predicates})
}

func curieOptions(curies []string) map[string]any {
	namespaces := make(map[string]bool)
	for _, c := range curies {
		if i := strings.Index(c, ":"); i > 0 {
			namespaces[c[:i]] = true
		}
	}
	names := make([]string, 0, len(namespaces))
	for ns := range namespaces {
		names = append(names, ns)
	}
	sort.Strings(names)
	if curies == nil {
		curies = []string{}
	}
	return map[string]any{"curies": curies, "namespaces": names}
}

// --- Helpers ---

func jsonResp(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
