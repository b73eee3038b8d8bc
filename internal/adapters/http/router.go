package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuscare/support-triage/internal/config"
	"github.com/campuscare/support-triage/internal/core/domain"
	"github.com/campuscare/support-triage/internal/core/ports"
	"github.com/campuscare/support-triage/internal/observability/metrics"
)

const serviceName = "api"

const maxDecisionListLimit = 100

type Router struct {
	cfg       config.Config
	catalog   *domain.Catalog
	router    ports.RequestRouter
	validator ports.FacilityValidator
	repo      ports.DecisionRepository
	queue     ports.TriageQueue
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	catalog *domain.Catalog,
	router ports.RequestRouter,
	validator ports.FacilityValidator,
	repo ports.DecisionRepository,
	queue ports.TriageQueue,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		catalog:   catalog,
		router:    router,
		validator: validator,
		repo:      repo,
		queue:     queue,
		metrics:   serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/triage/route", rt.routeTriage)
	mux.HandleFunc("/v1/triage/catalog", rt.getCatalog)
	mux.HandleFunc("/v1/decisions", rt.listDecisions)
	mux.HandleFunc("/v1/decisions/", rt.getDecisionByID)
	mux.HandleFunc("/v1/facilities/validate", rt.validateFacilities)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIQueueWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type routeTriageRequest struct {
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
	UserInput  string   `json:"user_input"`
}

type routeTriageResponse struct {
	DecisionID string                 `json:"decision_id"`
	IsOurs     bool                   `json:"is_ours"`
	Decision   domain.RoutingDecision `json:"decision"`
}

func (rt *Router) routeTriage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req routeTriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Confidence != nil && (*req.Confidence < 0 || *req.Confidence > 1) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "confidence must be between 0 and 1"})
		return
	}

	input := domain.ClassificationInput{
		Category:   req.Category,
		Confidence: req.Confidence,
		UserInput:  req.UserInput,
	}
	isOurs, decision := rt.router.ClassifyWithCareLevel(input)
	if rt.metrics != nil {
		rt.metrics.RecordDecision(serviceName, decision)
	}

	decisionID := uuid.NewString()
	if rt.queue != nil {
		triageReq := domain.TriageRequest{
			ID:                  decisionID,
			PublishedAt:         time.Now().UTC(),
			ClassificationInput: input,
		}
		if err := rt.queue.PublishTriageRequest(r.Context(), triageReq); err != nil {
			slog.Warn("audit_publish_failed",
				"request_id", requestID(r.Context()),
				"decision_id", decisionID,
				"error", err,
			)
		}
	}

	writeJSON(w, http.StatusOK, routeTriageResponse{
		DecisionID: decisionID,
		IsOurs:     isOurs,
		Decision:   decision,
	})
}

func (rt *Router) getCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	branches := map[string][]string{}
	for _, branch := range []domain.Branch{domain.BranchGroup3, domain.BranchGroup4, domain.BranchOther} {
		branches[string(branch)] = rt.catalog.Categories(branch)
	}
	careLevels := map[string]int{}
	for level, count := range rt.catalog.CareLevelCounts() {
		careLevels[string(level)] = count
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_categories": rt.catalog.Size(),
		"branches":         branches,
		"care_level_sizes": careLevels,
	})
}

func (rt *Router) getDecisionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/decisions/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "decision id is required"})
		return
	}

	record, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (rt *Router) listDecisions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > maxDecisionListLimit {
		limit = maxDecisionListLimit
	}

	records, err := rt.repo.ListRecent(r.Context(), limit)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decisions": records})
}

type validateFacilitiesRequest struct {
	Facilities []domain.Facility `json:"facilities"`
}

func (rt *Router) validateFacilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req validateFacilitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if len(req.Facilities) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one facility is required"})
		return
	}

	validated := rt.validator.AttachBadges(req.Facilities)
	if rt.metrics != nil {
		for _, facility := range validated {
			if facility.Validation != nil {
				rt.metrics.RecordFacilityValidation(serviceName, *facility.Validation)
			}
		}
	}

	report, err := rt.validator.WarningReport(validated)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	disclaimer, err := rt.validator.Disclaimer(validated)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"facilities": validated,
		"report":     report,
		"disclaimer": disclaimer,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
