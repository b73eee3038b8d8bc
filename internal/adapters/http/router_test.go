package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campuscare/support-triage/internal/config"
	"github.com/campuscare/support-triage/internal/core/domain"
	"github.com/campuscare/support-triage/internal/core/usecase"
	"github.com/campuscare/support-triage/internal/observability/metrics"
)

type repoFake struct {
	records   map[string]domain.DecisionRecord
	listErr   error
	createErr error
}

func newRepoFake() *repoFake {
	return &repoFake{records: map[string]domain.DecisionRecord{}}
}

func (f *repoFake) Create(_ context.Context, record *domain.DecisionRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records[record.ID] = *record
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.DecisionRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDecisionNotFound, "get decision", errors.New("no such id"))
	}
	return &record, nil
}

func (f *repoFake) ListRecent(_ context.Context, limit int) ([]domain.DecisionRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.DecisionRecord, 0, len(f.records))
	for _, record := range f.records {
		if len(out) == limit {
			break
		}
		out = append(out, record)
	}
	return out, nil
}

type queueFake struct {
	published  []domain.TriageRequest
	publishErr error
}

func (f *queueFake) PublishTriageRequest(_ context.Context, req domain.TriageRequest) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, req)
	return nil
}

func (f *queueFake) SubscribeTriageRequests(context.Context, func(context.Context, domain.TriageRequest) error) error {
	return nil
}

func newTestHandler(t *testing.T, cfg config.Config, repo *repoFake, queue *queueFake) http.Handler {
	t.Helper()
	catalog, err := domain.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}
	router := usecase.NewRouter(catalog, usecase.DefaultRouterConfig())
	validator := usecase.NewValidator(usecase.DefaultValidatorConfig())

	return NewRouter(cfg, catalog, router, validator, repo, queue,
		metrics.NewHTTPServerMetrics("test")).Handler()
}

func defaultTestConfig() config.Config {
	return config.Config{
		APIRateLimitRPS:   1000,
		APIRateLimitBurst: 1000,
		APIMaxInFlight:    16,
		APIQueueWait:      100 * time.Millisecond,
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestRouteTriageReturnsDecisionAndPublishesAudit(t *testing.T) {
	queue := &queueFake{}
	handler := newTestHandler(t, defaultTestConfig(), newRepoFake(), queue)

	res := postJSON(t, handler, "/v1/triage/route", map[string]any{
		"category":   "Mental health",
		"confidence": 0.95,
		"user_input": "I have been feeling anxious",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var resp routeTriageResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DecisionID == "" {
		t.Fatalf("expected generated decision id")
	}
	if !resp.IsOurs {
		t.Fatalf("expected mental-health category to be ours")
	}
	if resp.Decision.Branch != domain.BranchGroup3 {
		t.Fatalf("branch = %s, want group3", resp.Decision.Branch)
	}
	if len(queue.published) != 1 {
		t.Fatalf("expected 1 published audit request, got %d", len(queue.published))
	}
	if queue.published[0].ID != resp.DecisionID {
		t.Fatalf("published id = %q, want %q", queue.published[0].ID, resp.DecisionID)
	}
	if queue.published[0].PublishedAt.IsZero() {
		t.Fatalf("published audit request must carry a publish timestamp")
	}
}

func TestRouteTriageRejectsOutOfRangeConfidence(t *testing.T) {
	handler := newTestHandler(t, defaultTestConfig(), newRepoFake(), &queueFake{})

	res := postJSON(t, handler, "/v1/triage/route", map[string]any{
		"category":   "Mental health",
		"confidence": 1.5,
	})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestRouteTriageSucceedsWhenAuditPublishFails(t *testing.T) {
	queue := &queueFake{publishErr: domain.WrapError(domain.ErrTemporary, "nats publish", errors.New("no servers"))}
	handler := newTestHandler(t, defaultTestConfig(), newRepoFake(), queue)

	res := postJSON(t, handler, "/v1/triage/route", map[string]any{
		"category": "Peer support",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("audit failure must not fail routing, got %d", res.Code)
	}

	var resp routeTriageResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Decision.Branch != domain.BranchGroup4 {
		t.Fatalf("branch = %s, want group4", resp.Decision.Branch)
	}
}

func TestGetCatalogReturnsPartition(t *testing.T) {
	handler := newTestHandler(t, defaultTestConfig(), newRepoFake(), &queueFake{})

	req := httptest.NewRequest(http.MethodGet, "/v1/triage/catalog", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var resp struct {
		TotalCategories int                 `json:"total_categories"`
		Branches        map[string][]string `json:"branches"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalCategories != 56 {
		t.Fatalf("total categories = %d, want 56", resp.TotalCategories)
	}
	if len(resp.Branches["group3"]) != 26 {
		t.Fatalf("group3 size = %d, want 26", len(resp.Branches["group3"]))
	}
	if len(resp.Branches["group4"]) != 6 {
		t.Fatalf("group4 size = %d, want 6", len(resp.Branches["group4"]))
	}
}

func TestGetDecisionByIDNotFoundMapsTo404(t *testing.T) {
	handler := newTestHandler(t, defaultTestConfig(), newRepoFake(), &queueFake{})

	req := httptest.NewRequest(http.MethodGet, "/v1/decisions/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestGetDecisionByIDReturnsStoredRecord(t *testing.T) {
	repo := newRepoFake()
	repo.records["d-1"] = domain.DecisionRecord{
		ID: "d-1",
		Decision: domain.RoutingDecision{
			Branch: domain.BranchGroup3,
			Action: domain.ActionProceedToGroup3,
		},
		CreatedAt: time.Now().UTC(),
	}
	handler := newTestHandler(t, defaultTestConfig(), repo, &queueFake{})

	req := httptest.NewRequest(http.MethodGet, "/v1/decisions/d-1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "group3") {
		t.Fatalf("expected stored decision in response, got %s", res.Body.String())
	}
}

func TestListDecisionsRejectsMalformedLimit(t *testing.T) {
	handler := newTestHandler(t, defaultTestConfig(), newRepoFake(), &queueFake{})

	req := httptest.NewRequest(http.MethodGet, "/v1/decisions?limit=zero", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestValidateFacilitiesReturnsReportAndDisclaimer(t *testing.T) {
	handler := newTestHandler(t, defaultTestConfig(), newRepoFake(), &queueFake{})

	res := postJSON(t, handler, "/v1/facilities/validate", map[string]any{
		"facilities": []map[string]any{
			{
				"name":  "Community Counseling Center",
				"city":  "Hartford",
				"state": "CT",
				"score": 8.6,
			},
		},
	})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var resp struct {
		Facilities []domain.Facility `json:"facilities"`
		Report     string            `json:"report"`
		Disclaimer string            `json:"disclaimer"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Facilities) != 1 {
		t.Fatalf("expected 1 facility, got %d", len(resp.Facilities))
	}
	if resp.Facilities[0].Validation == nil {
		t.Fatalf("expected validation result attached")
	}
	if resp.Report == "" || resp.Disclaimer == "" {
		t.Fatalf("expected non-empty report and disclaimer")
	}
}

func TestValidateFacilitiesRejectsEmptyBatch(t *testing.T) {
	handler := newTestHandler(t, defaultTestConfig(), newRepoFake(), &queueFake{})

	res := postJSON(t, handler, "/v1/facilities/validate", map[string]any{
		"facilities": []map[string]any{},
	})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(t, defaultTestConfig(), newRepoFake(), &queueFake{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}
