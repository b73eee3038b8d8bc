package httpadapter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okStub() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestRateLimitMiddlewareShedsBeyondBurst(t *testing.T) {
	handler := rateLimitMiddleware(okStub(), 1, 1)

	if res := get(handler, "/healthz"); res.Code != http.StatusNoContent {
		t.Fatalf("request within burst expected 204, got %d", res.Code)
	}

	res := get(handler, "/healthz")
	if res.Code != http.StatusTooManyRequests {
		t.Fatalf("request beyond burst expected 429, got %d", res.Code)
	}
	if res.Header().Get("Retry-After") == "" {
		t.Fatalf("shed response must carry Retry-After")
	}
}

func TestRateLimitMiddlewareDisabledWithoutBounds(t *testing.T) {
	handler := rateLimitMiddleware(okStub(), 0, 0)
	for i := 0; i < 5; i++ {
		if res := get(handler, "/healthz"); res.Code != http.StatusNoContent {
			t.Fatalf("unbounded limiter must pass every request, got %d", res.Code)
		}
	}
}

func TestBackpressureMiddlewareShedsWhenSaturated(t *testing.T) {
	holding := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan int, 1)

	slow := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		holding <- struct{}{}
		<-release
		w.WriteHeader(http.StatusNoContent)
	})
	handler := backpressureMiddleware(slow, 1, 20*time.Millisecond)

	go func() {
		firstDone <- get(handler, "/healthz").Code
	}()
	<-holding

	// The single slot is held, so this request waits out queueWait and sheds.
	res := get(handler, "/healthz")
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("saturated gate expected 503, got %d", res.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode shed response: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("shed response must explain the overload")
	}

	close(release)
	select {
	case code := <-firstDone:
		if code != http.StatusNoContent {
			t.Fatalf("held request expected 204, got %d", code)
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("timed out waiting for held request")
	}
}
