package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddleware(t *testing.T) {
	limiter := NewEvery(time.Hour, 2)

	handler := limiter.Middleware(RemoteIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	expected := []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}

	for idx, status := range expected {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"

		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		if e, g := status, res.Code; e != g {
			t.Errorf("request #%d: expected '%v', got '%v'", idx, e, g)
		}
	}

	// Another client has its own budget
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.2:1234"

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if e, g := http.StatusNoContent, res.Code; e != g {
		t.Errorf("other client: expected '%v', got '%v'", e, g)
	}
}
