package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appErr "cfanalyzer/pkg/errors"
	"cfanalyzer/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
)

type apiResponse struct {
	Code    int    `json:"code"`
	TraceID string `json:"trace_id"`
}

func performRequest(router http.Handler, method, path string, headers map[string]string) (*httptest.ResponseRecorder, apiResponse) {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var resp apiResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestTraceContextMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TraceContextMiddleware())
	var ctxTrace, ctxSession interface{}
	router.GET("/trace", func(c *gin.Context) {
		ctxTrace = c.Request.Context().Value(contextkey.TraceID)
		ctxSession = c.Request.Context().Value(contextkey.SessionID)
		c.String(http.StatusOK, SessionID(c))
	})

	rec, _ := performRequest(router, http.MethodGet, "/trace", map[string]string{
		RequestIDHeader: "req-123",
		SessionIDHeader: "sess-1",
	})
	traceID := rec.Header().Get(TraceIDHeader)
	if traceID == "" || ctxTrace != traceID {
		t.Fatalf("expected generated trace id in header and context, got %q / %v", traceID, ctxTrace)
	}
	if rec.Header().Get(RequestIDHeader) != "req-123" {
		t.Fatalf("expected request id to be preserved")
	}
	if rec.Body.String() != "sess-1" || ctxSession != "sess-1" {
		t.Fatalf("expected session id, got body %q ctx %v", rec.Body.String(), ctxSession)
	}
}

func TestTraceContextMiddlewareDropsOversizedSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TraceContextMiddleware())
	router.GET("/trace", func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})

	rec, _ := performRequest(router, http.MethodGet, "/trace", map[string]string{
		SessionIDHeader: strings.Repeat("x", maxSessionIDLen+1),
	})
	if rec.Body.String() != "" || rec.Header().Get(SessionIDHeader) != "" {
		t.Fatalf("oversized session id should be ignored")
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name       string
		config     CORSConfig
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{
			name:       "disabled cors",
			config:     CORSConfig{Enabled: false},
			method:     http.MethodGet,
			origin:     "https://example.com",
			wantStatus: http.StatusOK,
		},
		{
			name: "allowed preflight",
			config: CORSConfig{
				Enabled:        true,
				AllowedOrigins: []string{"https://example.com"},
				AllowedMethods: []string{"GET"},
				AllowedHeaders: []string{SessionIDHeader},
				MaxAge:         "600",
			},
			method:     http.MethodOptions,
			origin:     "https://example.com",
			wantStatus: http.StatusNoContent,
			wantOrigin: "https://example.com",
		},
		{
			name:       "wildcard get",
			config:     CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}},
			method:     http.MethodGet,
			origin:     "https://any.example",
			wantStatus: http.StatusOK,
			wantOrigin: "*",
		},
		{
			name:       "blocked preflight",
			config:     CORSConfig{Enabled: true, AllowedOrigins: []string{"https://allowed.com"}},
			method:     http.MethodOptions,
			origin:     "https://denied.com",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(tc.config))
			router.Handle(tc.method, "/resource", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			rec, _ := performRequest(router, tc.method, "/resource", map[string]string{"Origin": tc.origin})
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("allow origin = %q, want %q", got, tc.wantOrigin)
			}
		})
	}
}

type fakeLimiter struct {
	counts map[string]int
	err    error
}

func (f *fakeLimiter) Allow(_ context.Context, key string, max int, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.counts[key]++
	if f.counts[key] > max {
		return appErr.New(appErr.TooManyRequests)
	}
	return nil
}

func limitedRouter(limiter Limiter, policy RateLimitPolicy) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TraceContextMiddleware())
	router.Use(RateLimitMiddleware(limiter, "upstream", policy))
	router.GET("/limited", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := &fakeLimiter{counts: map[string]int{}}
	router := limitedRouter(limiter, RateLimitPolicy{Window: time.Minute, IPMax: 2})
	headers := map[string]string{"X-Forwarded-For": "192.0.2.1"}

	for i := 0; i < 2; i++ {
		if rec, _ := performRequest(router, http.MethodGet, "/limited", headers); rec.Code != http.StatusOK {
			t.Fatalf("unexpected status on attempt %d: %d", i+1, rec.Code)
		}
	}

	rec, resp := performRequest(router, http.MethodGet, "/limited", headers)
	if rec.Code != http.StatusTooManyRequests || resp.Code != int(appErr.TooManyRequests) {
		t.Fatalf("expected rate limit, got %d / %d", rec.Code, resp.Code)
	}
	if resp.TraceID == "" {
		t.Fatal("expected trace id in error body")
	}
	for key := range limiter.counts {
		if !strings.HasPrefix(key, "cfanalyzer:rate:ip:") || !strings.HasSuffix(key, ":upstream") {
			t.Fatalf("unexpected limiter key %s", key)
		}
	}
}

func TestRateLimitMiddlewareDisabledOrFailing(t *testing.T) {
	cases := []struct {
		name    string
		limiter Limiter
		policy  RateLimitPolicy
	}{
		{"nil limiter", nil, RateLimitPolicy{IPMax: 1}},
		{"zero max", &fakeLimiter{counts: map[string]int{}}, RateLimitPolicy{}},
		{"backend down", &fakeLimiter{err: errors.New("redis down")}, RateLimitPolicy{IPMax: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := limitedRouter(tc.limiter, tc.policy)
			for i := 0; i < 3; i++ {
				if rec, _ := performRequest(router, http.MethodGet, "/limited", nil); rec.Code != http.StatusOK {
					t.Fatalf("unexpected status: %d", rec.Code)
				}
			}
		})
	}
}
