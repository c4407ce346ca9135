package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"coursefeedback/internal/model"
	"coursefeedback/internal/service"
)

type stubValidator map[string]*model.Claims

func (s stubValidator) ValidateToken(token string) (*model.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, service.ErrInvalidToken
}

func claimsFor(id string, role model.Role) *model.Claims {
	c := &model.Claims{Role: role, Username: id}
	c.Subject = id
	return c
}

func TestRequire(t *testing.T) {
	mw := NewAuthMiddleware(stubValidator{
		"teacher": claimsFor("t1", model.RoleTeacher),
		"student": claimsFor("s1", model.RoleStudent),
	})

	var seen service.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetActor(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := mw.Require(model.RoleTeacher, model.RoleAdmin)(next)

	cases := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Basic abc", http.StatusUnauthorized},
		{"Bearer nope", http.StatusUnauthorized},
		{"Bearer student", http.StatusForbidden},
		{"bearer teacher", http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%q: expected %d, got %d", tc.header, tc.want, rec.Code)
		}
	}
	if seen.UserID != "t1" || seen.Role != model.RoleTeacher {
		t.Fatalf("unexpected actor in context %+v", seen)
	}
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(60, 2, false)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	h := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if hit("10.0.0.1:1000") != http.StatusOK || hit("10.0.0.1:1001") != http.StatusOK {
		t.Fatal("expected burst to be allowed")
	}
	if code := hit("10.0.0.1:1002"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}
	if hit("10.0.0.2:1000") != http.StatusOK {
		t.Fatal("other clients keep their own budget")
	}

	now = now.Add(time.Second)
	if hit("10.0.0.1:1003") != http.StatusOK {
		t.Fatal("expected a token to be refilled after one second")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := clientIP(req, true); got != "192.0.2.1" {
		t.Fatalf("expected remote host, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(req, false); got != "192.0.2.1" {
		t.Fatalf("expected forwarded header to be ignored, got %q", got)
	}
	if got := clientIP(req, true); got != "203.0.113.9" {
		t.Fatalf("expected first forwarded address, got %q", got)
	}
}

func TestRateLimiterIgnoresSpoofedForwardedFor(t *testing.T) {
	l := NewRateLimiter(1, 1, false)
	h := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	limited := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited != 49 {
		t.Fatalf("expected 49 of 50 requests limited, got %d", limited)
	}
}

func TestRequestIDAndAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var gotID string
	h := RequestID(AccessLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forms/x", nil))
	if gotID == "" || rec.Header().Get("X-Request-ID") != gotID {
		t.Fatalf("expected generated request id, header %q ctx %q", rec.Header().Get("X-Request-ID"), gotID)
	}

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zap.WarnLevel {
		t.Fatalf("expected one warn access log entry, got %+v", entries)
	}
	if entries[0].ContextMap()["status"] != int64(http.StatusNotFound) {
		t.Fatalf("unexpected status field %v", entries[0].ContextMap()["status"])
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if gotID != "abc" {
		t.Fatalf("expected incoming request id to be kept, got %q", gotID)
	}
}
