package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestPendingLoginsAreSingleUse(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	logins := newPendingLogins(time.Minute, func() time.Time { return now })
	logins.add("s1", "/opportunities/5")
	logins.add("s2", "")

	next, ok := logins.take("s1")
	if !ok || next != "/opportunities/5" {
		t.Fatalf("take s1 = %q, %v", next, ok)
	}
	if _, ok := logins.take("s1"); ok {
		t.Fatalf("expected state to be single use")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := logins.take("s2"); ok {
		t.Fatalf("expected expired state to be rejected")
	}
	logins.add("s3", "")
	if len(logins.items) != 1 {
		t.Fatalf("expired states not swept: %d left", len(logins.items))
	}
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"/companies/3":        "/companies/3",
		"":                    "",
		"https://evil.test/x": "",
		"//evil.test":         "",
		"/\\evil.test":        "",
	}
	for in, want := range cases {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUITarget(t *testing.T) {
	got, err := uiTarget("http://localhost:5173/login?lang=en", "abc", "/opportunities")
	if err != nil {
		t.Fatalf("uiTarget: %v", err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("token") != "abc" || q.Get("next") != "/opportunities" || q.Get("lang") != "en" {
		t.Fatalf("unexpected redirect %q", got)
	}
	if _, err := uiTarget("", "abc", ""); err == nil {
		t.Fatalf("expected error for empty redirect")
	}
}

func newGoogleRouter(svc *GoogleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestStartRedirectsToGoogle(t *testing.T) {
	svc := NewGoogleService("client", "secret", "http://localhost:8080/api/v1/auth/google/callback", "http://localhost:5173", nil)
	router := newGoogleRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start?next=/opportunities", nil))

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	loc := resp.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://accounts.google.com/") {
		t.Fatalf("unexpected redirect %q", loc)
	}
	u, _ := url.Parse(loc)
	if next, ok := svc.states.take(u.Query().Get("state")); !ok || next != "/opportunities" {
		t.Fatalf("state not recorded: %q, %v", next, ok)
	}
}

func TestStartWithoutCredentials(t *testing.T) {
	router := newGoogleRouter(NewGoogleService("", "", "", "", nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	router := newGoogleRouter(NewGoogleService("client", "secret", "http://localhost/cb", "http://localhost:5173", nil))

	for _, target := range []string{
		"/api/v1/auth/google/callback?state=nope&code=x",
		"/api/v1/auth/google/callback?code=x",
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, resp.Code)
		}
	}
}
