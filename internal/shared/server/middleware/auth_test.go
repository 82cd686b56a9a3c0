package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/auth"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, strconv.FormatInt(UserIDFromContext(c), 10))
	})
	router.POST("/actor", func(c *gin.Context) {
		actor := ActorFromContext(c)
		if !actor.Authenticated() {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.String(http.StatusOK, strconv.FormatInt(actor.UserID, 10))
	})
	return router
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.OPTIONS("/api/v1/companies", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/companies", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthAnonymousContinues(t *testing.T) {
	router := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || resp.Body.String() != "0" {
		t.Fatalf("expected anonymous 200 with id 0, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestAuthBearerSetsUserID(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-secret")
	router := newAuthRouter()
	token, err := auth.SignUser(17, "ada", "")
	if err != nil {
		t.Fatalf("SignUser: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || resp.Body.String() != "17" {
		t.Fatalf("expected user 17, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	router := newAuthRouter()

	for _, header := range []string{"Bearer nope", "Basic abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, resp.Code)
		}
	}
}

func TestActorFromContext(t *testing.T) {
	t.Setenv("JWT_SECRET", "actor-secret")
	router := newAuthRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/actor", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", resp.Code)
	}

	token, err := auth.SignUser(12, "ada", "ada@example.com")
	if err != nil {
		t.Fatalf("SignUser: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/actor", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || resp.Body.String() != "12" {
		t.Fatalf("authenticated: got %d %q", resp.Code, resp.Body.String())
	}
}
