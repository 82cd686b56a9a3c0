package companies

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	router := gin.New()
	router.Use(middleware.Auth())
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	token, err := auth.SignUser(userID, "user", "")
	if err != nil {
		t.Fatalf("SignUser: %v", err)
	}
	return "Bearer " + token
}

func do(router *gin.Engine, method, path, authz, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHandlerCompanyLifecycle(t *testing.T) {
	router := newTestRouter(t)

	resp := do(router, http.MethodPost, "/api/v1/companies", "", `{"name":"Acme"}`)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", resp.Code)
	}

	resp = do(router, http.MethodPost, "/api/v1/companies", bearer(t, author), `{"name":"Acme","industry":"Retail"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var company Company
	if err := json.Unmarshal(resp.Body.Bytes(), &company); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if company.ID == 0 || company.ReviewAvg != nil {
		t.Fatalf("unexpected company %+v", company)
	}

	resp = do(router, http.MethodPost, "/api/v1/companies", bearer(t, stranger), `{"name":"Acme"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: expected 400, got %d", resp.Code)
	}

	resp = do(router, http.MethodGet, "/api/v1/companies/search?name=acm", "", "")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"Acme"`) {
		t.Fatalf("search: %d %s", resp.Code, resp.Body.String())
	}

	resp = do(router, http.MethodGet, "/api/v1/companies/abc", "", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("malformed id: expected 404, got %d", resp.Code)
	}
}

func TestHandlerReviewNotFoundForNonAuthor(t *testing.T) {
	router := newTestRouter(t)

	resp := do(router, http.MethodPost, "/api/v1/companies", bearer(t, author), `{"name":"Acme"}`)
	var company Company
	_ = json.Unmarshal(resp.Body.Bytes(), &company)

	path := "/api/v1/companies/" + itoa(company.ID) + "/reviews"
	resp = do(router, http.MethodPost, path, bearer(t, author), `{"score":10,"review":"x"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("out of range score: expected 400, got %d", resp.Code)
	}

	resp = do(router, http.MethodPost, path, bearer(t, author), `{"score":8.5,"review":"Great"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create review: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var review Review
	_ = json.Unmarshal(resp.Body.Bytes(), &review)

	resp = do(router, http.MethodDelete, path+"/"+itoa(review.ID), bearer(t, stranger), "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("non-author delete: expected 404, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	if body.Error.Message != "Not found." {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}

	resp = do(router, http.MethodGet, path+"/"+itoa(review.ID), "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("anonymous read: expected 200, got %d", resp.Code)
	}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
