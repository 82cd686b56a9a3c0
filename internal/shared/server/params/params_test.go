package params

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{query: "", wantLimit: DefaultLimit, wantOffset: 0},
		{query: "?limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{query: "?limit=500", wantLimit: MaxLimit, wantOffset: 0},
		{query: "?limit=-1&offset=-3", wantLimit: DefaultLimit, wantOffset: 0},
		{query: "?limit=abc", wantLimit: DefaultLimit, wantOffset: 0},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
		limit, offset := Page(c)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Fatalf("%q: got (%d,%d), want (%d,%d)", tt.query, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestIDRejectsMalformed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	if _, ok := ID(c, "id"); ok {
		t.Fatalf("expected malformed id to fail")
	}
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	if got := Window(items, 2, 1); len(got) != 2 || got[0] != 2 {
		t.Fatalf("unexpected window %v", got)
	}
	if got := Window(items, 2, 10); len(got) != 0 {
		t.Fatalf("expected empty window, got %v", got)
	}
}

func TestBindRejectsAnonymousBeforeBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("not json"))

	var dst struct{}
	if Bind(c, &dst) {
		t.Fatalf("expected anonymous bind to fail")
	}
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestBindValidatesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", int64(1))

	var dst struct {
		Name string `json:"name" binding:"required"`
	}
	if Bind(c, &dst) {
		t.Fatalf("expected missing name to fail")
	}
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
