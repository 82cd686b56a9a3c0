package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/access"
)

func TestAccessErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "unauthenticated", err: access.ErrUnauthenticated, wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "not found", err: access.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "wrapped not found", err: fmt.Errorf("load resume: %w", access.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "validation", err: access.Invalid("Record already exists"), wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{name: "internal", err: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(resp)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			AccessError(c, tt.err)

			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, body.Error.Code)
			}
		})
	}
}

func TestValidationMessageIsReturned(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	AccessError(c, access.Invalid("A user cannot apply to an opportunity they have created."))

	var body ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Message != "A user cannot apply to an opportunity they have created." {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
}
