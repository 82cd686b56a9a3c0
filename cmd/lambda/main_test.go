package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
)

func TestHandlerBootstrapFailure(t *testing.T) {
	calls := 0
	h := newHandler(func() (*gin.Engine, error) {
		calls++
		return nil, errors.New("DATABASE_URL is required")
	})
	for i := 0; i < 2; i++ {
		resp, err := h(context.Background(), events.APIGatewayV2HTTPRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusInternalServerError || !strings.Contains(resp.Body, `"internal_error"`) {
			t.Fatalf("unexpected response %+v", resp)
		}
	}
	if calls != 1 {
		t.Fatalf("build called %d times", calls)
	}
}

func TestHandlerProxiesToRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newHandler(func() (*gin.Engine, error) {
		r := gin.New()
		r.GET("/api/v1/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
		return r, nil
	})

	req := events.APIGatewayV2HTTPRequest{
		RawPath: "/api/v1/health",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodGet, Path: "/api/v1/health"},
		},
	}
	resp, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("proxy: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Body, `"ok":true`) {
		t.Fatalf("unexpected response %+v", resp)
	}
}
