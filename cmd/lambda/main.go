package main

// Build for AWS Lambda behind an API Gateway HTTP API:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/bootstrap"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/telemetry"
)

type proxyFunc func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// newHandler builds the router on the first invocation and reuses it for the
// life of the execution environment.
func newHandler(build func() (*gin.Engine, error)) proxyFunc {
	var (
		once    sync.Once
		adapter *ginadapter.GinLambdaV2
		initErr error
	)
	return func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		once.Do(func() {
			router, err := build()
			if err != nil {
				initErr = err
				return
			}
			adapter = ginadapter.NewV2(router)
		})
		if initErr != nil {
			telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr.Error()})
			return events.APIGatewayV2HTTPResponse{
				StatusCode: http.StatusInternalServerError,
				Body:       `{"error":{"code":"internal_error","message":"Unexpected server error"}}`,
				Headers:    map[string]string{"Content-Type": "application/json"},
			}, nil
		}
		return adapter.ProxyWithContext(ctx, req)
	}
}

func main() {
	lambda.Start(newHandler(func() (*gin.Engine, error) {
		app, err := bootstrap.Build(config.Load())
		if err != nil {
			return nil, err
		}
		return app.Router, nil
	}))
}
