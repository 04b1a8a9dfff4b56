// Package main runs the generator API as an AWS Lambda function behind an
// API Gateway HTTP API.
package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"

	"github.com/terrascope/tfgen/internal/config"
	"github.com/terrascope/tfgen/internal/logging"
	"github.com/terrascope/tfgen/internal/metrics"
	"github.com/terrascope/tfgen/internal/server"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	logger    *zap.Logger

	coldStart     = true
	coldStartTime time.Time
)

func init() {
	coldStartTime = time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	chiLambda = newAdapter(cfg, logger)
	logger.Info("Lambda cold start completed", zap.Duration("duration", time.Since(coldStartTime)))
}

func newAdapter(cfg *config.Config, logger *zap.Logger) *chiadapter.ChiLambdaV2 {
	var collector *metrics.Collector
	if cfg.EnableMetrics {
		collector = metrics.NewCollector()
	}
	return chiadapter.NewV2(server.NewRouter(cfg, logger, collector))
}

// Handler proxies one API Gateway request through the router.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return proxy(ctx, chiLambda, req)
}

func proxy(ctx context.Context, adapter *chiadapter.ChiLambdaV2, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := adapter.ProxyWithContextV2(ctx, req)
	if err != nil {
		logger.Error("Lambda proxy failed",
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.String("request_id", req.RequestContext.RequestID),
			zap.Error(err),
		)
		return resp, err
	}

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		coldStart = false
	} else {
		resp.Headers["X-Cold-Start"] = "false"
	}
	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Lambda-Request-ID"] = req.RequestContext.RequestID
	}
	return resp, nil
}

func main() {
	lambda.Start(Handler)
}
