package test

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	reqguard "github.com/halcyon-labs/reqguard"
)

// ExampleNew demonstrates engine construction with production-style
// dependencies.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	logger, _ := zap.NewProduction()

	cfg := reqguard.DefaultConfig()
	cfg.Environment = "production"

	engine, _ := reqguard.New().
		WithConfig(cfg).
		WithLogger(logger).
		WithRedis(rdb).
		Build()
	_ = engine
}

// ExampleEngine_Login shows a typical login call with the client
// binding stamped into the context.
func ExampleEngine_Login() {
	var engine *reqguard.Engine

	ctx := reqguard.WithClientIP(context.Background(), "203.0.113.7")
	ctx = reqguard.WithUserAgent(ctx, "curl/8.0")

	_, err := engine.Login(ctx, "alice@example.com", "password")
	if err != nil {
		_ = err
	}
}

// ExampleEngine_MetricsSnapshot shows how to read in-process counters.
func ExampleEngine_MetricsSnapshot() {
	var engine *reqguard.Engine
	snapshot := engine.MetricsSnapshot()
	_ = snapshot
}
