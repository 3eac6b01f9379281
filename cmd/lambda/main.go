// Package main is the entry point for the warmer Lambda function.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"github.com/pricofy/lambda-warmer/internal/config"
	"github.com/pricofy/lambda-warmer/internal/handler"
	"github.com/pricofy/lambda-warmer/internal/invoker"
	"github.com/pricofy/lambda-warmer/internal/warmer"
)

// state lives for as long as the execution environment does.
var state = warmer.NewState()

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() //nolint:errcheck

	inv, err := invoker.New(context.Background())
	if err != nil {
		logger.Fatal("failed to create invoker", zap.Error(err))
	}

	function := cfg.FunctionName
	if function == "" {
		function = lambdacontext.FunctionName
	}

	controller := warmer.New(function, inv, state, cfg.Warmer, logger)
	h := handler.New(controller, nil, logger)

	lambda.Start(h.Handle)
}

// newLogger builds a JSON logger writing to stdout, which Lambda forwards to
// CloudWatch.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = lvl
	zc.OutputPaths = []string{"stdout"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}
