// Package handler provides the Lambda handler for the warmer function.
package handler

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"github.com/pricofy/lambda-warmer/internal/warmer"
)

// NextFunc handles an event that is not a warmer ping.
type NextFunc func(ctx context.Context, event json.RawMessage) (interface{}, error)

// WarmResponse is returned for every handled ping.
type WarmResponse struct {
	Status        string `json:"status"`
	Warmer        bool   `json:"warmer"`
	InstanceID    string `json:"instanceId"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Response is the default response for real traffic.
type Response struct {
	Status string `json:"status"`
	Warm   bool   `json:"warm"`
}

// Handler runs the warm check before any other processing.
type Handler struct {
	controller *warmer.Controller
	next       NextFunc
	logger     *zap.Logger
}

// New creates a Handler. A nil next answers real traffic with a Response.
func New(controller *warmer.Controller, next NextFunc, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handler{
		controller: controller,
		next:       next,
		logger:     logger,
	}
	if h.next == nil {
		h.next = h.respond
	}
	return h
}

// Handle processes a single Lambda event.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	pinged, err := h.controller.Invoke(ctx, event)
	if err != nil {
		h.logger.Error(
			"warm-up failed",
			zap.String("requestId", requestID(ctx)),
			zap.Error(err),
		)
		return nil, err
	}

	if pinged {
		ping, _ := h.controller.Classify(event)
		return &WarmResponse{
			Status:        "warm",
			Warmer:        true,
			InstanceID:    h.controller.State().InstanceID(),
			CorrelationID: ping.CorrelationID,
		}, nil
	}

	return h.next(ctx, event)
}

func (h *Handler) respond(ctx context.Context, _ json.RawMessage) (interface{}, error) {
	h.logger.Debug("handled request", zap.String("requestId", requestID(ctx)))

	return &Response{
		Status: "ok",
		Warm:   h.controller.State().Warm(),
	}, nil
}

// requestID returns the AWS request ID, if the context carries one.
func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
