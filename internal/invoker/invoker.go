// Package invoker dispatches warmer invocations through the AWS Lambda API.
package invoker

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/pricofy/lambda-warmer/internal/domain"
)

// ErrFunctionError is returned when a synchronous invocation completes with
// a function error.
var ErrFunctionError = errors.New("lambda function error")

// API is the subset of the Lambda client used by the invoker.
type API interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Invoker invokes Lambda functions.
type Invoker struct {
	client API
}

// New creates an Invoker using the default AWS configuration.
func New(ctx context.Context) (*Invoker, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithClient(lambda.NewFromConfig(cfg)), nil
}

// NewWithClient creates an Invoker that uses the given client.
func NewWithClient(client API) *Invoker {
	return &Invoker{client: client}
}

// Invoke sends payload to the named function.
//
// FireAndForget uses the Event invocation type and returns once Lambda has
// queued the event. WaitForCompletion uses RequestResponse and returns once
// the function has finished.
func (i *Invoker) Invoke(ctx context.Context, function string, payload []byte, mode domain.InvocationMode) error {
	invocationType, err := invocationType(mode)
	if err != nil {
		return err
	}

	result, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(function),
		InvocationType: invocationType,
		LogType:        types.LogTypeNone,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("failed to invoke %s: %w", function, err)
	}

	// Check for Lambda errors
	if result.FunctionError != nil {
		return fmt.Errorf("%w: %s: %s", ErrFunctionError, function, *result.FunctionError)
	}

	return nil
}

func invocationType(mode domain.InvocationMode) (types.InvocationType, error) {
	switch mode {
	case domain.FireAndForget:
		return types.InvocationTypeEvent, nil
	case domain.WaitForCompletion:
		return types.InvocationTypeRequestResponse, nil
	default:
		return "", fmt.Errorf("unsupported invocation mode: %d", int(mode))
	}
}
