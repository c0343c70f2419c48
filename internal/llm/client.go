// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

const (
	defaultTimeout   = 300 * time.Second
	defaultMaxTokens = 8192
	maxRetryAttempts = 3
	baseRetryDelay   = 1 * time.Second
)

// ClientConfig configures the Bedrock client.
type ClientConfig struct {
	ModelID   string        // Bedrock model ID (required)
	Region    string        // AWS region (required)
	Profile   string        // AWS credential profile (optional, uses default chain if empty)
	Timeout   time.Duration // Request timeout (default 300s)
	MaxTokens int           // Max tokens for the response (default 8192)
}

// BedrockAPI abstracts the Bedrock ConverseStream call for testing.
type BedrockAPI interface {
	ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error)
}

// EventStream abstracts the Bedrock ConverseStream event stream for testing.
type EventStream interface {
	Events() <-chan brtypes.ConverseStreamOutput
	Close() error
	Err() error
}

// streamFunc opens one ConverseStream call.
type streamFunc func(ctx context.Context, input *bedrockruntime.ConverseStreamInput) (EventStream, error)

// Client is a Generator backed by AWS Bedrock.
type Client struct {
	open      streamFunc
	modelID   string
	timeout   time.Duration
	maxTokens int
	retryBase time.Duration

	mu    sync.Mutex
	usage types.TokenUsage // Cumulative usage across calls
}

// NewClient creates a Bedrock client from cfg using the standard AWS
// credential chain.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("%w: model ID is required", ErrGenerationFailure)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrGenerationFailure)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", ErrGenerationFailure, err)
	}

	return NewClientWithAPI(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

// NewClientWithAPI creates a client with a pre-configured API
// implementation.
func NewClientWithAPI(api BedrockAPI, cfg ClientConfig) *Client {
	return newClient(func(ctx context.Context, input *bedrockruntime.ConverseStreamInput) (EventStream, error) {
		out, err := api.ConverseStream(ctx, input)
		if err != nil {
			return nil, err
		}
		return out.GetStream(), nil
	}, cfg)
}

func newClient(open streamFunc, cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		open:      open,
		modelID:   cfg.ModelID,
		timeout:   timeout,
		maxTokens: maxTokens,
		retryBase: baseRetryDelay,
	}
}

// Generate sends messages through ConverseStream and returns the
// accumulated response text.
func (c *Client) Generate(ctx context.Context, messages []types.Message, opts types.GenerateOptions) (*types.Generation, error) {
	system, conversation := splitSystem(messages)
	if len(conversation) == 0 {
		return nil, fmt.Errorf("%w: no user message", ErrGenerationFailure)
	}

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	input := &bedrockruntime.ConverseStreamInput{
		ModelId:  aws.String(c.modelID),
		Messages: toBedrock(conversation),
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(maxTokens)),
			Temperature: aws.Float32(float32(opts.Temperature)),
		},
	}
	if system != "" {
		input.System = []brtypes.SystemContentBlock{
			&brtypes.SystemContentBlockMemberText{Value: system},
		}
	}

	gen, err := c.sendWithRetry(ctx, input)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(gen.Content) == "" {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailure)
	}

	c.mu.Lock()
	c.usage.InputTokens += gen.Usage.InputTokens
	c.usage.OutputTokens += gen.Usage.OutputTokens
	c.mu.Unlock()

	return gen, nil
}

// CumulativeUsage returns the total token usage across all calls.
func (c *Client) CumulativeUsage() types.TokenUsage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// sendWithRetry calls ConverseStream with exponential backoff retry for
// throttling errors.
func (c *Client) sendWithRetry(ctx context.Context, input *bedrockruntime.ConverseStreamInput) (*types.Generation, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetryAttempts; attempt++ {
		if attempt > 0 {
			delay := c.retryBase * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: context cancelled during retry: %w", ErrGenerationFailure, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		stream, err := c.open(callCtx, input)
		if err != nil {
			cancel()

			var throttle *brtypes.ThrottlingException
			if errors.As(err, &throttle) {
				lastErr = err
				continue
			}
			return nil, c.classifyError(err)
		}

		gen := readGeneration(callCtx, stream)
		streamErr := stream.Err()
		ctxErr := callCtx.Err()
		cancel()

		if ctxErr != nil {
			return nil, c.classifyError(ctxErr)
		}
		if streamErr != nil {
			return nil, c.classifyError(streamErr)
		}
		gen.Retries = attempt
		return gen, nil
	}

	return nil, fmt.Errorf("%w: rate limited after %d retries: %v", ErrGenerationFailure, maxRetryAttempts, lastErr)
}

// readGeneration drains one ConverseStream into a Generation, recording the
// usage from the metadata event. On cancellation the stream is closed and
// the partial text kept; the caller checks the context.
func readGeneration(ctx context.Context, stream EventStream) *types.Generation {
	var text strings.Builder
	gen := &types.Generation{}
	done := func() *types.Generation {
		gen.Content = text.String()
		gen.TokensUsed = gen.Usage.Total()
		return gen
	}

	events := stream.Events()
	for {
		select {
		case <-ctx.Done():
			stream.Close()
			return done()

		case event, ok := <-events:
			if !ok {
				return done()
			}
			switch v := event.(type) {
			case *brtypes.ConverseStreamOutputMemberContentBlockDelta:
				if delta, ok := v.Value.Delta.(*brtypes.ContentBlockDeltaMemberText); ok {
					text.WriteString(delta.Value)
				}
			case *brtypes.ConverseStreamOutputMemberMetadata:
				if u := v.Value.Usage; u != nil {
					gen.Usage.InputTokens = int(aws.ToInt32(u.InputTokens))
					gen.Usage.OutputTokens = int(aws.ToInt32(u.OutputTokens))
				}
			}
		}
	}
}

// classifyError wraps Bedrock errors into ErrGenerationFailure with
// descriptive messages.
func (c *Client) classifyError(err error) error {
	var accessDenied *brtypes.AccessDeniedException
	if errors.As(err, &accessDenied) {
		return fmt.Errorf("%w: credential or permission issue: %v", ErrGenerationFailure, err)
	}

	var notFound *brtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: model not found: %s", ErrGenerationFailure, c.modelID)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out: %w", ErrGenerationFailure, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrGenerationFailure, err)
	}

	return fmt.Errorf("%w: %v", ErrGenerationFailure, err)
}

func toBedrock(messages []types.Message) []brtypes.Message {
	out := make([]brtypes.Message, 0, len(messages))
	for _, m := range messages {
		role := brtypes.ConversationRoleUser
		if m.Role == types.RoleAssistant {
			role = brtypes.ConversationRoleAssistant
		}
		out = append(out, brtypes.Message{
			Role: role,
			Content: []brtypes.ContentBlock{
				&brtypes.ContentBlockMemberText{Value: m.Content},
			},
		})
	}
	return out
}
