package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/promptforge/internal/prompts"
	"github.com/promptforge/internal/retry"
	"github.com/promptforge/pkg/models"
)

// Enhancer composes prompts and runs them through a Generator with retries.
type Enhancer struct {
	gen         Generator
	composer    *prompts.Composer
	retryConfig retry.RetryConfig
	timeout     time.Duration
	logger      zerolog.Logger
}

// NewEnhancer uses retry.LLMRetryConfig. A zero timeout means none.
func NewEnhancer(gen Generator, composer *prompts.Composer, timeout time.Duration) *Enhancer {
	if composer == nil {
		composer = prompts.NewComposer()
	}
	return &Enhancer{
		gen:         gen,
		composer:    composer,
		retryConfig: retry.LLMRetryConfig(),
		timeout:     timeout,
		logger:      log.With().Str("component", "enhancer").Logger(),
	}
}

// WithRetryConfig replaces the retry policy.
func (e *Enhancer) WithRetryConfig(cfg retry.RetryConfig) *Enhancer {
	e.retryConfig = cfg
	return e
}

// Completion is a model response plus how it was obtained.
type Completion struct {
	Output        string        `json:"output"`
	Attempts      int           `json:"attempts"`
	TotalDuration time.Duration `json:"totalDuration"`
	RetryReasons  []string      `json:"retryReasons,omitempty"`
}

// EnhanceResult is the composed request together with the model's answer.
type EnhanceResult struct {
	models.ComposeResponse
	Completion
	Responses []SampledResponse `json:"responses,omitempty"`
}

// Complete calls the generator under the retry policy.
func (e *Enhancer) Complete(ctx context.Context, system, prompt string) (Completion, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var output string
	result := retry.RetryWithBackoffAndReason(ctx, e.retryConfig, func() (string, error) {
		out, err := e.gen.Generate(ctx, system, prompt)
		if err != nil {
			return err.Error(), err
		}
		if out == "" {
			return "empty_response", ErrEmptyResponse
		}
		output = out
		return "", nil
	}, &e.logger)

	c := Completion{
		Output:        output,
		Attempts:      result.Attempts,
		TotalDuration: result.TotalDuration,
		RetryReasons:  result.RetryReasons,
	}
	if !result.Success {
		err := result.LastError
		if err == nil {
			err = errors.New("generation failed")
		}
		e.logger.Warn().Err(err).Int("attempts", result.Attempts).Msg("generation failed")
		return c, err
	}
	e.logger.Debug().Int("attempts", result.Attempts).Dur("duration", result.TotalDuration).Msg("generation succeeded")
	return c, nil
}

// Enhance composes req and sends the preview with the domain system prompt.
// Sampled responses are parsed when diversity sampling is enabled.
func (e *Enhancer) Enhance(ctx context.Context, req models.ComposeRequest) (EnhanceResult, error) {
	composed := req.Compose(e.composer)
	res := EnhanceResult{ComposeResponse: composed}

	c, err := e.Complete(ctx, composed.Generated.SystemPrompt, composed.Preview)
	res.Completion = c
	if err != nil {
		return res, err
	}
	if composed.Generated.Metadata.VSEnabled {
		res.Responses = ParseSampledResponses(c.Output)
	}
	return res, nil
}
