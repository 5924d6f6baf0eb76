package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riverqueue/river"

	"github.com/promptforge/internal/library"
	"github.com/promptforge/internal/logging"
	"github.com/promptforge/internal/llm"
	"github.com/promptforge/pkg/models"
)

// RunPromptArgs identifies the saved prompt and run record a job executes.
type RunPromptArgs struct {
	RunID    string `json:"run_id"`
	PromptID string `json:"prompt_id"`
	OwnerID  string `json:"owner_id"`
}

// Kind returns the job kind for River
func (RunPromptArgs) Kind() string {
	return "prompt_run"
}

// Completer runs a system and user prompt through a model.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (llm.Completion, error)
}

// Runner executes prompt runs against a store. It is independent of River so
// it can be driven directly.
type Runner struct {
	store     library.Store
	completer Completer
	model     string
	now       func() time.Time
}

func NewRunner(store library.Store, completer Completer, model string) *Runner {
	return &Runner{store: store, completer: completer, model: model, now: time.Now}
}

// ErrRunFailed wraps a generation failure that has been recorded on the run.
var ErrRunFailed = errors.New("prompt run failed")

// Execute loads the prompt, marks the run running, calls the model and
// records the output or the failure.
func (r *Runner) Execute(ctx context.Context, args RunPromptArgs) error {
	logger := logging.ForRun(args.RunID, args.PromptID)

	prompt, err := r.store.Get(ctx, args.OwnerID, args.PromptID)
	if err != nil {
		return fmt.Errorf("failed to load prompt %s: %w", args.PromptID, err)
	}
	run, err := r.store.GetRun(ctx, args.RunID)
	if err != nil {
		return fmt.Errorf("failed to load run %s: %w", args.RunID, err)
	}
	if run.PromptID != prompt.ID {
		return fmt.Errorf("run %s does not belong to prompt %s: %w", args.RunID, args.PromptID, library.ErrNotFound)
	}

	run.Status = models.RunRunning
	run.Model = r.model
	if err := r.store.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("failed to mark run running: %w", err)
	}
	logger.Info().Str("model", r.model).Msg("prompt run started")

	completion, genErr := r.completer.Complete(ctx, prompt.SystemPrompt, prompt.FinalPrompt)
	done := r.now()
	run.CompletedAt = &done
	if genErr != nil {
		run.Status = models.RunFailed
		run.Error = genErr.Error()
	} else {
		run.Status = models.RunSucceeded
		run.Output = completion.Output
		run.Error = ""
	}
	if err := r.store.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record run result: %w", err)
	}

	if genErr != nil {
		logger.Warn().Err(genErr).Int("attempts", completion.Attempts).Msg("prompt run failed")
		return fmt.Errorf("%w: %v", ErrRunFailed, genErr)
	}
	logger.Info().Int("attempts", completion.Attempts).Dur("duration", completion.TotalDuration).Msg("prompt run succeeded")
	return nil
}

// RunPromptWorker handles prompt_run jobs
type RunPromptWorker struct {
	river.WorkerDefaults[RunPromptArgs]
	runner  *Runner
	timeout time.Duration
}

func (w *RunPromptWorker) Timeout(*river.Job[RunPromptArgs]) time.Duration {
	return w.timeout
}

// Work executes the run. Failures already recorded on the run and missing
// records are cancelled rather than retried.
func (w *RunPromptWorker) Work(ctx context.Context, job *river.Job[RunPromptArgs]) error {
	err := w.runner.Execute(ctx, job.Args)
	if errors.Is(err, ErrRunFailed) || errors.Is(err, library.ErrNotFound) {
		return river.JobCancel(err)
	}
	return err
}
