package worker

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/normregion/internal/model"
)

// Evaluator evaluates a single scenario
type Evaluator interface {
	Evaluate(ctx context.Context, in model.Input) (*model.Evaluation, error)
}

// EvalJob evaluates one scenario of a batch
type EvalJob struct {
	Index     int
	Input     model.Input
	Evaluator Evaluator
}

// Execute executes the evaluation job
func (j *EvalJob) Execute(ctx context.Context) Result {
	eval, err := j.Evaluator.Evaluate(ctx, j.Input)
	return &EvalResult{
		Index:      j.Index,
		Name:       j.Input.Name,
		Evaluation: eval,
		Error:      err,
	}
}

// EvalResult represents the result of an evaluation job
type EvalResult struct {
	Index      int
	Name       string
	Evaluation *model.Evaluation
	Error      error
}

// GetError returns the error from the evaluation result
func (r *EvalResult) GetError() error {
	return r.Error
}

// ErrNotEvaluated marks scenarios the batch stopped before evaluating
var ErrNotEvaluated = errors.New("scenario was not evaluated")

// ScenarioFile is the on-disk batch format
type ScenarioFile struct {
	Scenarios []model.Input `yaml:"scenarios"`
}

// BatchProcessor evaluates many scenarios concurrently
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(evaluator Evaluator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
	}
}

// ProcessInputs evaluates inputs concurrently and returns one result per
// input, in input order. Scenarios cut off by ctx carry ErrNotEvaluated.
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []model.Input) []*EvalResult {
	if len(inputs) == 0 {
		return []*EvalResult{}
	}

	jobs := make([]Job, len(inputs))
	for i, in := range inputs {
		jobs[i] = &EvalJob{
			Index:     i,
			Input:     in,
			Evaluator: b.evaluator,
		}
	}

	results := NewPool(ctx, b.concurrency).Run(jobs)

	evalResults := make([]*EvalResult, len(inputs))
	for _, result := range results {
		r := result.(*EvalResult)
		evalResults[r.Index] = r
	}
	for i, r := range evalResults {
		if r != nil {
			continue
		}
		err := ErrNotEvaluated
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ErrNotEvaluated, ctxErr)
		}
		evalResults[i] = &EvalResult{Index: i, Name: inputs[i].Name, Error: err}
	}

	return evalResults
}

// ProcessFile reads scenarios from a YAML file and evaluates them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*EvalResult, error) {
	inputs, err := ReadScenariosFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}

	return b.ProcessInputs(ctx, inputs), nil
}

// ReadScenariosFromFile loads a scenario file. Unnamed scenarios are
// named after their position.
func ReadScenariosFromFile(filePath string) ([]model.Input, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	for i := range file.Scenarios {
		if file.Scenarios[i].Name == "" {
			file.Scenarios[i].Name = fmt.Sprintf("scenario-%d", i+1)
		}
	}

	return file.Scenarios, nil
}
