// Package tools provides the MCP tool handlers.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the mcp.Tool schema, and a Handle() that
// processes the request.
package tools

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ppiankov/normregion/internal/model"
)

// Evaluator computes an evaluation for one input
type Evaluator interface {
	Evaluate(ctx context.Context, in model.Input) (*model.Evaluation, error)
}

// ReportRenderer turns an evaluation into Markdown
type ReportRenderer interface {
	Markdown(eval *model.Evaluation) string
}

// EvaluateTool handles the evaluate_regions MCP tool.
type EvaluateTool struct {
	evaluator Evaluator
	renderer  ReportRenderer
}

// NewEvaluateTool creates an EvaluateTool with its dependencies.
func NewEvaluateTool(evaluator Evaluator, renderer ReportRenderer) *EvaluateTool {
	return &EvaluateTool{evaluator: evaluator, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *EvaluateTool) Definition() mcp.Tool {
	return mcp.NewTool("evaluate_regions",
		mcp.WithDescription(
			"Compute the probability mass of one or two half-line regions of a normal distribution. "+
				"A region is X <= limit or X >= limit. "+
				"With a second region, also report how the two relate: "+
				"total area of both (disjoint), area exclusive to one (same direction), "+
				"or area of overlap (intersecting).",
		),
		mcp.WithNumber("mean",
			mcp.Required(),
			mcp.Description("Mean of the distribution."),
		),
		mcp.WithNumber("std_dev",
			mcp.Required(),
			mcp.Description("Standard deviation of the distribution. Must be greater than zero."),
		),
		mcp.WithNumber("limit1",
			mcp.Required(),
			mcp.Description("Limit of the first region."),
		),
		mcp.WithString("direction1",
			mcp.Required(),
			mcp.Description("Direction of the first region: '<=' (at most) or '>=' (at least)."),
			mcp.Enum("<=", ">="),
		),
		mcp.WithNumber("limit2",
			mcp.Description("Limit of the second region. Setting it enables the second region."),
		),
		mcp.WithString("direction2",
			mcp.Description("Direction of the second region. Defaults to '>='."),
			mcp.Enum("<=", ">="),
		),
	)
}

// Handle processes the evaluate_regions tool call.
func (t *EvaluateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := inputFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	eval, err := t.evaluator.Evaluate(ctx, in)
	if err != nil {
		log.Printf("WARNING: evaluate_regions: %v", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	report := t.renderer.Markdown(eval)
	if eval.Outcome != nil && eval.Outcome.Err() != nil {
		return mcp.NewToolResultError(report), nil
	}

	return mcp.NewToolResultText(report), nil
}

// inputFromRequest validates the arguments and builds a model.Input
func inputFromRequest(req mcp.CallToolRequest) (model.Input, error) {
	var in model.Input
	args := req.GetArguments()

	mean, err := requireNumber(args, "mean")
	if err != nil {
		return in, err
	}
	stdDev, err := requireNumber(args, "std_dev")
	if err != nil {
		return in, err
	}
	limit1, err := requireNumber(args, "limit1")
	if err != nil {
		return in, err
	}

	dir1Raw, ok := args["direction1"].(string)
	if !ok || dir1Raw == "" {
		return in, fmt.Errorf("'direction1' is required: use '<=' or '>='")
	}
	dir1, err := model.ParseDirection(dir1Raw)
	if err != nil {
		return in, fmt.Errorf("'direction1': %w", err)
	}

	in = model.Input{
		Mean:    mean,
		StdDev:  stdDev,
		Region1: model.Region{Limit: limit1, Direction: dir1},
	}

	if v, present := args["limit2"]; !present || v == nil {
		return in, nil
	}
	limit2, err := requireNumber(args, "limit2")
	if err != nil {
		return in, err
	}

	dir2 := model.AtLeast
	if raw, ok := args["direction2"].(string); ok && raw != "" {
		dir2, err = model.ParseDirection(raw)
		if err != nil {
			return in, fmt.Errorf("'direction2': %w", err)
		}
	}
	in.Region2 = &model.Region{Limit: limit2, Direction: dir2}

	return in, nil
}

// requireNumber reads a numeric argument (JSON numbers arrive as float64)
func requireNumber(args map[string]any, key string) (float64, error) {
	raw, present := args[key]
	if !present {
		return 0, fmt.Errorf("'%s' is required", key)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("'%s' must be a number, got %T", key, raw)
	}
}
