// Program normregion-examples prints the classic worked examples for the
// standard normal, one per relationship kind.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/normregion/internal/model"
	"github.com/ppiankov/normregion/internal/pipeline"
)

func region(limit float64, d model.Direction) *model.Region {
	return &model.Region{Limit: limit, Direction: d}
}

func main() {
	fmt.Println("=== Normal Region Worked Examples ===")
	fmt.Println()

	examples := []model.Input{
		{Name: "Lower half", StdDev: 1, Region1: model.Region{Limit: 0, Direction: model.AtMost}},
		{Name: "Two tails", StdDev: 1, Region1: model.Region{Limit: -1, Direction: model.AtMost}, Region2: region(1, model.AtLeast)},
		{Name: "Mean to one sigma", StdDev: 1, Region1: model.Region{Limit: 1, Direction: model.AtMost}, Region2: region(0, model.AtLeast)},
		{Name: "Nested lower regions", StdDev: 1, Region1: model.Region{Limit: 1, Direction: model.AtMost}, Region2: region(0, model.AtMost)},
		{Name: "Nested upper regions", StdDev: 1, Region1: model.Region{Limit: 1, Direction: model.AtLeast}, Region2: region(0, model.AtLeast)},
		{Name: "Touching at the mean", StdDev: 1, Region1: model.Region{Limit: 0, Direction: model.AtMost}, Region2: region(0, model.AtLeast)},
	}

	cfg := model.DefaultConfig()
	cfg.Output.Chart = false
	p := pipeline.NewPipeline(cfg)

	failed := false
	for _, in := range examples {
		fmt.Println(in.Name)
		fmt.Println(strings.Repeat("-", 60))

		eval, err := p.Evaluate(context.Background(), in)
		if err != nil {
			fmt.Printf("  ✗ %v\n\n", err)
			failed = true
			continue
		}

		for _, rr := range eval.Regions {
			fmt.Printf("  %s\n", p.Renderer().RegionLine(rr))
		}
		if eval.Outcome != nil {
			fmt.Printf("  %s (rule: %s)\n", p.Renderer().OutcomeLine(*eval.Outcome), eval.Outcome.Rule)
		}
		fmt.Println()
	}

	if failed {
		os.Exit(1)
	}
}
