package batch

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Run describes one training configuration inside a batch.
type Run struct {
	Name       string `hcl:"name,label"`
	DiceP0     int    `hcl:"p0"`
	DiceP1     int    `hcl:"p1"`
	Iterations int    `hcl:"iterations,optional"`
	Seed       int64  `hcl:"seed,optional"`
}

// Defaults apply to runs that leave the matching field unset.
type Defaults struct {
	Iterations int `hcl:"iterations,optional"`
}

// Config is the parsed batch file.
//
//	defaults {
//	  iterations = 100000
//	}
//
//	run "2v1" {
//	  p0 = 2
//	  p1 = 1
//	}
type Config struct {
	Defaults *Defaults `hcl:"defaults,block"`
	Runs     []Run     `hcl:"run,block"`
}

// LoadConfig parses a batch file and applies defaults to every run.
func LoadConfig(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", path, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", path, diags.Error())
	}

	for i := range cfg.Runs {
		run := &cfg.Runs[i]
		if run.Iterations == 0 && cfg.Defaults != nil {
			run.Iterations = cfg.Defaults.Iterations
		}
		if err := validateRun(*run); err != nil {
			return nil, fmt.Errorf("run %q: %w", run.Name, err)
		}
	}
	if len(cfg.Runs) == 0 {
		return nil, fmt.Errorf("%s declares no runs", path)
	}
	return &cfg, nil
}

// CrossProduct enumerates every configuration up to maxDice dice per player,
// the flag-driven alternative to a batch file.
func CrossProduct(maxDice, iterations int) []Run {
	runs := make([]Run, 0, maxDice*maxDice)
	for p0 := 1; p0 <= maxDice; p0++ {
		for p1 := 1; p1 <= maxDice; p1++ {
			runs = append(runs, Run{
				Name:       fmt.Sprintf("%dv%d", p0, p1),
				DiceP0:     p0,
				DiceP1:     p1,
				Iterations: iterations,
			})
		}
	}
	return runs
}

func validateRun(run Run) error {
	if run.DiceP0 <= 0 || run.DiceP1 <= 0 {
		return fmt.Errorf("dice counts must be > 0")
	}
	if run.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0 (set it on the run or in defaults)")
	}
	return nil
}
