package solver

import (
	"slices"

	"github.com/lox/liarsdice/internal/game"
)

// Node accumulates regrets and average-strategy mass for one information set.
// It records the legal action list it was created with, so exporting the
// final table never has to re-derive actions from the info-set key. Action
// sets depend only on the standing bid and the total dice count, so the list
// is stable across every visit to the same key.
type Node struct {
	Actions     []game.Action
	RegretSum   []float64
	StrategySum []float64
}

func newNode(actions []game.Action) *Node {
	return &Node{
		Actions:     slices.Clone(actions),
		RegretSum:   make([]float64, len(actions)),
		StrategySum: make([]float64, len(actions)),
	}
}

// Strategy returns the current regret-matching distribution: positive
// cumulative regrets normalised to sum 1, or uniform when no positive regret
// signal exists yet. As a side effect it accrues realizationWeight worth of
// the returned distribution into StrategySum; that accrual is what the
// average strategy converges on, so it is part of the contract rather than
// an optimisation.
func (n *Node) Strategy(realizationWeight float64) []float64 {
	strat := make([]float64, len(n.RegretSum))
	total := 0.0
	for i, r := range n.RegretSum {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total > 0 {
		for i := range strat {
			strat[i] /= total
		}
	} else {
		uniform := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = uniform
		}
	}
	for i, p := range strat {
		n.StrategySum[i] += realizationWeight * p
	}
	return strat
}

// AverageStrategy returns the normalised long-run strategy, falling back to
// uniform when the node has accumulated no mass. Unlike the per-iteration
// Strategy it converges toward a Nash equilibrium as training progresses.
func (n *Node) AverageStrategy() []float64 {
	avg := make([]float64, len(n.StrategySum))
	total := 0.0
	for _, s := range n.StrategySum {
		total += s
	}
	if total <= 0 {
		uniform := 1.0 / float64(len(avg))
		for i := range avg {
			avg[i] = uniform
		}
		return avg
	}
	for i, s := range n.StrategySum {
		avg[i] = s / total
	}
	return avg
}
