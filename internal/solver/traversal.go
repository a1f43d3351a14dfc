package solver

import (
	"time"

	"github.com/lox/liarsdice/internal/game"
)

// TraversalStats captures instrumentation for a single training iteration.
type TraversalStats struct {
	NodesVisited  int64
	TerminalNodes int64
	MaxDepth      int
	IterationTime time.Duration
}

// walk runs one full CFR pass below state and returns the counterfactual
// utility for the player to act. reach0 and reach1 are each player's
// probability of having played to this node under the current strategy
// profile. The walk is plain call/return recursion; depth is bounded by the
// bid ladder (at most totalDice*6 plies), because every bid strictly raises
// in a finite ordered space.
func (t *Trainer) walk(state *game.State, reach0, reach1 float64, depth int, stats *TraversalStats) float64 {
	stats.NodesVisited++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	player := state.Turn()
	actions := state.LegalActions()
	if len(actions) == 0 {
		// Unreachable: every reachable state offers a raise or a challenge.
		return 0
	}

	key := state.InfoSet()
	node, ok := t.nodes[key]
	if !ok {
		node = newNode(actions)
		t.nodes[key] = node
	}

	realization := reach0
	if player == 1 {
		realization = reach1
	}
	strategy := node.Strategy(realization)

	// Each action explores its own clone so sibling branches never observe
	// one another's mutations.
	util := make([]float64, len(actions))
	nodeUtil := 0.0
	for i, action := range actions {
		next := state.Clone()
		if next.Apply(action) {
			// The acting player just challenged; the challenger payoff is
			// already from their perspective, so no sign flip.
			stats.TerminalNodes++
			util[i] = next.ChallengerPayoff()
		} else if player == 0 {
			util[i] = -t.walk(next, reach0*strategy[i], reach1, depth+1, stats)
		} else {
			util[i] = -t.walk(next, reach0, reach1*strategy[i], depth+1, stats)
		}
		nodeUtil += strategy[i] * util[i]
	}

	// Counterfactual regret weights by the opponent's reach probability, not
	// the acting player's.
	opponentReach := reach1
	if player == 1 {
		opponentReach = reach0
	}
	for i := range actions {
		node.RegretSum[i] += opponentReach * (util[i] - nodeUtil)
	}

	return nodeUtil
}
