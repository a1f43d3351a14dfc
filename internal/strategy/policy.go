package strategy

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/lox/liarsdice/internal/game"
)

// Policy is read-only access to a pack for choosing actions during play.
type Policy struct {
	pack *Pack
}

// NewPolicy wraps a loaded pack.
func NewPolicy(pack *Pack) *Policy {
	return &Policy{pack: pack}
}

// Weights returns the stored distribution for the info set, and whether the
// info set was seen during training.
func (p *Policy) Weights(infoSet string) (map[string]float64, bool) {
	probs, ok := p.pack.Strategies[infoSet]
	if !ok || len(probs) == 0 {
		return nil, false
	}
	return probs, true
}

// Sample draws an action for the info set in proportion to its stored
// probability. Stored distributions may sum to slightly under 1 because
// negligible actions are filtered at export; sampling renormalises over what
// remains. The boolean reports whether the info set was known; when it is
// not, the caller should fall back to a uniform choice over its legal
// actions.
func (p *Policy) Sample(rng *rand.Rand, infoSet string) (game.Action, bool, error) {
	probs, ok := p.Weights(infoSet)
	if !ok {
		return game.Action{}, false, nil
	}

	// Deterministic label order keeps sampling reproducible per seed.
	labels := make([]string, 0, len(probs))
	total := 0.0
	for label, weight := range probs {
		labels = append(labels, label)
		total += weight
	}
	sort.Strings(labels)

	target := rng.Float64() * total
	acc := 0.0
	chosen := labels[len(labels)-1]
	for _, label := range labels {
		acc += probs[label]
		if target < acc {
			chosen = label
			break
		}
	}

	action, err := game.ParseAction(chosen)
	if err != nil {
		return game.Action{}, true, fmt.Errorf("info set %q: %w", infoSet, err)
	}
	return action, true, nil
}
