package game

import (
	"fmt"
	"strconv"
	"strings"
)

// DiceFaces is the number of sides on every die.
const DiceFaces = 6

// Action is a single move in a hand: either a bid of Quantity dice showing
// Face, or a challenge of the standing bid. Challenges use a sentinel
// quantity/face of -1 so the whole action space stays one value type.
type Action struct {
	Quantity int
	Face     int
}

// Challenge disputes the standing bid and ends the hand.
var Challenge = Action{Quantity: -1, Face: -1}

// IsChallenge reports whether the action is the challenge sentinel.
func (a Action) IsChallenge() bool {
	return a == Challenge
}

// String renders the label used in persisted strategy tables: "Challenge" for
// the sentinel, "<quantity>-<face>" for bids. The exact form is a contract
// with persistence and must round-trip through ParseAction.
func (a Action) String() string {
	if a.IsChallenge() {
		return "Challenge"
	}
	return strconv.Itoa(a.Quantity) + "-" + strconv.Itoa(a.Face)
}

// ParseAction inverts Action.String.
func ParseAction(label string) (Action, error) {
	if label == "Challenge" {
		return Challenge, nil
	}
	qs, fs, ok := strings.Cut(label, "-")
	if !ok {
		return Action{}, fmt.Errorf("malformed action label %q", label)
	}
	quantity, err := strconv.Atoi(qs)
	if err != nil {
		return Action{}, fmt.Errorf("bad quantity in action label %q: %w", label, err)
	}
	face, err := strconv.Atoi(fs)
	if err != nil {
		return Action{}, fmt.Errorf("bad face in action label %q: %w", label, err)
	}
	if quantity < 1 || face < 1 || face > DiceFaces {
		return Action{}, fmt.Errorf("action label %q out of range", label)
	}
	return Action{Quantity: quantity, Face: face}, nil
}
