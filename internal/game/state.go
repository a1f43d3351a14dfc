// Package game models one hand of two-player Liar's Dice as a finite
// extensive-form game: hidden dice hands, a strictly increasing bid ladder,
// and a terminal challenge that resolves the payoff.
package game

import (
	rand "math/rand/v2"
	"slices"
	"strconv"
	"strings"
)

// State is one hand in progress. Hands are rolled once at construction and
// never change; bids mutate the state in place, one per ply. The hand is
// logically over the moment a challenge is applied.
type State struct {
	diceCount [2]int
	hands     [2][]int
	bid       Action
	hasBid    bool
	history   []Action
	turn      int
}

// NewState rolls both hands uniformly over [1,DiceFaces] and sorts them
// ascending. No bid exists yet and player 0 acts first. Dice counts are
// assumed positive.
func NewState(rng *rand.Rand, dice0, dice1 int) *State {
	s := &State{diceCount: [2]int{dice0, dice1}}
	for p, n := range s.diceCount {
		hand := make([]int, n)
		for i := range hand {
			hand[i] = rng.IntN(DiceFaces) + 1
		}
		slices.Sort(hand)
		s.hands[p] = hand
	}
	return s
}

// NewStateWithHands builds a hand from fixed dice, for tests and tooling that
// need a deterministic deal. Hands are sorted ascending like a fresh roll.
func NewStateWithHands(hand0, hand1 []int) *State {
	s := &State{diceCount: [2]int{len(hand0), len(hand1)}}
	s.hands[0] = slices.Clone(hand0)
	s.hands[1] = slices.Clone(hand1)
	slices.Sort(s.hands[0])
	slices.Sort(s.hands[1])
	return s
}

// Turn returns the player (0 or 1) who acts next.
func (s *State) Turn() int { return s.turn }

// TotalDice returns the number of dice in play across both hands.
func (s *State) TotalDice() int { return s.diceCount[0] + s.diceCount[1] }

// DiceCount returns how many dice the given player holds.
func (s *State) DiceCount(player int) int { return s.diceCount[player] }

// Hand returns a copy of the given player's dice, sorted ascending.
func (s *State) Hand(player int) []int {
	return slices.Clone(s.hands[player])
}

// CurrentBid returns the standing bid, if any.
func (s *State) CurrentBid() (Action, bool) {
	return s.bid, s.hasBid
}

// History returns a copy of the bids made so far, in order. The terminal
// challenge is never part of the history.
func (s *State) History() []Action {
	return slices.Clone(s.history)
}

// LegalActions enumerates every action available to the player to act, in the
// canonical order persisted strategies rely on. Before any bid every
// (quantity, face) combination is open and challenging is not; after a bid
// the options are challenge first, then same-quantity face raises in
// increasing face, then quantity raises in increasing quantity then face.
func (s *State) LegalActions() []Action {
	if !s.hasBid {
		return OpeningActions(s.TotalDice())
	}
	return RaiseActions(s.bid, s.TotalDice())
}

// OpeningActions enumerates the bids available when no bid has been made:
// every quantity in [1,totalDice] with every face, quantity-major.
func OpeningActions(totalDice int) []Action {
	actions := make([]Action, 0, totalDice*DiceFaces)
	for q := 1; q <= totalDice; q++ {
		for f := 1; f <= DiceFaces; f++ {
			actions = append(actions, Action{Quantity: q, Face: f})
		}
	}
	return actions
}

// RaiseActions enumerates the actions available over a standing bid. Legal
// actions depend only on the bid and the total dice count, which is what lets
// the play loop and tooling rebuild them without a full hand.
func RaiseActions(bid Action, totalDice int) []Action {
	actions := []Action{Challenge}
	for f := bid.Face + 1; f <= DiceFaces; f++ {
		actions = append(actions, Action{Quantity: bid.Quantity, Face: f})
	}
	for q := bid.Quantity + 1; q <= totalDice; q++ {
		for f := 1; f <= DiceFaces; f++ {
			actions = append(actions, Action{Quantity: q, Face: f})
		}
	}
	return actions
}

// Apply plays one action and reports whether the hand is over. A challenge
// ends the hand without mutating anything else; a bid becomes the standing
// bid, joins the history and passes the turn. The action must come from
// LegalActions; this is not checked.
func (s *State) Apply(a Action) bool {
	if a.IsChallenge() {
		return true
	}
	s.bid = a
	s.hasBid = true
	s.history = append(s.history, a)
	s.turn = 1 - s.turn
	return false
}

// ChallengerPayoff resolves a challenged hand from the challenger's
// perspective: -1 when the standing bid holds (at least Quantity dice across
// both hands show Face, no wilds), +1 when it does not. Only meaningful right
// after Apply reported the hand over. Without a standing bid it returns 0;
// that path is unreachable because challenging is never legal before a bid.
func (s *State) ChallengerPayoff() float64 {
	if !s.hasBid {
		return 0
	}
	count := 0
	for p := range s.hands {
		for _, d := range s.hands[p] {
			if d == s.bid.Face {
				count++
			}
		}
	}
	if count >= s.bid.Quantity {
		return -1.0
	}
	return 1.0
}

// InfoSet returns the information-set key for the player to act:
// "<own hand digits>|<bid as q-f or None>|<bid count>", e.g. "1246|2-3|1".
// States with the same own hand, standing bid and bid count collapse to the
// same key; the opponent's hand and the exact move order stay hidden. The
// exact textual form is a persistence contract.
func (s *State) InfoSet() string {
	var b strings.Builder
	for _, d := range s.hands[s.turn] {
		b.WriteByte(byte('0' + d))
	}
	b.WriteByte('|')
	if s.hasBid {
		b.WriteString(s.bid.String())
	} else {
		b.WriteString("None")
	}
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(len(s.history)))
	return b.String()
}

// Clone deep-copies the hand so a caller can explore an action without the
// original, or sibling branches of a tree walk, observing the mutation.
func (s *State) Clone() *State {
	c := *s
	for p := range s.hands {
		c.hands[p] = slices.Clone(s.hands[p])
	}
	c.history = slices.Clone(s.history)
	return &c
}
