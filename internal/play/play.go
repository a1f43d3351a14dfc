// Package play runs an interactive hand of Liar's Dice against a trained
// bot. The human is player 0 and always sees only their own hand; the bot
// samples from a strategy pack and falls back to a uniform legal action for
// positions training never reached.
package play

import (
	"bufio"
	"fmt"
	"io"
	rand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/liarsdice/internal/game"
	"github.com/lox/liarsdice/internal/strategy"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)
	bidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	diceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	winStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	loseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Session wires a policy, an RNG and terminal I/O into playable hands.
type Session struct {
	policy *strategy.Policy
	rng    *rand.Rand
	in     *bufio.Scanner
	out    io.Writer
	logger *log.Logger
}

// NewSession builds a session. The reader supplies the human's choices, one
// per line; anything bot-related is sampled from the policy with rng.
func NewSession(policy *strategy.Policy, rng *rand.Rand, in io.Reader, out io.Writer, logger *log.Logger) *Session {
	return &Session{
		policy: policy,
		rng:    rng,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

// Play runs one complete hand with the given dice counts and reports the
// outcome to the terminal. It returns an error only on I/O problems or a
// corrupt strategy pack; quitting mid-hand is not an error.
func (s *Session) Play(dice0, dice1 int) error {
	state := game.NewState(s.rng, dice0, dice1)

	fmt.Fprintln(s.out, titleStyle.Render(" Liar's Dice "))
	fmt.Fprintf(s.out, "Your hand: %s. The bot holds %d dice.\n", diceStyle.Render(handString(state.Hand(0))), dice1)

	for {
		s.printStanding(state)

		var action game.Action
		var err error
		if state.Turn() == 0 {
			action, err = s.promptHuman(state)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "You play %s\n", bidStyle.Render(action.String()))
		} else {
			action, err = s.botAction(state)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Bot plays %s\n", bidStyle.Render(action.String()))
		}

		challenger := state.Turn()
		if terminal := state.Apply(action); terminal {
			s.printVerdict(state, challenger)
			return nil
		}
	}
}

func (s *Session) printStanding(state *game.State) {
	bidLabel := "None"
	if bid, ok := state.CurrentBid(); ok {
		bidLabel = bid.String()
	}
	history := state.History()
	labels := make([]string, len(history))
	for i, a := range history {
		labels[i] = a.String()
	}
	fmt.Fprintf(s.out, "\nCurrent bid: %s", bidStyle.Render(bidLabel))
	if len(labels) > 0 {
		fmt.Fprintf(s.out, "   history: %s", strings.Join(labels, " → "))
	}
	fmt.Fprintln(s.out)
}

func (s *Session) promptHuman(state *game.State) (game.Action, error) {
	actions := state.LegalActions()
	for i, a := range actions {
		fmt.Fprintf(s.out, "  %2d: %s\n", i, a)
	}

	for {
		fmt.Fprint(s.out, "Choose an action: ")
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return game.Action{}, fmt.Errorf("read input: %w", err)
			}
			return game.Action{}, io.ErrUnexpectedEOF
		}
		choice, err := strconv.Atoi(strings.TrimSpace(s.in.Text()))
		if err == nil && choice >= 0 && choice < len(actions) {
			return actions[choice], nil
		}
		fmt.Fprintln(s.out, "Invalid choice.")
	}
}

func (s *Session) botAction(state *game.State) (game.Action, error) {
	infoSet := state.InfoSet()
	action, known, err := s.policy.Sample(s.rng, infoSet)
	if err != nil {
		return game.Action{}, err
	}
	if known && legal(state, action) {
		return action, nil
	}
	if !known {
		s.logger.Warn("no trained entry for this position, playing uniformly", "info_set", infoSet)
	} else {
		s.logger.Warn("stored action is not legal here, playing uniformly", "info_set", infoSet, "action", action.String())
	}
	actions := state.LegalActions()
	return actions[s.rng.IntN(len(actions))], nil
}

func (s *Session) printVerdict(state *game.State, challenger int) {
	payoff := state.ChallengerPayoff()

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, titleStyle.Render(" Game over "))
	fmt.Fprintf(s.out, "Your hand: %s\n", diceStyle.Render(handString(state.Hand(0))))
	fmt.Fprintf(s.out, "Bot hand:  %s\n", diceStyle.Render(handString(state.Hand(1))))

	humanWon := (challenger == 0) == (payoff > 0)
	switch {
	case challenger == 0 && payoff > 0:
		fmt.Fprintln(s.out, winStyle.Render("You challenged and won: the bot was lying."))
	case challenger == 0:
		fmt.Fprintln(s.out, loseStyle.Render("You challenged and lost: the bid was good."))
	case payoff > 0:
		fmt.Fprintln(s.out, loseStyle.Render("The bot challenged and won: you were caught."))
	default:
		fmt.Fprintln(s.out, winStyle.Render("The bot challenged and lost: your bid was good."))
	}
	s.logger.Debug("hand finished", "challenger", challenger, "human_won", humanWon)
}

func legal(state *game.State, action game.Action) bool {
	for _, a := range state.LegalActions() {
		if a == action {
			return true
		}
	}
	return false
}

func handString(hand []int) string {
	parts := make([]string, len(hand))
	for i, d := range hand {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}
