package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	charmlog "github.com/charmbracelet/log"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lox/liarsdice/internal/batch"
	"github.com/lox/liarsdice/internal/play"
	"github.com/lox/liarsdice/internal/randutil"
	"github.com/lox/liarsdice/internal/solver"
	"github.com/lox/liarsdice/internal/strategy"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Train      TrainCmd      `cmd:"" help:"train a strategy for one dice configuration"`
	TrainBatch TrainBatchCmd `cmd:"" name:"train-batch" help:"train every configuration up to a dice count, in parallel"`
	Play       PlayCmd       `cmd:"" help:"play a hand against a trained bot"`
}

type TrainCmd struct {
	P0 int `arg:"" help:"player 0 dice count"`
	P1 int `arg:"" help:"player 1 dice count"`

	Iterations     int    `help:"number of CFR iterations" default:"100000"`
	Seed           int64  `help:"random seed; 0 uses a time seed" default:"0"`
	Out            string `help:"path to write the strategy pack (defaults to strategy_<p0>v<p1>.json)"`
	CheckpointPath string `help:"path to write periodic checkpoints"`
	CheckpointMins int    `help:"checkpoint interval in minutes (0 disables)" default:"0"`
	ResumeFrom     string `help:"resume training from a checkpoint file"`
}

type TrainBatchCmd struct {
	MaxDice    int    `help:"train every configuration up to this many dice per player" default:"3"`
	Iterations int    `help:"number of CFR iterations per configuration" default:"100000"`
	Config     string `help:"HCL batch file overriding the flag-driven cross product"`
	Parallel   int    `help:"maximum concurrent runs; 0 means one per CPU" default:"0"`
	OutDir     string `help:"directory to write strategy packs into" default:"."`
}

type PlayCmd struct {
	P0 int `arg:"" help:"your dice count"`
	P1 int `arg:"" help:"bot dice count"`

	StrategyDir string `help:"directory holding strategy packs" default:"."`
	Seed        int64  `help:"random seed; 0 uses a time seed" default:"0"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("liarsdice"),
		kong.Description("Liar's Dice CFR trainer and bot"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	if err := ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

// signalContext cancels on SIGINT/SIGTERM so a long training run can stop
// cleanly between iterations.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (cmd *TrainCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	cfg := solver.Config{
		DiceP0:          cmd.P0,
		DiceP1:          cmd.P1,
		Iterations:      cmd.Iterations,
		Seed:            cmd.Seed,
		CheckpointPath:  cmd.CheckpointPath,
		CheckpointEvery: time.Duration(cmd.CheckpointMins) * time.Minute,
	}

	var trainer *solver.Trainer
	var err error
	if cmd.ResumeFrom != "" {
		trainer, err = solver.LoadFromCheckpoint(cmd.ResumeFrom)
		if err != nil {
			return fmt.Errorf("load checkpoint: %w", err)
		}
		if err := trainer.SetIterations(cmd.Iterations); err != nil {
			return err
		}
		log.Info().
			Str("checkpoint", cmd.ResumeFrom).
			Int("iteration", trainer.Iteration()).
			Msg("resuming training")
	} else {
		trainer, err = solver.New(cfg)
		if err != nil {
			return err
		}
	}

	log.Info().
		Int("p0", cmd.P0).
		Int("p1", cmd.P1).
		Int("iterations", cmd.Iterations).
		Msg("starting training")
	start := time.Now()

	if err := trainer.Run(ctx, func(p solver.Progress) {
		log.Info().
			Int("iteration", p.Iteration).
			Int("info_sets", p.InfoSets).
			Int64("nodes", p.Stats.NodesVisited).
			Int("max_depth", p.Stats.MaxDepth).
			Msg("training progress")
	}); err != nil {
		return err
	}

	out := cmd.Out
	if out == "" {
		out = strategy.Filename(cmd.P0, cmd.P1)
	}
	table := trainer.Table()
	pack := strategy.NewPack(cmd.P0, cmd.P1, trainer.Iteration(), trainer.Seed(), table)
	if err := pack.Save(out); err != nil {
		return err
	}

	log.Info().
		Str("path", out).
		Int("info_sets", len(table)).
		Dur("elapsed", time.Since(start)).
		Msg("training complete")
	return nil
}

func (cmd *TrainBatchCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	var runs []batch.Run
	if cmd.Config != "" {
		cfg, err := batch.LoadConfig(cmd.Config)
		if err != nil {
			return err
		}
		runs = cfg.Runs
	} else {
		if cmd.MaxDice < 1 {
			return fmt.Errorf("max dice must be >= 1")
		}
		runs = batch.CrossProduct(cmd.MaxDice, cmd.Iterations)
	}

	return batch.Train(ctx, runs, batch.Options{
		OutDir:   cmd.OutDir,
		Parallel: cmd.Parallel,
		Logger:   log.Logger,
	})
}

func (cmd *PlayCmd) Run() error {
	path := filepath.Join(cmd.StrategyDir, strategy.Filename(cmd.P0, cmd.P1))
	pack, err := strategy.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no trained strategy for %dv%d at %s; run `liarsdice train %d %d` first", cmd.P0, cmd.P1, path, cmd.P0, cmd.P1)
		}
		return err
	}
	if pack.DiceP0 != cmd.P0 || pack.DiceP1 != cmd.P1 {
		return fmt.Errorf("pack %s was trained for %dv%d, not %dv%d", path, pack.DiceP0, pack.DiceP1, cmd.P0, cmd.P1)
	}

	level := charmlog.WarnLevel
	if cli.Debug {
		level = charmlog.DebugLevel
	}
	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{Level: level})

	session := play.NewSession(
		strategy.NewPolicy(pack),
		randutil.New(randutil.Seed(cmd.Seed)),
		os.Stdin,
		os.Stdout,
		logger,
	)
	return session.Play(cmd.P0, cmd.P1)
}
