// Command ratsim runs the rat-walk simulation described in §6: load a
// graph and an initial rat-position file, run the configured discipline
// for the configured number of steps, and print node-count snapshots to
// standard output.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ratsim/internal/config"
	"ratsim/internal/engine"
	"ratsim/internal/ioformat"
	"ratsim/internal/logging"
	"ratsim/internal/simerr"
	"ratsim/internal/snapshot"
	"ratsim/internal/transport"
	"ratsim/internal/weight"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Default()
	var configPath string

	cmd := &cobra.Command{
		Use:   "ratsim -g GFILE -r RFILE [-n STEPS] [-s SEED] [-u (r|b|s)] [-q] [-i INT]",
		Short: "Simulate weighted random walks of agents on a lattice graph",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				fileCfg, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				applyUnsetFlags(cmd, cfg, fileCfg)
			}
			envCfg := *cfg
			config.ApplyEnvOverrides(&envCfg)
			applyUnsetFlags(cmd, cfg, &envCfg)
			if cfg.GraphPath == "" {
				return &simerr.BadInvocationError{Reason: "need graph file (-g)"}
			}
			if cfg.RatPath == "" {
				return &simerr.BadInvocationError{Reason: "need initial rat position file (-r)"}
			}
			if err := cfg.Validate(); err != nil {
				return &simerr.BadInvocationError{Reason: err.Error()}
			}
			return runSimulation(cfg, stdout, stderr)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.GraphPath, "gfile", "g", "", "Graph file")
	flags.StringVarP(&cfg.RatPath, "rfile", "r", "", "Initial rat position file")
	flags.IntVarP(&cfg.Steps, "steps", "n", cfg.Steps, "Number of simulation steps")
	flags.Uint64VarP(&cfg.Seed, "seed", "s", cfg.Seed, "Initial RNG seed")
	flags.StringVarP(&cfg.Discipline, "update", "u", cfg.Discipline,
		"Update mode:\n"+
			"s: Synchronous.  Compute all new states and then update all\n"+
			"r: Rat order.    Compute update each rat state in sequence\n"+
			"b: Batched.      Repeatedly compute states for small batches of rats and then update")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "Operate in quiet mode. Do not generate simulation results")
	flags.IntVarP(&cfg.Interval, "interval", "i", cfg.Interval, "Display update interval")
	flags.StringVarP(&configPath, "config", "c", "", "Optional YAML config file supplying defaults")
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		if !isKnownRuntimeFailure(err) {
			// Unknown flags, missing -g/-r, and unknown discipline
			// characters all print usage before exiting 1 (§6).
			cmd.SetOut(stderr)
			cmd.Usage()
		}
		return 1
	}
	return 0
}

// isKnownRuntimeFailure reports whether err is one of the simerr types that
// represents a failure after the invocation itself was well-formed (a bad
// file, a malformed file, a collective failure) — those get a message but
// not a usage dump.
func isKnownRuntimeFailure(err error) bool {
	var fileOpen *simerr.FileOpenError
	var badGraph *simerr.BadGraphFileError
	var badRat *simerr.BadRatFileError
	var sizeMismatch *simerr.SizeMismatchError
	var allocFailure *simerr.AllocationFailureError
	var collective *simerr.CollectiveFailureError
	return errors.As(err, &fileOpen) ||
		errors.As(err, &badGraph) ||
		errors.As(err, &badRat) ||
		errors.As(err, &sizeMismatch) ||
		errors.As(err, &allocFailure) ||
		errors.As(err, &collective)
}

// applyUnsetFlags copies fields from a lower-precedence source (the config
// file, then the environment) into cfg, but only for flags the user did not
// pass explicitly, preserving "flags > environment > file" precedence
// (§11.2).
func applyUnsetFlags(cmd *cobra.Command, cfg, fileCfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("gfile") {
		cfg.GraphPath = fileCfg.GraphPath
	}
	if !flags.Changed("rfile") {
		cfg.RatPath = fileCfg.RatPath
	}
	if !flags.Changed("steps") {
		cfg.Steps = fileCfg.Steps
	}
	if !flags.Changed("seed") {
		cfg.Seed = fileCfg.Seed
	}
	if !flags.Changed("update") {
		cfg.Discipline = fileCfg.Discipline
	}
	if !flags.Changed("quiet") {
		cfg.Quiet = fileCfg.Quiet
	}
	if !flags.Changed("interval") {
		cfg.Interval = fileCfg.Interval
	}
	if fileCfg.LoggingLevel != "" {
		cfg.LoggingLevel = fileCfg.LoggingLevel
	}
}

func runSimulation(cfg *config.Config, stdout, stderr io.Writer) error {
	log := logging.New(cfg.LoggingLevel, stderr)

	gfile, err := os.Open(cfg.GraphPath)
	if err != nil {
		return &simerr.FileOpenError{Path: cfg.GraphPath, Err: err}
	}
	defer gfile.Close()
	g, err := ioformat.ReadGraph(gfile)
	if err != nil {
		return err
	}
	log.Info("loaded graph", "nnode", g.NNode, "nedge", g.NEdge)

	rfile, err := os.Open(cfg.RatPath)
	if err != nil {
		return &simerr.FileOpenError{Path: cfg.RatPath, Err: err}
	}
	defer rfile.Close()
	pop, err := ioformat.ReadRatPositions(rfile, g.NNode, cfg.Seed)
	if err != nil {
		return err
	}
	log.Info("loaded rats", "nrat", pop.NRat)

	disc, err := engine.ParseDiscipline(strings.ToLower(cfg.Discipline)[0])
	if err != nil {
		return err
	}

	tbl, err := weight.New(pop.NRat, pop.LoadFactor(), weight.Default())
	if err != nil {
		return err
	}

	var snap *snapshot.Writer
	if !cfg.Quiet {
		snap = snapshot.New(stdout)
	}

	sim := engine.NewSimulator(g, pop, tbl, disc,
		[]transport.Transport{transport.NewLocal()}, snap, cfg.Interval, log)

	return sim.Run(context.Background(), cfg.Steps)
}
