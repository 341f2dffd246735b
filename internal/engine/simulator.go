package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ratsim/internal/graph"
	"ratsim/internal/population"
	"ratsim/internal/snapshot"
	"ratsim/internal/transport"
	"ratsim/internal/weight"
)

// Simulator is the per-step loop described in §4.7: an initial snapshot
// (if enabled), count steps each followed by a conditional snapshot, then
// a terminal marker. Every run is tagged with a RunID so its log records
// can be told apart from a concurrently running Simulator's.
type Simulator struct {
	Graph      *graph.Graph
	Pop        *population.Population
	Table      *weight.Table
	Discipline Discipline
	Transports []transport.Transport

	// Snapshot is nil in quiet mode (-q): no STEP/END/DONE output at all.
	Snapshot *snapshot.Writer
	Interval int

	Logger *slog.Logger
	RunID  uuid.UUID
}

// NewSimulator builds a Simulator with a fresh RunID.
func NewSimulator(g *graph.Graph, pop *population.Population, tbl *weight.Table, disc Discipline, transports []transport.Transport, snap *snapshot.Writer, interval int, logger *slog.Logger) *Simulator {
	if interval < 1 {
		interval = 1
	}
	return &Simulator{
		Graph:      g,
		Pop:        pop,
		Table:      tbl,
		Discipline: disc,
		Transports: transports,
		Snapshot:   snap,
		Interval:   interval,
		Logger:     logger,
		RunID:      uuid.New(),
	}
}

// Run advances the simulation for the given number of steps.
func (sim *Simulator) Run(ctx context.Context, steps int) error {
	start := time.Now()
	log := sim.Logger.With("run_id", sim.RunID.String())
	log.Info("starting run",
		"steps", steps,
		"discipline", sim.Discipline.String(),
		"nrat", sim.Pop.NRat,
		"nnode", sim.Graph.NNode,
		"workers", len(sim.Transports),
	)

	if sim.Snapshot != nil {
		if err := sim.emit(); err != nil {
			return err
		}
	}

	for step := 0; step < steps; step++ {
		s := &Step{
			Graph:      sim.Graph,
			Pop:        sim.Pop,
			Table:      sim.Table,
			Discipline: sim.Discipline,
			Transports: sim.Transports,
		}
		if err := s.Run(ctx); err != nil {
			log.Error("step failed", "step", step, "error", err)
			return err
		}

		due := (step+1)%sim.Interval == 0 || step == steps-1
		if due && sim.Snapshot != nil {
			if err := sim.emit(); err != nil {
				return err
			}
		}
	}

	if sim.Snapshot != nil {
		if err := sim.Snapshot.Done(); err != nil {
			return err
		}
	}

	log.Info("run finished", "elapsed", time.Since(start).String(), "steps", steps)
	return nil
}

func (sim *Simulator) emit() error {
	return sim.Snapshot.Emit(sim.Pop.NRat, sim.Pop.Count)
}
