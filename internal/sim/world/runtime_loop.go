package world

import (
	"context"
	"time"

	snapv1 "voxelfire.ai/internal/persistence/snapshot"
)

type RunOptions struct {
	// Ticks stops the loop after this many ticks; 0 runs until ctx is done.
	Ticks uint64
	// Paced sleeps between ticks at TickRateHz; otherwise ticks run back to back.
	Paced bool

	OnTick func(TickLogEntry) error
	// OnSnapshot receives a snapshot every SnapshotEveryTicks ticks.
	OnSnapshot func(snapv1.SnapshotV1) error
}

func (w *World) Run(ctx context.Context, opts RunOptions) error {
	var tickC <-chan time.Time
	if opts.Paced {
		ticker := time.NewTicker(time.Second / time.Duration(w.cfg.TickRateHz))
		defer ticker.Stop()
		tickC = ticker.C
	}

	for n := uint64(0); opts.Ticks == 0 || n < opts.Ticks; n++ {
		if tickC != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tickC:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		entry := w.Step()
		if opts.OnTick != nil {
			if err := opts.OnTick(entry); err != nil {
				return err
			}
		}
		if opts.OnSnapshot != nil && w.cfg.SnapshotEveryTicks > 0 && w.tick%uint64(w.cfg.SnapshotEveryTicks) == 0 {
			if err := opts.OnSnapshot(w.ExportSnapshot()); err != nil {
				return err
			}
		}
	}
	return nil
}
