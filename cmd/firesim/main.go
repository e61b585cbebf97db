package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"voxelfire.ai/internal/logging"
	"voxelfire.ai/internal/persistence/indexdb"
	persistlog "voxelfire.ai/internal/persistence/log"
	"voxelfire.ai/internal/persistence/snapshot"
	"voxelfire.ai/internal/sim/catalogs"
	"voxelfire.ai/internal/sim/tuning"
	"voxelfire.ai/internal/sim/world"
	"voxelfire.ai/internal/sim/world/logic/grid"
)

type options struct {
	worldID    string
	seed       int64
	configDir  string
	dataDir    string
	tuningPath string
	disableDB  bool

	ticks  uint64
	paced  bool
	ignite string

	snapPath   string
	loadLatest bool

	logLevel   string
	logConsole bool
}

func main() {
	var o options
	flag.StringVar(&o.worldID, "world", "world_1", "world id")
	flag.Int64Var(&o.seed, "seed", 1337, "world seed (used only when starting a fresh world)")
	flag.StringVar(&o.configDir, "configs", "./configs", "config directory")
	flag.StringVar(&o.dataDir, "data", "./data", "runtime data directory")
	flag.StringVar(&o.tuningPath, "tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
	flag.BoolVar(&o.disableDB, "disable_db", false, "disable the sqlite index")

	flag.Uint64Var(&o.ticks, "ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	flag.BoolVar(&o.paced, "paced", false, "run at tick_rate_hz instead of as fast as possible")
	flag.StringVar(&o.ignite, "ignite", "", "cells to set on fire in a fresh world: x,y,z or x,z (surface) separated by ';'")

	flag.StringVar(&o.snapPath, "snapshot", "", "path to snapshot to load (optional)")
	flag.BoolVar(&o.loadLatest, "load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")

	flag.StringVar(&o.logLevel, "log_level", "info", "debug, info, warn or error")
	flag.BoolVar(&o.logConsole, "log_console", false, "human readable logs instead of JSON lines")
	flag.Parse()

	logger := logging.New("firesim", logging.Options{Level: o.logLevel, Console: o.logConsole})

	ctx, cancel := signalContext()
	defer cancel()

	if err := run(ctx, o, logger); err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("firesim")
	}
}

// run owns every resource it opens and closes them before returning, so the
// index queue and tick log are flushed on error paths too.
func run(ctx context.Context, o options, logger zerolog.Logger) error {
	cats, err := catalogs.Resolve(catalogs.DirSource{Dir: o.configDir}, catalogs.EmbeddedSource{})
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}

	worldDir := filepath.Join(o.dataDir, "worlds", o.worldID)
	if err := os.MkdirAll(worldDir, 0o755); err != nil {
		return fmt.Errorf("create world dir: %w", err)
	}

	tp := strings.TrimSpace(o.tuningPath)
	if tp == "" {
		tp = filepath.Join(o.configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load tuning: %w", err)
		}
		logger.Warn().Str("path", tp).Msg("tuning not found; using defaults")
		tune = tuning.Defaults()
	}

	var idx *indexdb.SQLiteIndex
	if !o.disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(worldDir, "index", "world.sqlite"))
		if err != nil {
			return fmt.Errorf("open index: %w", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(cats, tune); err != nil {
			logger.Warn().Err(err).Msg("index: upsert catalogs")
		}
	}

	snapshotToLoad := strings.TrimSpace(o.snapPath)
	if snapshotToLoad == "" && o.loadLatest {
		snapshotToLoad = snapshot.Latest(worldDir)
	}

	wlog := logging.New("world", logging.Options{Level: o.logLevel, Console: o.logConsole}).With().Str("world", o.worldID).Logger()
	cfg := world.ConfigFromTuning(o.worldID, o.seed, tune)

	var w *world.World
	fresh := snapshotToLoad == ""
	if !fresh {
		snap, err := snapshot.ReadSnapshot(snapshotToLoad)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		if snap.Header.WorldID != "" && snap.Header.WorldID != o.worldID {
			return fmt.Errorf("snapshot world id %q does not match -world %q", snap.Header.WorldID, o.worldID)
		}
		w, err = world.ImportSnapshot(cfg, cats, snap, world.WithLogger(wlog))
		if err != nil {
			return fmt.Errorf("import snapshot: %w", err)
		}
		logger.Info().Str("snapshot", filepath.Base(snapshotToLoad)).Uint64("tick", w.CurrentTick()).Msg("resumed")
	} else {
		w, err = world.New(cfg, cats, world.WithLogger(wlog))
		if err != nil {
			return fmt.Errorf("world: %w", err)
		}
		cells, err := parseIgnite(w, o.ignite)
		if err != nil {
			return fmt.Errorf("bad -ignite: %w", err)
		}
		for _, p := range cells {
			if err := w.IgniteAt(p); err != nil {
				return fmt.Errorf("ignite: %w", err)
			}
		}
		logger.Info().Int("fires", len(cells)).Msg("fresh world")
	}

	tickLog := persistlog.NewTickLogger(worldDir)
	defer tickLog.Close()

	writeSnapshot := func(snap snapshot.SnapshotV1) error {
		path := snapshot.Path(worldDir, snap.Header.Tick)
		if err := snapshot.WriteSnapshot(path, snap); err != nil {
			// A failed snapshot does not stop the simulation.
			logger.Error().Err(err).Str("path", path).Msg("snapshot write")
			return nil
		}
		idx.RecordSnapshot(path, snap)
		logger.Info().Uint64("tick", snap.Header.Tick).Int("fires", len(snap.Fires)).Int("chunks", len(snap.Chunks)).Msg("snapshot written")
		return nil
	}
	if fresh {
		// Replays need a starting point that includes the initial fires.
		_ = writeSnapshot(w.ExportSnapshot())
	}

	err = w.Run(ctx, world.RunOptions{
		Ticks: o.ticks,
		Paced: o.paced,
		OnTick: func(e world.TickLogEntry) error {
			if err := tickLog.WriteTick(e); err != nil {
				return fmt.Errorf("tick log: %w", err)
			}
			return idx.WriteTick(e)
		},
		OnSnapshot: writeSnapshot,
	})
	_ = writeSnapshot(w.ExportSnapshot())
	logStats(logger, w, idx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("world stopped: %w", err)
	}
	return nil
}

func logStats(logger zerolog.Logger, w *world.World, idx *indexdb.SQLiteIndex) {
	st := idx.Stats()
	logger.Info().
		Uint64("tick", w.CurrentTick()).
		Int("fires", len(w.FireCells())).
		Str("digest", w.StateDigest()).
		Uint64("index_drop_ticks", st.DropTickTotal).
		Msg("stopped")
}

// parseIgnite reads "x,y,z;x,z;..." where a two-value cell means the surface
// of that column.
func parseIgnite(w *world.World, s string) ([]grid.Pos, error) {
	var out []grid.Pos
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ",")
		nums := make([]int, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("%q: %w", part, err)
			}
			nums[i] = n
		}
		switch len(nums) {
		case 2:
			p, ok := w.SurfaceAt(nums[0], nums[1])
			if !ok {
				return nil, fmt.Errorf("%q: no surface in column", part)
			}
			out = append(out, p)
		case 3:
			out = append(out, grid.Pos{X: int32(nums[0]), Y: int32(nums[1]), Z: int32(nums[2])})
		default:
			return nil, fmt.Errorf("%q: expected x,z or x,y,z", part)
		}
	}
	return out, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
