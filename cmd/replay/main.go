package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"voxelfire.ai/internal/logging"
	persistlog "voxelfire.ai/internal/persistence/log"
	"voxelfire.ai/internal/persistence/snapshot"
	"voxelfire.ai/internal/sim/catalogs"
	"voxelfire.ai/internal/sim/world"
)

var errDone = errors.New("done")

func main() {
	var (
		snapPath  = flag.String("snapshot", "", "path to .snap.zst")
		eventsDir = flag.String("events", "", "events dir containing events-*.jsonl.zst (optional)")
		configDir = flag.String("configs", "./configs", "config directory")
		fromTick  = flag.Uint64("from_tick", 0, "start verifying from tick (inclusive, optional)")
		toTick    = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
		logLevel  = flag.String("log_level", "warn", "debug, info, warn or error")
	)
	flag.Parse()

	logger := logging.New("replay", logging.Options{Level: *logLevel, Console: true, Out: os.Stderr})

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}
	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	fmt.Printf("snapshot v%d world=%s tick=%d seed=%d height=%d chunks=%d fires=%d\n",
		snap.Header.Version, snap.Header.WorldID, snap.Header.Tick, snap.Seed, snap.Height, len(snap.Chunks), len(snap.Fires))

	if *eventsDir == "" {
		return
	}

	cats, err := catalogs.Resolve(catalogs.DirSource{Dir: *configDir}, catalogs.EmbeddedSource{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	w, err := world.ImportSnapshot(world.WorldConfig{}, cats, snap, world.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, "import snapshot:", err)
		os.Exit(1)
	}

	startTick := w.CurrentTick()
	verifyFrom := *fromTick
	if verifyFrom == 0 {
		verifyFrom = startTick
	}

	files, err := filepath.Glob(filepath.Join(*eventsDir, "events-*.jsonl.zst"))
	if err != nil || len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", *eventsDir)
		os.Exit(1)
	}

	var checked uint64
	for _, path := range files {
		err := persistlog.ReadTicks(path, func(entry world.TickLogEntry) error {
			return replayTick(w, entry, startTick, verifyFrom, *toTick, &checked)
		})
		if errors.Is(err, errDone) {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "replay %s: %v\n", filepath.Base(path), err)
			os.Exit(1)
		}
	}
	fmt.Printf("replay ok: checked=%d ticks (from snapshot tick=%d)\n", checked, snap.Header.Tick)
}

func replayTick(w *world.World, entry world.TickLogEntry, startTick, verifyFrom, toTick uint64, checked *uint64) error {
	if entry.Tick < startTick {
		return nil
	}
	if toTick != 0 && entry.Tick > toTick {
		return errDone
	}
	if entry.Tick != w.CurrentTick() {
		return fmt.Errorf("tick mismatch: want=%d got=%d", w.CurrentTick(), entry.Tick)
	}
	got := w.Step()
	if got.Seed != entry.Seed {
		return fmt.Errorf("seed mismatch at tick %d: got=%d want=%d", entry.Tick, got.Seed, entry.Seed)
	}
	if entry.Tick >= verifyFrom {
		*checked++
		if got.Digest != entry.Digest {
			return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", entry.Tick, got.Digest, entry.Digest)
		}
	}
	return nil
}
