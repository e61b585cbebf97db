package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	persistlog "voxelfire.ai/internal/persistence/log"
	"voxelfire.ai/internal/persistence/snapshot"
	"voxelfire.ai/internal/sim/catalogs"
	"voxelfire.ai/internal/sim/tuning"
	"voxelfire.ai/internal/sim/world"
	"voxelfire.ai/internal/sim/world/logic/mapx"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "events":
			eventsCmd(os.Args[2:])
			return
		case "snapshot":
			snapshotCmd(os.Args[2:])
			return
		case "extinguish":
			extinguishCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

// listCmd prints every snapshot with its header, one world or all of them.
func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (optional)")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "worlds")
	worlds := []string{*worldID}
	if *worldID == "" {
		entries, err := os.ReadDir(base)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
		worlds = worlds[:0]
		for _, e := range entries {
			if e.IsDir() {
				worlds = append(worlds, e.Name())
			}
		}
	}

	for _, id := range worlds {
		rows, err := listSnapshots(filepath.Join(base, id))
		if err != nil {
			fmt.Fprintln(os.Stderr, "list", id+":", err)
			os.Exit(1)
		}
		for _, r := range rows {
			fmt.Println(r)
		}
	}
}

// listSnapshots formats one line per readable snapshot under worldDir in
// tick order. Files whose header cannot be read are reported inline.
func listSnapshots(worldDir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(worldDir, "snapshots", "*.snap.zst"))
	if err != nil {
		return nil, err
	}
	type row struct {
		tick uint64
		line string
	}
	var rows []row
	for _, p := range paths {
		h, err := snapshot.ReadHeader(p)
		if err != nil {
			rows = append(rows, row{tick: ^uint64(0), line: fmt.Sprintf("%s\terror=%v", p, err)})
			continue
		}
		rows = append(rows, row{tick: h.Tick, line: fmt.Sprintf("world=%s\ttick=%d\tversion=%d\t%s", h.WorldID, h.Tick, h.Version, p)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].tick < rows[j].tick })
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.line
	}
	return out, nil
}

// eventsCmd prints tick log entries as JSON lines.
func eventsCmd(args []string) {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id")
	sinceTick := fs.Uint64("since_tick", 0, "first tick to print (inclusive)")
	toTick := fs.Uint64("to_tick", 0, "last tick to print (inclusive, optional)")
	onlyFire := fs.Bool("only_fire", false, "skip ticks without ignitions or burnouts")
	aabb := fs.String("aabb", "", "only ignitions inside x1,y1,z1:x2,y2,z2 (optional)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*worldID) == "" {
		fmt.Fprintln(os.Stderr, "missing -world")
		os.Exit(2)
	}
	var (
		useBox   bool
		min, max [3]int
	)
	if strings.TrimSpace(*aabb) != "" {
		var err error
		min, max, err = parseAABB(*aabb)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad -aabb:", err)
			os.Exit(2)
		}
		useBox = true
	}

	files, err := filepath.Glob(filepath.Join(*dataDir, "worlds", *worldID, "events", "events-*.jsonl.zst"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	for _, path := range files {
		err := persistlog.ReadTicks(path, func(e world.TickLogEntry) error {
			if e.Tick < *sinceTick || (*toTick != 0 && e.Tick > *toTick) {
				return nil
			}
			if useBox {
				kept := e.Ignitions[:0]
				for _, ig := range e.Ignitions {
					if withinAABB(ig.Pos, min, max) {
						kept = append(kept, ig)
					}
				}
				e.Ignitions = kept
			}
			if *onlyFire && len(e.Ignitions) == 0 && len(e.BurnedOut) == 0 {
				return nil
			}
			printJSON(e)
			return nil
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "read events:", err)
			os.Exit(1)
		}
	}
}

func snapshotCmd(args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (used when -snapshot is empty)")
	snapPath := fs.String("snapshot", "", "snapshot path (optional; defaults to latest)")
	fires := fs.Bool("fires", false, "list burning cells")
	_ = fs.Parse(args)

	path := resolveSnapshot(*dataDir, *worldID, *snapPath)
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	printJSON(struct {
		Path            string            `json:"path"`
		Header          snapshot.Header   `json:"header"`
		Seed            int64             `json:"seed"`
		Height          int               `json:"height"`
		BoundaryR       int               `json:"boundary_r"`
		FireSpreadSteps int               `json:"fire_spread_steps"`
		FireBurnTicks   int               `json:"fire_burn_ticks"`
		GameRules       map[string]string `json:"game_rules"`
		PaletteDigest   string            `json:"palette_digest"`
		Chunks          int               `json:"chunks"`
		Fires           int               `json:"fires"`
	}{
		Path:            path,
		Header:          snap.Header,
		Seed:            snap.Seed,
		Height:          snap.Height,
		BoundaryR:       snap.BoundaryR,
		FireSpreadSteps: snap.FireSpreadSteps,
		FireBurnTicks:   snap.FireBurnTicks,
		GameRules:       mapx.MapValues(snap.GameRules, onOff),
		PaletteDigest:   snap.PaletteDigest,
		Chunks:          len(snap.Chunks),
		Fires:           len(snap.Fires),
	})
	if *fires {
		for _, f := range snap.Fires {
			printJSON(f)
		}
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// extinguishCmd writes a copy of a snapshot with every fire put out.
func extinguishCmd(args []string) {
	fs := flag.NewFlagSet("extinguish", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (used when -snapshot is empty)")
	snapPath := fs.String("snapshot", "", "snapshot path (optional; defaults to latest)")
	configDir := fs.String("configs", "./configs", "config directory")
	outPath := fs.String("out", "", "output snapshot path (optional)")
	_ = fs.Parse(args)

	path := resolveSnapshot(*dataDir, *worldID, *snapPath)
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	cats, err := catalogs.Resolve(catalogs.DirSource{Dir: *configDir}, catalogs.EmbeddedSource{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	w, err := world.ImportSnapshot(world.ConfigFromTuning(snap.Header.WorldID, snap.Seed, tuning.Defaults()), cats, snap)
	if err != nil {
		fmt.Fprintln(os.Stderr, "import snapshot:", err)
		os.Exit(1)
	}
	n := w.ExtinguishAll()

	out := strings.TrimSpace(*outPath)
	if out == "" {
		out = filepath.Join(filepath.Dir(path), fmt.Sprintf("%d.extinguished.snap.zst", snap.Header.Tick))
	}
	if err := snapshot.WriteSnapshot(out, w.ExportSnapshot()); err != nil {
		fmt.Fprintln(os.Stderr, "write snapshot:", err)
		os.Exit(1)
	}
	fmt.Printf("extinguish ok: snapshot=%s tick=%d fires=%d out=%s\n", filepath.Base(path), snap.Header.Tick, n, out)
}

func resolveSnapshot(dataDir, worldID, snapPath string) string {
	path := strings.TrimSpace(snapPath)
	if path != "" {
		return path
	}
	if strings.TrimSpace(worldID) == "" {
		fmt.Fprintln(os.Stderr, "missing -world or -snapshot")
		os.Exit(2)
	}
	path = snapshot.Latest(filepath.Join(dataDir, "worlds", worldID))
	if path == "" {
		fmt.Fprintln(os.Stderr, "no snapshot found; provide -snapshot or run firesim until it writes one")
		os.Exit(2)
	}
	return path
}

func withinAABB(pos [3]int, min, max [3]int) bool {
	return pos[0] >= min[0] && pos[0] <= max[0] &&
		pos[1] >= min[1] && pos[1] <= max[1] &&
		pos[2] >= min[2] && pos[2] <= max[2]
}

func parseAABB(s string) (min, max [3]int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return min, max, fmt.Errorf("expected x1,y1,z1:x2,y2,z2")
	}
	a, err := parseVec3(parts[0])
	if err != nil {
		return min, max, err
	}
	b, err := parseVec3(parts[1])
	if err != nil {
		return min, max, err
	}
	for i := 0; i < 3; i++ {
		if a[i] <= b[i] {
			min[i], max[i] = a[i], b[i]
		} else {
			min[i], max[i] = b[i], a[i]
		}
	}
	return min, max, nil
}

func parseVec3(s string) ([3]int, error) {
	var v [3]int
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("expected x,y,z")
	}
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return v, err
		}
		v[i] = n
	}
	return v, nil
}
