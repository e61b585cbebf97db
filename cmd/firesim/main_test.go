package main

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"voxelfire.ai/internal/logging"
	"voxelfire.ai/internal/persistence/snapshot"
)

func testOptions(t *testing.T) options {
	t.Helper()
	return options{
		worldID:    "w1",
		seed:       7,
		configDir:  "../../configs",
		dataDir:    t.TempDir(),
		ignite:     "0,0",
		loadLatest: true,
		logLevel:   "error",
	}
}

func countRows(t *testing.T, path, table string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestRun_FlushesIndexAndSnapshots(t *testing.T) {
	o := testOptions(t)
	o.ticks = 3
	if err := run(context.Background(), o, logging.Nop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	worldDir := filepath.Join(o.dataDir, "worlds", "w1")
	dbPath := filepath.Join(worldDir, "index", "world.sqlite")
	if n := countRows(t, dbPath, "ticks"); n != 3 {
		t.Fatalf("ticks=%d want 3", n)
	}
	if n := countRows(t, dbPath, "snapshots"); n != 2 {
		t.Fatalf("snapshots=%d want 2", n)
	}
	h, err := snapshot.ReadHeader(snapshot.Latest(worldDir))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Tick != 3 || h.WorldID != "w1" {
		t.Fatalf("latest header=%+v", h)
	}

	// A second run resumes from tick 3.
	o.ticks = 2
	o.ignite = ""
	if err := run(context.Background(), o, logging.Nop()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if n := countRows(t, dbPath, "ticks"); n != 5 {
		t.Fatalf("ticks after resume=%d want 5", n)
	}
}

func TestRun_ReturnsErrorsAfterIndexOpens(t *testing.T) {
	o := testOptions(t)
	o.ignite = "1,2,3,4"
	err := run(context.Background(), o, logging.Nop())
	if err == nil || !strings.Contains(err.Error(), "bad -ignite") {
		t.Fatalf("err=%v want bad -ignite", err)
	}
	// The index was closed by run, so its catalog rows are readable.
	dbPath := filepath.Join(o.dataDir, "worlds", "w1", "index", "world.sqlite")
	if n := countRows(t, dbPath, "catalogs"); n == 0 {
		t.Fatalf("catalog rows missing")
	}
}

func TestRun_RejectsForeignSnapshot(t *testing.T) {
	o := testOptions(t)
	o.disableDB = true
	o.snapPath = snapshot.Path(t.TempDir(), 1)
	if err := snapshot.WriteSnapshot(o.snapPath, snapshot.SnapshotV1{Header: snapshot.Header{Version: snapshot.Version, WorldID: "other", Tick: 1}}); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if err := run(context.Background(), o, logging.Nop()); err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Fatalf("err=%v want world id mismatch", err)
	}
}
