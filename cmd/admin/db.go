package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	sinceTick := fs.Uint64("since_tick", 0, "first tick (ticks, ignitions)")
	aabb := fs.String("aabb", "", "x1,y1,z1:x2,y2,z2 filter (ignitions)")
	chunk := fs.String("chunk", "", "cx,cz filter (features)")
	_ = fs.Parse(args)

	q := "snapshots"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}
	if *limit <= 0 {
		*limit = 20
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "worlds", *worldID, "index", "world.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	switch q {
	case "snapshots":
		rows, err := db.Query(`SELECT tick,path,seed,height,chunks,fires FROM snapshots ORDER BY tick DESC LIMIT ?`, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick   int64  `json:"tick"`
				Path   string `json:"path"`
				Seed   int64  `json:"seed"`
				Height int    `json:"height"`
				Chunks int    `json:"chunks"`
				Fires  int    `json:"fires"`
			}
			if err := rows.Scan(&r.Tick, &r.Path, &r.Seed, &r.Height, &r.Chunks, &r.Fires); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		checkRows(rows)

	case "ticks":
		rows, err := db.Query(`SELECT tick,seed,digest,origins,ignitions,burned_out,fires FROM ticks WHERE tick>=? ORDER BY tick LIMIT ?`, int64(*sinceTick), *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick      int64  `json:"tick"`
				Seed      int64  `json:"seed"`
				Digest    string `json:"digest"`
				Origins   int    `json:"origins"`
				Ignitions int    `json:"ignitions"`
				BurnedOut int    `json:"burned_out"`
				Fires     int    `json:"fires"`
			}
			if err := rows.Scan(&r.Tick, &r.Seed, &r.Digest, &r.Origins, &r.Ignitions, &r.BurnedOut, &r.Fires); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		checkRows(rows)

	case "ignitions":
		min := [3]int{-1 << 30, -1 << 30, -1 << 30}
		max := [3]int{1 << 30, 1 << 30, 1 << 30}
		if strings.TrimSpace(*aabb) != "" {
			min, max, err = parseAABB(*aabb)
			if err != nil {
				fmt.Fprintln(os.Stderr, "bad -aabb:", err)
				os.Exit(2)
			}
		}
		rows, err := db.Query(`SELECT tick,seq,x,y,z,from_x,from_y,from_z FROM ignitions
			WHERE tick>=? AND x BETWEEN ? AND ? AND y BETWEEN ? AND ? AND z BETWEEN ? AND ?
			ORDER BY tick,seq LIMIT ?`,
			int64(*sinceTick), min[0], max[0], min[1], max[1], min[2], max[2], *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick int64  `json:"tick"`
				Seq  int    `json:"seq"`
				Pos  [3]int `json:"pos"`
				From [3]int `json:"from"`
			}
			if err := rows.Scan(&r.Tick, &r.Seq, &r.Pos[0], &r.Pos[1], &r.Pos[2], &r.From[0], &r.From[1], &r.From[2]); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		checkRows(rows)

	case "features":
		where := ""
		qargs := []any{}
		if strings.TrimSpace(*chunk) != "" {
			var cx, cz int
			if _, err := fmt.Sscanf(*chunk, "%d,%d", &cx, &cz); err != nil {
				fmt.Fprintln(os.Stderr, "bad -chunk:", err)
				os.Exit(2)
			}
			where = "WHERE cx=? AND cz=?"
			qargs = append(qargs, cx, cz)
		}
		qargs = append(qargs, *limit)
		rows, err := db.Query(`SELECT cx,cz,tag,idx,name,seed,placed,x,y,z,tick FROM feature_seeds `+where+` ORDER BY cx,cz,tag,idx LIMIT ?`, qargs...)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				CX     int    `json:"cx"`
				CZ     int    `json:"cz"`
				Tag    int32  `json:"tag"`
				Index  int32  `json:"index"`
				Name   string `json:"name"`
				Seed   int64  `json:"seed"`
				Placed bool   `json:"placed"`
				Pos    [3]int `json:"pos"`
				Tick   int64  `json:"tick"`
			}
			if err := rows.Scan(&r.CX, &r.CZ, &r.Tag, &r.Index, &r.Name, &r.Seed, &r.Placed, &r.Pos[0], &r.Pos[1], &r.Pos[2], &r.Tick); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		checkRows(rows)

	case "catalogs":
		rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Name      string `json:"name"`
				Digest    string `json:"digest"`
				UpdatedAt string `json:"updated_at"`
			}
			if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		checkRows(rows)

	default:
		fmt.Fprintf(os.Stderr, "unknown query %q (snapshots, ticks, ignitions, features, catalogs)\n", q)
		os.Exit(2)
	}
}

func checkRows(rows *sql.Rows) {
	if err := rows.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "rows:", err)
		os.Exit(1)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
