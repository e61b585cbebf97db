package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_RepoConfigMatchesDefaults(t *testing.T) {
	got, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Defaults()
	if got.FireSpreadSteps != want.FireSpreadSteps || got.Height != want.Height || len(got.Decorations) != len(want.Decorations) {
		t.Fatalf("tuning.yaml drifted from Defaults: got=%+v", got)
	}
	if !got.GameRules["doFireTick"] {
		t.Fatalf("doFireTick should be on")
	}
}

func TestLoad_OverridesOnTopOfDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "fire_spread_steps: 7\ngame_rules:\n  doFireTick: false\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.FireSpreadSteps != 7 {
		t.Fatalf("fire_spread_steps=%d want 7", got.FireSpreadSteps)
	}
	if got.GameRules["doFireTick"] {
		t.Fatalf("doFireTick override ignored")
	}
	if got.Height != Defaults().Height {
		t.Fatalf("height=%d want default %d", got.Height, Defaults().Height)
	}
}

func TestLoad_RejectsNegativeSteps(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("fire_spread_steps: -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_DuplicateTag(t *testing.T) {
	tu := Defaults()
	tu.Decorations[1].Tag = tu.Decorations[0].Tag
	if err := tu.Validate(); err == nil {
		t.Fatalf("expected duplicate tag error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err=%v want not-exist", err)
	}
}
