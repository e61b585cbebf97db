package world

// TickLogEntry is everything one tick changed, in the order it happened.
type TickLogEntry struct {
	Tick uint64 `json:"tick"`
	// Seed is what the tick generator was reseeded with.
	Seed      int64           `json:"seed"`
	Origins   int             `json:"origins"`
	Ignitions []Ignition      `json:"ignitions,omitempty"`
	BurnedOut [][3]int        `json:"burned_out,omitempty"`
	Features  []FeatureRecord `json:"features,omitempty"`
	Fires     int             `json:"fires"`
	Digest    string          `json:"digest"`
}

// Ignition is a cell that caught from a walk started at From.
type Ignition struct {
	Pos  [3]int `json:"pos"`
	From [3]int `json:"from"`
}

// FeatureRecord is one decoration attempt of a chunk generated during a tick.
type FeatureRecord struct {
	CX     int    `json:"cx"`
	CZ     int    `json:"cz"`
	Name   string `json:"name"`
	Tag    int32  `json:"tag"`
	Index  int32  `json:"index"`
	Seed   int64  `json:"seed"`
	Placed bool   `json:"placed"`
	Pos    [3]int `json:"pos"`
}
