package model

import "time"

// BuildReport summarises one dataset build
type BuildReport struct {
	DataDir   string        `json:"data_dir"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Files     []FileResult  `json:"files"`
}

// FileResult describes the outputs produced for one PGN file
type FileResult struct {
	PGN       string         `json:"pgn"`
	FEN       string         `json:"fen"`
	EPD       string         `json:"epd"`
	Positions int            `json:"positions"`
	Games     int            `json:"games"`
	Outcomes  map[string]int `json:"outcomes,omitempty"` // Outcome token -> position count
	Cached    bool           `json:"cached"`             // Served from the incremental build cache
	EPDDigest string         `json:"epd_sha256,omitempty"`
}

// Positions returns the total number of labeled positions in the build
func (r *BuildReport) Positions() int {
	total := 0
	for _, f := range r.Files {
		total += f.Positions
	}
	return total
}

// Games returns the total number of result headers seen in the build
func (r *BuildReport) Games() int {
	total := 0
	for _, f := range r.Files {
		total += f.Games
	}
	return total
}
