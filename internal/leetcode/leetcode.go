package leetcode

import (
	"encoding/json"
	"time"
)

// RawStats is the payload returned by the public stats API. Pointer fields
// so the fetcher can tell a missing field apart from a zero value.
type RawStats struct {
	EasySolved     *float64 `json:"easySolved"`
	MediumSolved   *float64 `json:"mediumSolved"`
	HardSolved     *float64 `json:"hardSolved"`
	AcceptanceRate *float64 `json:"acceptanceRate"`
}

// UnmarshalJSON decodes the stats leniently: a field of the wrong JSON type
// counts as absent and later coerces to 0. Only easySolved keeps the
// missing-vs-present distinction, since the fetcher treats a missing or null
// easySolved as a failed lookup.
func (s *RawStats) UnmarshalJSON(data []byte) error {
	var raw struct {
		EasySolved     json.RawMessage `json:"easySolved"`
		MediumSolved   json.RawMessage `json:"mediumSolved"`
		HardSolved     json.RawMessage `json:"hardSolved"`
		AcceptanceRate json.RawMessage `json:"acceptanceRate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.MediumSolved = looseNumber(raw.MediumSolved)
	s.HardSolved = looseNumber(raw.HardSolved)
	s.AcceptanceRate = looseNumber(raw.AcceptanceRate)

	switch {
	case raw.EasySolved == nil || string(raw.EasySolved) == "null":
		s.EasySolved = nil
	default:
		if v := looseNumber(raw.EasySolved); v != nil {
			s.EasySolved = v
		} else {
			// Present but not a number: the profile exists, the count
			// coerces to 0 like any other unusable field.
			zero := 0.0
			s.EasySolved = &zero
		}
	}
	return nil
}

func looseNumber(raw json.RawMessage) *float64 {
	if raw == nil || string(raw) == "null" {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// Answers is the derived stats record stored under a user's leetcode node.
type Answers struct {
	EasySolved     int     `json:"easySolved"`
	MediumSolved   int     `json:"mediumSolved"`
	HardSolved     int     `json:"hardSolved"`
	TotalSolved    int     `json:"totalSolved"`
	WeightedScore  int     `json:"weightedScore"`
	AcceptanceRate float64 `json:"acceptanceRate"`
	LastUpdated    int64   `json:"lastUpdated,omitempty"`
}

// Offsets is a per-user baseline of solved counts. Leaderboard consumers may
// use it to show progress since a reference point; the sync job only stores it.
type Offsets struct {
	EasySolved   int `json:"easySolved"`
	MediumSolved int `json:"mediumSolved"`
	HardSolved   int `json:"hardSolved"`
}

// Data is the full leetcode subtree of a profile.
type Data struct {
	Username string   `json:"username,omitempty"`
	Answers  *Answers `json:"answers,omitempty"`
	Offsets  *Offsets `json:"offsets,omitempty"`
}

type RunOptions struct {
	// ClearOffsets resets every updated user's offsets to zero, making their
	// freshly fetched totals the new baseline (the "initial scrape" mode).
	ClearOffsets bool
}

// RunSummary describes one full sync pass over the roster.
type RunSummary struct {
	RunID      string    `json:"runId"`
	Updated    int       `json:"updated"`
	Failed     []string  `json:"failed"`
	Skipped    int       `json:"skipped"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// RunRecord is a persisted run summary as read back from run history.
type RunRecord struct {
	RunID       string    `json:"runId"`
	TriggeredBy string    `json:"triggeredBy"`
	Updated     int       `json:"updated"`
	Failed      []string  `json:"failed"`
	Skipped     int       `json:"skipped"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

type LeaderboardEntry struct {
	Username       string   `json:"username"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	PictureLink    string   `json:"picture_link,omitempty"`
	EasySolved     int      `json:"easySolved"`
	MediumSolved   int      `json:"mediumSolved"`
	HardSolved     int      `json:"hardSolved"`
	TotalSolved    int      `json:"totalSolved"`
	AcceptanceRate float64  `json:"acceptanceRate"`
	WeightedScore  int      `json:"weightedScore"`
	Offsets        *Offsets `json:"offsets,omitempty"`
	LastUpdated    int64    `json:"lastUpdated,omitempty"`
}

type Leaderboard struct {
	Entries    []*LeaderboardEntry `json:"entries"`
	TotalUsers int                 `json:"total_users"`
}
