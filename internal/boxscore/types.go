// Package boxscore parses an EasyStats single-game HTML export: match
// metadata out of the <title> element and raw per-player stat lines out of
// the lone <table>. Everything in this package is a pure, in-memory
// transformation; reading the document and persisting the result belong to
// the caller.
package boxscore

import "time"

// MatchMetadata is the best-effort result of parsing an export title.
// Scores are nil when the title format carries none. Date always resolves to
// a concrete day, falling back to "today" when the title is silent or
// unparseable.
type MatchMetadata struct {
	Team1  string
	Team2  string
	Score1 *int
	Score2 *int
	Date   time.Time
}

// DateISO returns the match date in YYYY-MM-DD form, the shape every ledger
// destination stores.
func (m MatchMetadata) DateISO() string {
	return m.Date.Format("2006-01-02")
}

// UnknownTeam is the sentinel used for the second side when a title has no
// recognizable structure at all.
const UnknownTeam = "Unknown"
