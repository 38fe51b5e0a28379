// Package ledger is the durable side of an ingestion run: a per-game record,
// a per-player history, and a per-team history, behind one append/upsert
// interface. Two backends exist — Google Sheets (the operator-facing
// destination) and Postgres — selected by configuration.
package ledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fortuna/statline/internal/boxscore"
	"github.com/fortuna/statline/internal/game"
)

// Ledger is the write API every backend implements. The parsing core only
// produces the values these calls consume; all I/O concerns (auth, retries,
// storage format) live behind this boundary.
type Ledger interface {
	// EnsureGameRecord creates the per-game record for gameKey if it does not
	// exist yet, seeding it with the META row and column headers.
	EnsureGameRecord(ctx context.Context, gameKey string, meta boxscore.MatchMetadata) (*Handle, error)

	// AppendPlayerRows appends canonical rows to the per-game record.
	AppendPlayerRows(ctx context.Context, h *Handle, rows []game.Row) error

	// UpsertIndexEntry records or refreshes the game in the games index.
	UpsertIndexEntry(ctx context.Context, gameKey string, meta boxscore.MatchMetadata, locator string) error

	// AppendPlayerHistory appends one row to a player's running history.
	AppendPlayerHistory(ctx context.Context, playerSlug string, row game.Row) error

	// AppendTeamHistory appends one row to a team's running history.
	AppendTeamHistory(ctx context.Context, teamSlug string, row game.Row) error

	Close() error
}

// Handle identifies an ensured per-game record for subsequent appends.
type Handle struct {
	GameKey string
	// New reports whether EnsureGameRecord created the record on this run.
	New bool

	// sheets backend bookkeeping
	sheetID int64
}

// Key builds the canonical game key: "<YYYY-MM-DD>_<team1>_vs_<team2>".
func Key(dateISO, team1Slug, team2Slug string) string {
	return fmt.Sprintf("%s_%s_vs_%s", dateISO, team1Slug, team2Slug)
}

// Header is the column layout shared by the per-game record and both
// histories.
func Header() []string {
	return []string{
		"date", "player_slug", "player_name", "team_slug", "opponent_slug",
		"min", "fg", "fga", "3p", "3pa", "ft", "fta", "or", "dr", "totrb",
		"ass", "pf", "st", "bs", "to", "pts",
	}
}

// metaRow is the first row of a per-game record: the match-level facts that
// don't belong to any single player. Absent scores serialize as blanks.
func metaRow(meta boxscore.MatchMetadata, team1Slug, team2Slug string) []string {
	return []string{
		"META",
		meta.DateISO(),
		team1Slug,
		team2Slug,
		scoreText(meta.Score1),
		scoreText(meta.Score2),
	}
}

func scoreText(score *int) string {
	if score == nil {
		return ""
	}
	return strconv.Itoa(*score)
}

// rowValues serializes a canonical row in Header() order.
func rowValues(r game.Row) []string {
	return []string{
		r.Date, r.PlayerSlug, r.PlayerName, r.TeamSlug, r.OpponentSlug,
		r.Minutes,
		strconv.Itoa(r.FGMade), strconv.Itoa(r.FGAtt),
		strconv.Itoa(r.ThreeMade), strconv.Itoa(r.ThreeAtt),
		strconv.Itoa(r.FTMade), strconv.Itoa(r.FTAtt),
		strconv.Itoa(r.OffReb), strconv.Itoa(r.DefReb), strconv.Itoa(r.TotReb),
		strconv.Itoa(r.Assists), strconv.Itoa(r.Fouls), strconv.Itoa(r.Steals),
		strconv.Itoa(r.Blocks), strconv.Itoa(r.Turnovers), strconv.Itoa(r.Points),
	}
}
