// Package game assembles canonical per-player-per-game records from decoded
// table rows and resolved identities. Building has no side effects; the
// ledger layer owns persistence.
package game

import (
	"sort"

	"github.com/fortuna/statline/internal/boxscore"
	"github.com/fortuna/statline/internal/roster"
)

// Side says which side of the match the extracted table belongs to. The
// export carries a single team's table with no per-row marker, so the side is
// an explicit per-run policy rather than something inferred from the data.
type Side string

const (
	// SideHome attributes the table to the second team in the title (the
	// historical convention for these exports).
	SideHome Side = "home"
	// SideAway attributes the table to the first team in the title.
	SideAway Side = "away"
)

// Valid reports whether s is a recognized policy value.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Fixed column offsets of the EasyStats export layout. Percentage columns
// (2, 4, 6) are derived values and never read back.
const (
	colPlayer = iota
	colFG
	_ // fg%
	colThree
	_ // 3pt%
	colFT
	_ // ft%
	colOffReb
	colDefReb
	colFouls
	colSteals
	colTurnovers
	colBlocks
	colAssists
	colPoints
)

// Row is one player's fully resolved, typed record for one game.
type Row struct {
	Date         string
	PlayerSlug   string
	PlayerName   string
	TeamSlug     string
	OpponentSlug string
	Minutes      string // the export has no minutes column; kept blank
	FGMade       int
	FGAtt        int
	ThreeMade    int
	ThreeAtt     int
	FTMade       int
	FTAtt        int
	OffReb       int
	DefReb       int
	TotReb       int
	Assists      int
	Fouls        int
	Steals       int
	Blocks       int
	Turnovers    int
	Points       int
}

// PickSides applies the table-ownership policy: it returns the identity the
// table's rows belong to and their opponent.
func PickSides(side Side, team1, team2 roster.TeamIdentity) (team, opponent roster.TeamIdentity) {
	if side == SideAway {
		return team1, team2
	}
	return team2, team1
}

// Builder turns raw stat rows into canonical rows.
type Builder struct {
	Resolver *roster.Resolver
}

// Build decodes every raw row, resolves its player against the table team's
// roster, and emits one canonical Row per resolved player, preserving input
// order. Rows whose abbreviation has no mapping are dropped whole; their
// abbreviations come back sorted and deduplicated for operator review.
func (b *Builder) Build(raw [][]string, meta boxscore.MatchMetadata, team, opponent roster.TeamIdentity) ([]Row, []string) {
	rows := make([]Row, 0, len(raw))
	unmappedSet := make(map[string]struct{})

	for _, cells := range raw {
		abbrev := boxscore.ParseAbbreviation(cell(cells, colPlayer))
		player, err := b.Resolver.ResolvePlayer(team.Slug, abbrev)
		if err != nil {
			unmappedSet[abbrev] = struct{}{}
			continue
		}

		row := Row{
			Date:         meta.DateISO(),
			PlayerSlug:   player.Slug,
			PlayerName:   player.Name,
			TeamSlug:     team.Slug,
			OpponentSlug: opponent.Slug,
		}
		row.FGMade, row.FGAtt = boxscore.ParseMadeAttempt(cell(cells, colFG))
		row.ThreeMade, row.ThreeAtt = boxscore.ParseMadeAttempt(cell(cells, colThree))
		row.FTMade, row.FTAtt = boxscore.ParseMadeAttempt(cell(cells, colFT))
		row.OffReb = boxscore.ParseCount(cell(cells, colOffReb))
		row.DefReb = boxscore.ParseCount(cell(cells, colDefReb))
		row.TotReb = row.OffReb + row.DefReb
		row.Fouls = boxscore.ParseCount(cell(cells, colFouls))
		row.Steals = boxscore.ParseCount(cell(cells, colSteals))
		row.Turnovers = boxscore.ParseCount(cell(cells, colTurnovers))
		row.Blocks = boxscore.ParseCount(cell(cells, colBlocks))
		row.Assists = boxscore.ParseCount(cell(cells, colAssists))
		row.Points = boxscore.ParseCount(cell(cells, colPoints))

		rows = append(rows, row)
	}

	unmapped := make([]string, 0, len(unmappedSet))
	for abbrev := range unmappedSet {
		unmapped = append(unmapped, abbrev)
	}
	sort.Strings(unmapped)

	return rows, unmapped
}

// cell returns the i-th cell, or "" when the row is too short. Short rows
// degrade to zeros downstream instead of failing the run.
func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
