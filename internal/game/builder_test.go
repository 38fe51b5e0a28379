package game

import (
	"reflect"
	"testing"
	"time"

	"github.com/fortuna/statline/internal/boxscore"
	"github.com/fortuna/statline/internal/roster"
)

func testResolver() *roster.Resolver {
	return roster.NewResolver(roster.Mapping{
		Players: map[string]roster.PlayerEntry{
			"F.Wendtman": {Slug: "finn-wendtman", Name: "Finn Wendtman"},
			"K.Denzin":   {Slug: "kai-denzin", Name: "Kai Denzin"},
			"A.Adams":    {Slug: "avery-adams", Name: "Avery Adams"},
		},
		Teams: map[string]roster.TeamEntry{
			"Rice":        {Slug: "rice"},
			"Pretty good": {Slug: "pretty-good"},
		},
	})
}

func testMeta() boxscore.MatchMetadata {
	return boxscore.MatchMetadata{
		Team1: "Rice",
		Team2: "Pretty good",
		Date:  time.Date(2025, 9, 23, 0, 0, 0, 0, time.UTC),
	}
}

func wendtmanRaw() []string {
	return []string{"#28 F. Wendtman", "9-15", "60.0", "2-5", "40.0", "3-4", "75.0",
		"2", "5", "1", "1", "2", "0", "3", "23"}
}

func TestBuildDecodesRow(t *testing.T) {
	r := testResolver()
	b := &Builder{Resolver: r}
	team, opp := PickSides(SideHome, r.ResolveTeam("Rice"), r.ResolveTeam("Pretty good"))

	rows, unmapped := b.Build([][]string{wendtmanRaw()}, testMeta(), team, opp)
	if len(unmapped) != 0 {
		t.Fatalf("unexpected unmapped: %v", unmapped)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	want := Row{
		Date:         "2025-09-23",
		PlayerSlug:   "finn-wendtman",
		PlayerName:   "Finn Wendtman",
		TeamSlug:     "pretty-good",
		OpponentSlug: "rice",
		FGMade:       9, FGAtt: 15,
		ThreeMade: 2, ThreeAtt: 5,
		FTMade: 3, FTAtt: 4,
		OffReb: 2, DefReb: 5, TotReb: 7,
		Assists: 3, Fouls: 1, Steals: 1, Blocks: 0, Turnovers: 2, Points: 23,
	}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("row mismatch:\n got %+v\nwant %+v", rows[0], want)
	}
}

func TestBuildSkipsUnmapped(t *testing.T) {
	r := testResolver()
	b := &Builder{Resolver: r}
	team, opp := PickSides(SideHome, r.ResolveTeam("Rice"), r.ResolveTeam("Pretty good"))

	raw := [][]string{
		{"#12 Z. Nobody", "1-2", "50.0", "0-0", "", "0-0", "", "0", "1", "0", "0", "0", "0", "0", "2"},
		wendtmanRaw(),
		{"#13 Y. Mystery", "0-1", "0.0", "0-0", "", "0-0", "", "0", "0", "0", "0", "0", "0", "0", "0"},
		{"#12 Z. Nobody", "2-2", "100.0", "0-0", "", "0-0", "", "0", "0", "0", "0", "0", "0", "0", "4"},
	}

	rows, unmapped := b.Build(raw, testMeta(), team, opp)
	if len(rows) != 1 || rows[0].PlayerSlug != "finn-wendtman" {
		t.Fatalf("expected only the mapped row, got %+v", rows)
	}
	// Sorted, deduplicated.
	if !reflect.DeepEqual(unmapped, []string{"Y.Mystery", "Z.Nobody"}) {
		t.Errorf("unmapped = %v, want [Y.Mystery Z.Nobody]", unmapped)
	}
}

func TestBuildPreservesOrder(t *testing.T) {
	r := testResolver()
	b := &Builder{Resolver: r}
	team, opp := PickSides(SideHome, r.ResolveTeam("Rice"), r.ResolveTeam("Pretty good"))

	raw := [][]string{
		{"#00 K. Denzin", "4-9", "44.4", "-", "", "1-2", "50.0", "0", "3", "2", "0", "1", "1", "5", "9"},
		wendtmanRaw(),
		{"#3 A. Adams", "0-2", "0.0", "0-1", "0.0", "2-2", "100.0", "1", "0", "3", "2", "0", "0", "1", "2"},
	}

	rows, _ := b.Build(raw, testMeta(), team, opp)
	got := []string{}
	for _, row := range rows {
		got = append(got, row.PlayerSlug)
	}
	want := []string{"kai-denzin", "finn-wendtman", "avery-adams"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("row order = %v, want %v", got, want)
	}
}

func TestBuildShortRowCoercesToZero(t *testing.T) {
	r := testResolver()
	b := &Builder{Resolver: r}
	team, opp := PickSides(SideHome, r.ResolveTeam("Rice"), r.ResolveTeam("Pretty good"))

	rows, unmapped := b.Build([][]string{{"#00 K. Denzin", "4-9"}}, testMeta(), team, opp)
	if len(unmapped) != 0 || len(rows) != 1 {
		t.Fatalf("rows=%d unmapped=%v", len(rows), unmapped)
	}
	row := rows[0]
	if row.FGMade != 4 || row.FGAtt != 9 {
		t.Errorf("fg = %d-%d, want 4-9", row.FGMade, row.FGAtt)
	}
	if row.Points != 0 || row.TotReb != 0 || row.Assists != 0 {
		t.Errorf("missing cells should decode to zero: %+v", row)
	}
}

func TestPickSides(t *testing.T) {
	r := testResolver()
	t1, t2 := r.ResolveTeam("Rice"), r.ResolveTeam("Pretty good")

	team, opp := PickSides(SideHome, t1, t2)
	if team.Slug != "pretty-good" || opp.Slug != "rice" {
		t.Errorf("home policy: table=%s opp=%s, want pretty-good/rice", team.Slug, opp.Slug)
	}

	team, opp = PickSides(SideAway, t1, t2)
	if team.Slug != "rice" || opp.Slug != "pretty-good" {
		t.Errorf("away policy: table=%s opp=%s, want rice/pretty-good", team.Slug, opp.Slug)
	}
}

func TestSideValid(t *testing.T) {
	if !SideHome.Valid() || !SideAway.Valid() {
		t.Error("home/away should be valid")
	}
	if Side("table").Valid() {
		t.Error("arbitrary side should be invalid")
	}
}
