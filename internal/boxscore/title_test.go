package boxscore

import (
	"testing"
	"time"
)

var testToday = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func pinnedParser() *TitleParser {
	return &TitleParser{Now: func() time.Time { return testToday }}
}

func TestParseScorelineTitle(t *testing.T) {
	meta := pinnedParser().Parse("Lions 45 at Tigers 60")

	if meta.Team1 != "Lions" || meta.Team2 != "Tigers" {
		t.Errorf("teams = %q / %q, want Lions / Tigers", meta.Team1, meta.Team2)
	}
	if meta.Score1 == nil || *meta.Score1 != 45 {
		t.Errorf("score1 = %v, want 45", meta.Score1)
	}
	if meta.Score2 == nil || *meta.Score2 != 60 {
		t.Errorf("score2 = %v, want 60", meta.Score2)
	}
	if meta.DateISO() != "2026-01-15" {
		t.Errorf("date = %s, want today (2026-01-15)", meta.DateISO())
	}
}

func TestParseScorelineMultiWordTeams(t *testing.T) {
	meta := pinnedParser().Parse("Rice  0 at Pretty good 75")

	if meta.Team1 != "Rice" {
		t.Errorf("team1 = %q, want Rice", meta.Team1)
	}
	if meta.Team2 != "Pretty good" {
		t.Errorf("team2 = %q, want Pretty good", meta.Team2)
	}
	if meta.Score1 == nil || *meta.Score1 != 0 {
		t.Errorf("score1 = %v, want 0", meta.Score1)
	}
}

func TestParseLabeledDateTitle(t *testing.T) {
	meta := pinnedParser().Parse("Lions vs Tigers box-scores-23 Sep 2025")

	if meta.Team1 != "Lions" || meta.Team2 != "Tigers" {
		t.Errorf("teams = %q / %q, want Lions / Tigers", meta.Team1, meta.Team2)
	}
	if meta.Score1 != nil || meta.Score2 != nil {
		t.Errorf("scores = %v / %v, want both absent", meta.Score1, meta.Score2)
	}
	if meta.DateISO() != "2025-09-23" {
		t.Errorf("date = %s, want 2025-09-23", meta.DateISO())
	}
}

func TestParseGenericTitleWithDate(t *testing.T) {
	meta := pinnedParser().Parse("Lions vs Tigers - 2025-09-23")

	if meta.Team1 != "Lions" || meta.Team2 != "Tigers" {
		t.Errorf("teams = %q / %q, want Lions / Tigers", meta.Team1, meta.Team2)
	}
	if meta.Score1 != nil || meta.Score2 != nil {
		t.Errorf("scores = %v / %v, want both absent", meta.Score1, meta.Score2)
	}
	if meta.DateISO() != "2025-09-23" {
		t.Errorf("date = %s, want 2025-09-23", meta.DateISO())
	}
}

func TestParseGenericTitleWithoutDate(t *testing.T) {
	meta := pinnedParser().Parse("Lions vs Tigers")

	if meta.Team1 != "Lions" || meta.Team2 != "Tigers" {
		t.Errorf("teams = %q / %q, want Lions / Tigers", meta.Team1, meta.Team2)
	}
	if meta.DateISO() != "2026-01-15" {
		t.Errorf("date = %s, want today", meta.DateISO())
	}
}

func TestParseUnstructuredTitle(t *testing.T) {
	meta := pinnedParser().Parse("garbled text with no structure")

	if meta.Team1 != "garbled text with no structure" {
		t.Errorf("team1 = %q, want whole title", meta.Team1)
	}
	if meta.Team2 != UnknownTeam {
		t.Errorf("team2 = %q, want %q", meta.Team2, UnknownTeam)
	}
	if meta.Score1 != nil || meta.Score2 != nil {
		t.Errorf("scores = %v / %v, want both absent", meta.Score1, meta.Score2)
	}
	if meta.DateISO() != "2026-01-15" {
		t.Errorf("date = %s, want today", meta.DateISO())
	}
}

func TestParseDateTextLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"23 Sep 2025", "2025-09-23"},
		{"23 September 2025", "2025-09-23"},
		{"2025-09-23", "2025-09-23"},
		{"23/09/2025", "2025-09-23"},
		{"09/23/2025", "2025-09-23"},
		{"not a date", "2026-01-15"}, // falls back to today
	}

	for _, tc := range cases {
		got := parseDateText(tc.in, testToday).Format("2006-01-02")
		if got != tc.want {
			t.Errorf("parseDateText(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseLabeledDateGarbageDate(t *testing.T) {
	meta := pinnedParser().Parse("Lions vs Tigers box-scores-someday soon")
	if meta.DateISO() != "2026-01-15" {
		t.Errorf("date = %s, want today when date text is unparseable", meta.DateISO())
	}
}
