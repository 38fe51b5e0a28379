package boxscore

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Export titles have drifted across seasons and tools, so the parser tries a
// chain of matchers in priority order and takes the first hit. Parsing never
// fails: a title nobody recognizes still produces usable metadata, just a
// degraded one.
var (
	// "Rice 0 at Pretty good 75"
	scorelineRe = regexp.MustCompile(`(?i)^(.+?)\s+(\d+)\s+at\s+(.+?)\s+(\d+)\s*$`)
	// "Rice vs Pretty good box-scores-23 Sep 2025"
	labeledDateRe = regexp.MustCompile(`(?i)^(.+?)\s+vs\s+(.+?)\s+box-scores-(.+?)\s*$`)
	// "Rice vs Pretty good - 2025-09-23" (date part optional)
	genericRe = regexp.MustCompile(`(?i)^(.+?)\s+vs\s+(.+?)(?:\s*-\s*(.+))?$`)
)

// dateLayouts is the trial order for free-text dates found in titles.
var dateLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
}

// TitleParser turns a free-form export title into MatchMetadata. Now supplies
// the fallback date; it defaults to time.Now and exists so tests can pin the
// clock.
type TitleParser struct {
	Now func() time.Time
}

// NewTitleParser returns a parser using the real clock.
func NewTitleParser() *TitleParser {
	return &TitleParser{Now: time.Now}
}

type titleMatcher func(title string, today time.Time) (MatchMetadata, bool)

var titleMatchers = []titleMatcher{
	matchScoreline,
	matchLabeledDate,
	matchGeneric,
}

// Parse extracts team names, optional scores, and the game date from a title.
// It always returns a result; unrecognized titles degrade to the whole title
// as team1, "Unknown" as team2, and today's date.
func (p *TitleParser) Parse(title string) MatchMetadata {
	title = strings.TrimSpace(title)
	today := p.now()

	for _, match := range titleMatchers {
		if meta, ok := match(title, today); ok {
			return meta
		}
	}

	return MatchMetadata{Team1: title, Team2: UnknownTeam, Date: today}
}

func (p *TitleParser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func matchScoreline(title string, today time.Time) (MatchMetadata, bool) {
	m := scorelineRe.FindStringSubmatch(title)
	if m == nil {
		return MatchMetadata{}, false
	}
	s1, err1 := strconv.Atoi(m[2])
	s2, err2 := strconv.Atoi(m[4])
	if err1 != nil || err2 != nil {
		return MatchMetadata{}, false
	}
	// This title style carries no date.
	return MatchMetadata{
		Team1:  strings.TrimSpace(m[1]),
		Team2:  strings.TrimSpace(m[3]),
		Score1: &s1,
		Score2: &s2,
		Date:   today,
	}, true
}

func matchLabeledDate(title string, today time.Time) (MatchMetadata, bool) {
	m := labeledDateRe.FindStringSubmatch(title)
	if m == nil {
		return MatchMetadata{}, false
	}
	return MatchMetadata{
		Team1: strings.TrimSpace(m[1]),
		Team2: strings.TrimSpace(m[2]),
		Date:  parseDateText(m[3], today),
	}, true
}

func matchGeneric(title string, today time.Time) (MatchMetadata, bool) {
	m := genericRe.FindStringSubmatch(title)
	if m == nil {
		return MatchMetadata{}, false
	}
	meta := MatchMetadata{
		Team1: strings.TrimSpace(m[1]),
		Team2: strings.TrimSpace(m[2]),
		Date:  today,
	}
	if dateText := strings.TrimSpace(m[3]); dateText != "" {
		meta.Date = parseDateText(dateText, today)
	}
	return meta, true
}

// parseDateText tries each known layout in order and falls back to today when
// none of them fit.
func parseDateText(text string, today time.Time) time.Time {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, text); err == nil {
			return d
		}
	}
	return today
}
