package ledger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/fortuna/statline/internal/boxscore"
	"github.com/fortuna/statline/internal/game"
)

// indexTab is the tab inside the box-scores spreadsheet that lists every
// ingested game.
const indexTab = "games"

// Sheets writes the three destinations to Google Sheets: a tab per game in
// the box-scores spreadsheet, a tab per player slug in the players
// spreadsheet, and a tab per team slug in the teams spreadsheet.
type Sheets struct {
	svc       *sheets.Service
	boxID     string
	playersID string
	teamsID   string
}

// SheetsConfig identifies the service-account credentials and the three
// destination spreadsheets.
type SheetsConfig struct {
	CredentialsFile string
	BoxScoresID     string
	PlayersID       string
	TeamsID         string
}

// NewSheets authenticates with a service-account key file and returns a
// Sheets ledger.
func NewSheets(ctx context.Context, cfg SheetsConfig) (*Sheets, error) {
	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Sheets{
		svc:       svc,
		boxID:     cfg.BoxScoresID,
		playersID: cfg.PlayersID,
		teamsID:   cfg.TeamsID,
	}, nil
}

// Close is a no-op; the sheets client has nothing to release.
func (s *Sheets) Close() error { return nil }

// EnsureGameRecord creates the game's tab if missing and seeds it with the
// META row and column headers.
func (s *Sheets) EnsureGameRecord(ctx context.Context, gameKey string, meta boxscore.MatchMetadata) (*Handle, error) {
	sheetID, created, err := s.ensureTab(ctx, s.boxID, gameKey)
	if err != nil {
		return nil, err
	}

	h := &Handle{GameKey: gameKey, New: created, sheetID: sheetID}
	if !created {
		return h, nil
	}

	// Team slugs in the META row come from the game key itself so the tab is
	// self-describing: "<date>_<team1>_vs_<team2>".
	team1, team2 := slugsFromKey(gameKey)
	seed := [][]string{metaRow(meta, team1, team2), Header()}
	if err := s.appendRows(ctx, s.boxID, gameKey, seed); err != nil {
		return nil, fmt.Errorf("seed game tab %s: %w", gameKey, err)
	}

	return h, nil
}

// AppendPlayerRows appends canonical rows to the game's tab.
func (s *Sheets) AppendPlayerRows(ctx context.Context, h *Handle, rows []game.Row) error {
	values := make([][]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, rowValues(r))
	}
	return s.appendRows(ctx, s.boxID, h.GameKey, values)
}

// UpsertIndexEntry records the game in the index tab, updating the existing
// row when the game was ingested before.
func (s *Sheets) UpsertIndexEntry(ctx context.Context, gameKey string, meta boxscore.MatchMetadata, locator string) error {
	if _, _, err := s.ensureTabWithHeader(ctx, s.boxID, indexTab,
		[]string{"game_key", "date", "team1", "team2", "score1", "score2", "locator"}); err != nil {
		return err
	}

	entry := []string{
		gameKey, meta.DateISO(), meta.Team1, meta.Team2,
		scoreText(meta.Score1), scoreText(meta.Score2), locator,
	}

	// Scan column A for an existing entry.
	resp, err := s.svc.Spreadsheets.Values.Get(s.boxID, rangeRef(indexTab, "A:A")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read game index: %w", err)
	}
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == gameKey {
			_, err := s.svc.Spreadsheets.Values.
				Update(s.boxID, rangeRef(indexTab, fmt.Sprintf("A%d", i+1)), valueRange([][]string{entry})).
				ValueInputOption("RAW").Context(ctx).Do()
			if err != nil {
				return fmt.Errorf("update game index: %w", err)
			}
			return nil
		}
	}

	return s.appendRows(ctx, s.boxID, indexTab, [][]string{entry})
}

// AppendPlayerHistory appends one row to the player's tab, creating it with
// headers on first write.
func (s *Sheets) AppendPlayerHistory(ctx context.Context, playerSlug string, row game.Row) error {
	if _, _, err := s.ensureTabWithHeader(ctx, s.playersID, playerSlug, Header()); err != nil {
		return err
	}
	return s.appendRows(ctx, s.playersID, playerSlug, [][]string{rowValues(row)})
}

// AppendTeamHistory appends one row to the team's tab, creating it with
// headers on first write.
func (s *Sheets) AppendTeamHistory(ctx context.Context, teamSlug string, row game.Row) error {
	if _, _, err := s.ensureTabWithHeader(ctx, s.teamsID, teamSlug, Header()); err != nil {
		return err
	}
	return s.appendRows(ctx, s.teamsID, teamSlug, [][]string{rowValues(row)})
}

// ensureTab returns the sheet ID for the named tab, creating the tab when it
// does not exist.
func (s *Sheets) ensureTab(ctx context.Context, spreadsheetID, title string) (int64, bool, error) {
	doc, err := s.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("get spreadsheet %s: %w", spreadsheetID, err)
	}

	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return sh.Properties.SheetId, false, nil
		}
	}

	resp, err := s.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("add tab %s: %w", title, err)
	}

	var sheetID int64
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}
	return sheetID, true, nil
}

func (s *Sheets) ensureTabWithHeader(ctx context.Context, spreadsheetID, title string, header []string) (int64, bool, error) {
	sheetID, created, err := s.ensureTab(ctx, spreadsheetID, title)
	if err != nil {
		return 0, false, err
	}
	if created && len(header) > 0 {
		if err := s.appendRows(ctx, spreadsheetID, title, [][]string{header}); err != nil {
			return 0, false, fmt.Errorf("seed tab %s: %w", title, err)
		}
	}
	return sheetID, created, nil
}

func (s *Sheets) appendRows(ctx context.Context, spreadsheetID, tab string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := s.svc.Spreadsheets.Values.
		Append(spreadsheetID, rangeRef(tab, "A1"), valueRange(rows)).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", tab, err)
	}
	return nil
}

func valueRange(rows [][]string) *sheets.ValueRange {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	return &sheets.ValueRange{Values: values}
}

// rangeRef builds an A1 range reference, quoting the tab name since game
// keys and slugs contain characters Sheets treats specially.
func rangeRef(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(tab, "'", "''"), cells)
}

// slugsFromKey recovers the two team slugs from a "<date>_<t1>_vs_<t2>" key.
func slugsFromKey(gameKey string) (string, string) {
	parts := strings.SplitN(gameKey, "_", 2)
	if len(parts) != 2 {
		return "", ""
	}
	teams := strings.SplitN(parts[1], "_vs_", 2)
	if len(teams) != 2 {
		return parts[1], ""
	}
	return teams[0], teams[1]
}
