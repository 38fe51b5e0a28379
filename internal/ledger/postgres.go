package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/fortuna/statline/internal/boxscore"
	"github.com/fortuna/statline/internal/game"
)

// Postgres stores the three destinations as plain tables: a games index plus
// one append-only table each for per-game rows, player history, and team
// history. The META row of the sheet layout maps onto the games index entry.
type Postgres struct {
	conn *sql.DB
}

// NewPostgres opens and pings a connection pool.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{conn: db}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Schema migrations, run in order and tracked by version so re-runs are
// no-ops.
var pgMigrations = []struct {
	version string
	ddl     string
}{
	{"001_create_games", `
		CREATE TABLE IF NOT EXISTS games (
			game_key   TEXT PRIMARY KEY,
			game_date  DATE NOT NULL,
			team1_name TEXT NOT NULL,
			team2_name TEXT NOT NULL,
			score1     INTEGER,
			score2     INTEGER,
			locator    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"002_create_box_score_rows", `
		CREATE TABLE IF NOT EXISTS box_score_rows (
			id            SERIAL PRIMARY KEY,
			game_key      TEXT NOT NULL,
			game_date     DATE NOT NULL,
			player_slug   TEXT NOT NULL,
			player_name   TEXT NOT NULL,
			team_slug     TEXT NOT NULL,
			opponent_slug TEXT NOT NULL,
			minutes       TEXT NOT NULL DEFAULT '',
			fg_made  INTEGER NOT NULL, fg_att  INTEGER NOT NULL,
			tp_made  INTEGER NOT NULL, tp_att  INTEGER NOT NULL,
			ft_made  INTEGER NOT NULL, ft_att  INTEGER NOT NULL,
			off_reb  INTEGER NOT NULL, def_reb INTEGER NOT NULL, tot_reb INTEGER NOT NULL,
			assists  INTEGER NOT NULL, fouls   INTEGER NOT NULL, steals  INTEGER NOT NULL,
			blocks   INTEGER NOT NULL, turnovers INTEGER NOT NULL, points INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"003_create_player_history", `
		CREATE TABLE IF NOT EXISTS player_history (
			id SERIAL PRIMARY KEY,
			player_slug TEXT NOT NULL,
			game_date DATE NOT NULL, player_name TEXT NOT NULL,
			team_slug TEXT NOT NULL, opponent_slug TEXT NOT NULL,
			minutes TEXT NOT NULL DEFAULT '',
			fg_made INTEGER NOT NULL, fg_att INTEGER NOT NULL,
			tp_made INTEGER NOT NULL, tp_att INTEGER NOT NULL,
			ft_made INTEGER NOT NULL, ft_att INTEGER NOT NULL,
			off_reb INTEGER NOT NULL, def_reb INTEGER NOT NULL, tot_reb INTEGER NOT NULL,
			assists INTEGER NOT NULL, fouls INTEGER NOT NULL, steals INTEGER NOT NULL,
			blocks INTEGER NOT NULL, turnovers INTEGER NOT NULL, points INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"004_create_team_history", `
		CREATE TABLE IF NOT EXISTS team_history (
			id SERIAL PRIMARY KEY,
			team_slug TEXT NOT NULL,
			game_date DATE NOT NULL, player_slug TEXT NOT NULL, player_name TEXT NOT NULL,
			opponent_slug TEXT NOT NULL,
			minutes TEXT NOT NULL DEFAULT '',
			fg_made INTEGER NOT NULL, fg_att INTEGER NOT NULL,
			tp_made INTEGER NOT NULL, tp_att INTEGER NOT NULL,
			ft_made INTEGER NOT NULL, ft_att INTEGER NOT NULL,
			off_reb INTEGER NOT NULL, def_reb INTEGER NOT NULL, tot_reb INTEGER NOT NULL,
			assists INTEGER NOT NULL, fouls INTEGER NOT NULL, steals INTEGER NOT NULL,
			blocks INTEGER NOT NULL, turnovers INTEGER NOT NULL, points INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"005_index_histories", `
		CREATE INDEX IF NOT EXISTS idx_box_score_rows_game ON box_score_rows (game_key);
		CREATE INDEX IF NOT EXISTS idx_player_history_slug ON player_history (player_slug, game_date);
		CREATE INDEX IF NOT EXISTS idx_team_history_slug ON team_history (team_slug, game_date)`},
}

// Migrate applies any pending schema migrations.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range pgMigrations {
		var exists bool
		err := p.conn.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", m.version).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		tx, err := p.conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, m.ddl); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.version); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// EnsureGameRecord inserts the game into the index if absent; the insert
// doubles as the META record of the sheet layout.
func (p *Postgres) EnsureGameRecord(ctx context.Context, gameKey string, meta boxscore.MatchMetadata) (*Handle, error) {
	res, err := p.conn.ExecContext(ctx, `
		INSERT INTO games (game_key, game_date, team1_name, team2_name, score1, score2)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_key) DO NOTHING`,
		gameKey, meta.DateISO(), meta.Team1, meta.Team2, nullableInt(meta.Score1), nullableInt(meta.Score2))
	if err != nil {
		return nil, fmt.Errorf("ensure game record: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	return &Handle{GameKey: gameKey, New: inserted > 0}, nil
}

const rowColumns = `game_date, player_slug, player_name, team_slug, opponent_slug, minutes,
	fg_made, fg_att, tp_made, tp_att, ft_made, ft_att,
	off_reb, def_reb, tot_reb, assists, fouls, steals, blocks, turnovers, points`

func rowArgs(r game.Row) []interface{} {
	return []interface{}{
		r.Date, r.PlayerSlug, r.PlayerName, r.TeamSlug, r.OpponentSlug, r.Minutes,
		r.FGMade, r.FGAtt, r.ThreeMade, r.ThreeAtt, r.FTMade, r.FTAtt,
		r.OffReb, r.DefReb, r.TotReb, r.Assists, r.Fouls, r.Steals,
		r.Blocks, r.Turnovers, r.Points,
	}
}

// AppendPlayerRows writes all rows of the per-game record in one transaction.
func (p *Postgres) AppendPlayerRows(ctx context.Context, h *Handle, rows []game.Row) error {
	tx, err := p.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO box_score_rows (game_key, ` + rowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	for _, r := range rows {
		args := append([]interface{}{h.GameKey}, rowArgs(r)...)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("append player row for %s: %w", r.PlayerSlug, err)
		}
	}

	return tx.Commit()
}

// UpsertIndexEntry refreshes the game index with the locator and any scores
// that were missing when the record was first ensured.
func (p *Postgres) UpsertIndexEntry(ctx context.Context, gameKey string, meta boxscore.MatchMetadata, locator string) error {
	_, err := p.conn.ExecContext(ctx, `
		INSERT INTO games (game_key, game_date, team1_name, team2_name, score1, score2, locator)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_key) DO UPDATE SET
			score1 = COALESCE(EXCLUDED.score1, games.score1),
			score2 = COALESCE(EXCLUDED.score2, games.score2),
			locator = EXCLUDED.locator,
			updated_at = NOW()`,
		gameKey, meta.DateISO(), meta.Team1, meta.Team2,
		nullableInt(meta.Score1), nullableInt(meta.Score2), locator)
	if err != nil {
		return fmt.Errorf("upsert index entry: %w", err)
	}
	return nil
}

// AppendPlayerHistory appends one row to the player's history table.
func (p *Postgres) AppendPlayerHistory(ctx context.Context, playerSlug string, row game.Row) error {
	query := `INSERT INTO player_history (` + rowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	if _, err := p.conn.ExecContext(ctx, query, rowArgs(row)...); err != nil {
		return fmt.Errorf("append player history for %s: %w", playerSlug, err)
	}
	return nil
}

// AppendTeamHistory appends one row to the team's history table.
func (p *Postgres) AppendTeamHistory(ctx context.Context, teamSlug string, row game.Row) error {
	query := `INSERT INTO team_history (` + rowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	if _, err := p.conn.ExecContext(ctx, query, rowArgs(row)...); err != nil {
		return fmt.Errorf("append team history for %s: %w", teamSlug, err)
	}
	return nil
}

func nullableInt(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}
