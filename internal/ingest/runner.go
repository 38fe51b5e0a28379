// Package ingest orchestrates one ingestion run: parse the export, build
// canonical rows, persist them through the ledger, and emit diagnostics.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fortuna/statline/internal/boxscore"
	"github.com/fortuna/statline/internal/game"
	"github.com/fortuna/statline/internal/ledger"
	"github.com/fortuna/statline/internal/publisher"
	"github.com/fortuna/statline/internal/roster"
)

// ErrNoDataRows reports a table that parsed but contained no player lines;
// like a missing table, the run cannot produce anything from it.
var ErrNoDataRows = errors.New("no data rows detected in table")

// Runner wires the parsing core to the ledger boundary. Ledger may be nil
// for a dry run; Publisher may be nil when event publishing is disabled.
type Runner struct {
	Log       *slog.Logger
	Resolver  *roster.Resolver
	Ledger    ledger.Ledger
	Publisher *publisher.Publisher
	Side      game.Side
	Titles    *boxscore.TitleParser
}

// Result is everything one run produced, returned so the caller can print
// its summary and choose an exit code.
type Result struct {
	GameKey  string
	Meta     boxscore.MatchMetadata
	Team     roster.TeamIdentity
	Opponent roster.TeamIdentity
	Rows     []game.Row
	Unmapped []string
}

// Run processes a single export document end to end. Only structural
// failures (no table, no rows) and ledger errors come back as errors;
// metadata ambiguity and unmapped players degrade and are reported through
// the Result.
func (r *Runner) Run(ctx context.Context, input io.Reader) (*Result, error) {
	doc, err := boxscore.LoadDocument(input)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	titles := r.Titles
	if titles == nil {
		titles = boxscore.NewTitleParser()
	}
	meta := titles.Parse(boxscore.Title(doc))

	headers, raw, err := boxscore.ExtractTable(doc)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNoDataRows
	}
	r.Log.Debug("extracted table", "headers", len(headers), "rows", len(raw))

	team1 := r.Resolver.ResolveTeam(meta.Team1)
	team2 := r.Resolver.ResolveTeam(meta.Team2)
	team, opponent := game.PickSides(r.Side, team1, team2)

	builder := &game.Builder{Resolver: r.Resolver}
	rows, unmapped := builder.Build(raw, meta, team, opponent)

	result := &Result{
		GameKey:  ledger.Key(meta.DateISO(), team1.Slug, team2.Slug),
		Meta:     meta,
		Team:     team,
		Opponent: opponent,
		Rows:     rows,
		Unmapped: unmapped,
	}

	if r.Ledger != nil {
		if err := r.persist(ctx, result); err != nil {
			return nil, err
		}
	}

	if r.Publisher != nil {
		evt := publisher.IngestedEvent{
			GameKey:  result.GameKey,
			Date:     meta.DateISO(),
			Team1:    team1.Slug,
			Team2:    team2.Slug,
			Rows:     len(rows),
			Unmapped: unmapped,
		}
		// Publishing is best-effort; the ledger already has the data.
		if err := r.Publisher.PublishIngested(ctx, evt); err != nil {
			r.Log.Warn("failed to publish ingest event", "game", result.GameKey, "error", err)
		}
	}

	attrs := []any{
		"game", result.GameKey,
		"date", meta.DateISO(),
		"team1", fmt.Sprintf("%s (%s)", meta.Team1, team1.Slug),
		"team2", fmt.Sprintf("%s (%s)", meta.Team2, team2.Slug),
		"rows", len(rows),
	}
	if meta.Score1 != nil && meta.Score2 != nil {
		attrs = append(attrs, "score", fmt.Sprintf("%d-%d", *meta.Score1, *meta.Score2))
	}
	r.Log.Info("ingested game", attrs...)
	if len(unmapped) > 0 {
		r.Log.Warn("unmapped player abbreviations skipped", "abbreviations", unmapped)
	} else {
		r.Log.Info("all players mapped")
	}

	return result, nil
}

func (r *Runner) persist(ctx context.Context, result *Result) error {
	h, err := r.Ledger.EnsureGameRecord(ctx, result.GameKey, result.Meta)
	if err != nil {
		return fmt.Errorf("ensure game record: %w", err)
	}

	if err := r.Ledger.AppendPlayerRows(ctx, h, result.Rows); err != nil {
		return fmt.Errorf("append player rows: %w", err)
	}

	if err := r.Ledger.UpsertIndexEntry(ctx, result.GameKey, result.Meta, result.GameKey); err != nil {
		return fmt.Errorf("upsert index entry: %w", err)
	}

	for _, row := range result.Rows {
		if err := r.Ledger.AppendPlayerHistory(ctx, row.PlayerSlug, row); err != nil {
			return fmt.Errorf("append player history: %w", err)
		}
		if err := r.Ledger.AppendTeamHistory(ctx, row.TeamSlug, row); err != nil {
			return fmt.Errorf("append team history: %w", err)
		}
	}

	return nil
}
