// Command statline ingests one EasyStats box-score HTML export into the
// configured ledger.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/fortuna/statline/internal/boxscore"
	"github.com/fortuna/statline/internal/config"
	"github.com/fortuna/statline/internal/game"
	"github.com/fortuna/statline/internal/ingest"
	"github.com/fortuna/statline/internal/ledger"
	"github.com/fortuna/statline/internal/logger"
	"github.com/fortuna/statline/internal/publisher"
	"github.com/fortuna/statline/internal/roster"
	"github.com/fortuna/statline/internal/textutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "statline: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		inputPath  string
		side       string
		dryRun     bool
	)
	pflag.StringVarP(&configPath, "config", "c", "statline.yaml", "path to the configuration file")
	pflag.StringVarP(&inputPath, "input", "i", "", "path to the exported box-score HTML file (prompted for if omitted)")
	pflag.StringVar(&side, "side", "", "which title team owns the table: home or away (overrides config)")
	pflag.BoolVar(&dryRun, "dry-run", false, "parse and report without writing to the ledger")
	pflag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level)

	if side != "" {
		s := game.Side(side)
		if !s.Valid() {
			return fmt.Errorf("%w: got %q", config.ErrInvalidSide, side)
		}
		cfg.Ingest.Side = s
	}

	if inputPath == "" {
		inputPath, err = promptInputPath()
		if err != nil {
			return err
		}
	}
	inputPath, err = textutil.SanitizePath(inputPath)
	if err != nil {
		return fmt.Errorf("bad input path: %w", err)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	ctx := context.Background()

	var dest ledger.Ledger
	if !dryRun {
		dest, err = openLedger(ctx, cfg)
		if err != nil {
			return err
		}
		defer dest.Close()
	}

	var pub *publisher.Publisher
	if !dryRun && cfg.Publish.Enabled {
		pub, err = publisher.New(cfg.Publish.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer pub.Close()
	}

	runner := &ingest.Runner{
		Log:       log,
		Resolver:  roster.NewResolver(cfg.Roster),
		Ledger:    dest,
		Publisher: pub,
		Side:      cfg.Ingest.Side,
	}

	result, err := runner.Run(ctx, f)
	if err != nil {
		if errors.Is(err, boxscore.ErrNoTableFound) || errors.Is(err, ingest.ErrNoDataRows) {
			return fmt.Errorf("%s: %w", inputPath, err)
		}
		return err
	}

	printSummary(result, dryRun)
	return nil
}

// promptInputPath asks interactively when --input is not given.
func promptInputPath() (string, error) {
	fmt.Print("Path to exported box-score HTML file: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input path: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no input path given")
	}
	return line, nil
}

func openLedger(ctx context.Context, cfg *config.Config) (ledger.Ledger, error) {
	switch cfg.Ledger.Backend {
	case "postgres":
		pg, err := ledger.NewPostgres(cfg.Ledger.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return pg, nil
	case "sheets":
		return ledger.NewSheets(ctx, ledger.SheetsConfig{
			CredentialsFile: cfg.Ledger.Sheets.CredentialsFile,
			BoxScoresID:     cfg.Ledger.Sheets.BoxScoresID,
			PlayersID:       cfg.Ledger.Sheets.PlayersID,
			TeamsID:         cfg.Ledger.Sheets.TeamsID,
		})
	default:
		return nil, fmt.Errorf("%w: got %q", config.ErrUnknownBackend, cfg.Ledger.Backend)
	}
}

func printSummary(result *ingest.Result, dryRun bool) {
	mode := "ingested"
	if dryRun {
		mode = "parsed (dry run)"
	}
	fmt.Printf("%s %s\n", mode, result.GameKey)
	fmt.Printf("  %s vs %s on %s\n", result.Meta.Team1, result.Meta.Team2, result.Meta.DateISO())
	fmt.Printf("  table side: %s (%s)\n", result.Team.Slug, result.Team.DisplayName)
	fmt.Printf("  rows written: %d\n", len(result.Rows))
	if len(result.Unmapped) > 0 {
		fmt.Printf("  unmapped abbreviations: %s\n", strings.Join(result.Unmapped, ", "))
	}
}
