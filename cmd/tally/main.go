package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alexanderramin/tally/internal/cli"
	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/alexanderramin/tally/internal/config"
	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/alexanderramin/tally/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(os.Stderr, cfg)
	observer := service.NewSlogUseCaseObserver(logger)

	database, err := db.OpenDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	orgRepo := repository.NewSQLiteOrganizationRepo(database)
	entryRepo := repository.NewSQLiteTimeEntryRepo(database)
	reportRepo := repository.NewSQLiteReportRepo(database)
	rateRepo := repository.NewSQLiteRateRepo(database)
	catalog := service.CatalogRepos{
		Users:          repository.NewSQLiteUserRepo(database),
		Members:        repository.NewSQLiteMemberRepo(database),
		Projects:       repository.NewSQLiteProjectRepo(database),
		Clients:        repository.NewSQLiteClientRepo(database),
		Tasks:          repository.NewSQLiteTaskRepo(database),
		Tags:           repository.NewSQLiteTagRepo(database),
		ProjectMembers: repository.NewSQLiteProjectMemberRepo(database),
	}

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services
	rateSvc := service.NewRateService(rateRepo, uow, observer)
	app := &cli.App{
		Organizations:    service.NewOrganizationService(orgRepo, catalog),
		Rates:            rateSvc,
		Reports:          service.NewReportService(orgRepo, entryRepo, reportRepo, catalog, cfg.UTCOffsetMinutes, observer),
		Entries:          service.NewTimeEntryService(catalog.Members, catalog.Projects, entryRepo, rateSvc, uow, observer),
		Export:           service.NewExportService(),
		Import:           service.NewImportService(uow, cfg.DefaultCurrency, observer),
		UTCOffsetMinutes: cfg.UTCOffsetMinutes,
	}

	// Tables, colors and prompts only when both ends are a terminal.
	app.IsInteractive = func() bool {
		return isTerminal(os.Stdin) && isTerminal(os.Stdout)
	}
	formatter.ApplyColorProfile(isTerminal(os.Stdout))

	logger.Debug("starting", "database", cfg.DatabasePath, "utc_offset_minutes", cfg.UTCOffsetMinutes)
	return cli.NewRootCmd(app).Execute()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel))); err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
