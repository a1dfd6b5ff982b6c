package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/common"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
	"github.com/joseph-ayodele/dsm-migrator/internal/migration"
	"github.com/joseph-ayodele/dsm-migrator/internal/repository"
)

func main() {
	// Setup structured logger that outputs messages with variables but no time/level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	var (
		file           = flag.String("file", "", "path to the legacy export (csv, xlsx, json or xml)")
		tenant         = flag.String("tenant", "", "tenant uuid the migrated records belong to")
		actor          = flag.String("actor", "", "uuid of the user running the migration (optional)")
		entities       = flag.String("entities", "", "comma-separated entity kinds to migrate (default: all)")
		db             = flag.String("db", "", "database: empty for in-memory, a file path for sqlite, or a postgres:// DSN")
		skipDuplicates = flag.Bool("skip-duplicates", cfg.Migration.SkipDuplicates, "skip records whose source id already exists for the tenant")
		allowPartial   = flag.Bool("allow-partial", false, "proceed past pre-flight validation failures, failing records individually")
		backup         = flag.Bool("backup", false, "request a backup before writing")
		maxErrors      = flag.Int("max-errors", cfg.Migration.MaxErrors, "abort after this many record errors (0 = unlimited)")
		workers        = flag.Int("workers", cfg.Migration.Workers, "parallel workers per phase")
	)
	flag.Parse()

	if *file == "" || *tenant == "" {
		flag.Usage()
		os.Exit(2)
	}
	tenantID, err := uuid.Parse(*tenant)
	if err != nil {
		logger.Error("invalid tenant uuid", "tenant", *tenant, "error", err)
		os.Exit(2)
	}
	actorID := uuid.Nil
	if *actor != "" {
		if actorID, err = uuid.Parse(*actor); err != nil {
			logger.Error("invalid actor uuid", "actor", *actor, "error", err)
			os.Exit(2)
		}
	}
	kinds, err := parseKinds(*entities)
	if err != nil {
		logger.Error("invalid entity list", "entities", *entities, "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openStore(ctx, *db, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "db", *db, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("failed to read export file", "file", *file, "error", err)
		os.Exit(1)
	}

	orch := migration.New(store, logger)
	status, runErr := orch.Run(ctx, *file, data, entity.MigrationOptions{
		EntityKinds:    kinds,
		SkipDuplicates: *skipDuplicates,
		AllowPartial:   *allowPartial,
		CreateBackup:   *backup,
		MaxErrors:      *maxErrors,
		Workers:        *workers,
		TenantID:       tenantID,
		ActorID:        actorID,
	})

	fmt.Println(migration.Report(status.Snapshot()))
	if runErr != nil {
		logger.Error("migration did not complete", "state", status.State, "error", runErr)
		os.Exit(1)
	}
}

func parseKinds(list string) ([]constants.EntityKind, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var kinds []constants.EntityKind
	for _, part := range strings.Split(list, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if !constants.IsKind(name) {
			return nil, fmt.Errorf("unknown entity kind %q", name)
		}
		kinds = append(kinds, constants.EntityKind(name))
	}
	return kinds, nil
}

func openStore(ctx context.Context, db string, cfg *common.Config, logger *slog.Logger) (repository.DataStore, func(), error) {
	switch {
	case db == "":
		return repository.NewMemStore(), func() {}, nil
	case strings.HasPrefix(db, "postgres://") || strings.HasPrefix(db, "postgresql://"):
		pg, err := repository.OpenPostgres(ctx, repository.Config{
			DSN:              db,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		sq, err := repository.OpenSQLite(ctx, db, logger)
		if err != nil {
			return nil, nil, err
		}
		return sq, func() {
			if cerr := sq.Close(); cerr != nil {
				logger.Warn("closing sqlite store", "error", cerr)
			}
		}, nil
	}
}
