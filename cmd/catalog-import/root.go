package main

import (
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/horario-planner/internal/planner"
	"github.com/noah-isme/horario-planner/internal/repository"
	"github.com/noah-isme/horario-planner/internal/service"
	"github.com/noah-isme/horario-planner/pkg/cache"
	"github.com/noah-isme/horario-planner/pkg/config"
	"github.com/noah-isme/horario-planner/pkg/database"
	"github.com/noah-isme/horario-planner/pkg/storage"
)

// cliApp opens infrastructure on demand so that commands like token run without a database.
type cliApp struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	closer []func() error
}

func (a *cliApp) database() (*sqlx.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.NewPostgres(a.cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.closer = append(a.closer, db.Close)
	return db, nil
}

func (a *cliApp) migrator() (*database.Migrator, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	return database.NewMigrator(db.DB, a.logger)
}

// importer builds the import pipeline over dataDir. The catalog cache is flushed
// after a successful import when Redis is reachable.
func (a *cliApp) importer(dataDir string) (*service.ImportService, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	sources, err := storage.NewLocalStorage(dataDir)
	if err != nil {
		return nil, err
	}
	classifier, err := planner.NewClassifier(a.cfg.Planner.UnknownCategory)
	if err != nil {
		a.logger.Warn("invalid PLANNER_UNKNOWN_CATEGORY, treating unknown courses as mandatory", zap.Error(err))
	}

	cacheRepo := repository.NewCacheRepository(nil, a.logger)
	enabled := false
	if a.cfg.Catalog.CacheEnabled {
		if client, err := cache.NewRedis(a.cfg.Redis); err != nil {
			a.logger.Warn("redis unavailable, cached catalog reads expire on their TTL", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, a.logger)
			enabled = true
			a.closer = append(a.closer, client.Close)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, nil, a.cfg.Catalog.CacheTTL, a.logger, enabled)
	catalogSvc := service.NewCatalogService(repository.NewFacultyRepository(db), repository.NewCourseRepository(db), cacheSvc, classifier, a.logger)

	return service.NewImportService(sources, repository.NewCatalogImportRepository(db), catalogSvc, nil, a.logger, service.ImportConfig{
		Semester:   a.cfg.Import.Semester,
		Workers:    1,
		Classifier: classifier,
	}), nil
}

func (a *cliApp) auth() *service.AuthService {
	return service.NewAuthService(nil, a.logger, service.AuthConfig{
		AccessTokenSecret: a.cfg.JWT.Secret,
		AccessTokenExpiry: a.cfg.JWT.Expiration,
		Issuer:            a.cfg.JWT.Issuer,
	})
}

// Close releases everything opened by the commands, newest first.
func (a *cliApp) Close() {
	for i := len(a.closer) - 1; i >= 0; i-- {
		if err := a.closer[i](); err != nil {
			a.logger.Warn("close resource", zap.Error(err))
		}
	}
	a.closer = nil
}

func newRootCmd(app *cliApp) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog-import",
		Short:         "Maintain the course catalog of the schedule planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(app),
		newImportCmd(app),
		newTokenCmd(app),
	)

	return root
}
