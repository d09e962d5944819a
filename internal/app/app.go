// Package app provides application-level wiring and dependency injection
// for the sheetline server.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"sheetline/internal/config"
	"sheetline/internal/db/repository"
	"sheetline/internal/domain"
	"sheetline/internal/service"
	"sheetline/internal/storage"
)

// Deps holds the external dependencies that main() must provide:
// database handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers that the API handler needs.
type Services struct {
	Dataset *service.DatasetService
	Lineage *service.LineageService
}

// App holds the fully-wired application.
type App struct {
	Services Services
	Content  domain.ContentStore
}

// New wires repositories, the content store, and services from the
// provided deps. Content goes to S3 when configured, the local content
// directory otherwise.
func New(deps Deps) (*App, error) {
	cfg := deps.Cfg

	fileRepo := repository.NewFileRepo(deps.WriteDB)
	edgeRepo := repository.NewEdgeRepo(deps.WriteDB)

	var content domain.ContentStore
	if cfg.HasS3Config() {
		content = storage.NewS3Store(storage.S3Config{
			KeyID:    *cfg.S3KeyID,
			Secret:   *cfg.S3Secret,
			Endpoint: *cfg.S3Endpoint,
			Region:   *cfg.S3Region,
			Bucket:   *cfg.S3Bucket,
		})
		deps.Logger.Info("content store: s3", "bucket", *cfg.S3Bucket)
	} else {
		local, err := storage.NewLocalStore(cfg.ContentDir)
		if err != nil {
			return nil, fmt.Errorf("create content dir %s: %w", cfg.ContentDir, err)
		}
		content = local
		deps.Logger.Info("content store: local", "dir", cfg.ContentDir)
	}

	lineageSvc := service.NewLineageService(fileRepo, edgeRepo, deps.Logger.With("component", "lineage"))
	datasetSvc := service.NewDatasetService(fileRepo, content, lineageSvc, deps.Logger.With("component", "dataset"))

	return &App{
		Services: Services{Dataset: datasetSvc, Lineage: lineageSvc},
		Content:  content,
	}, nil
}
