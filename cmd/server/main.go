package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/authz"
	"github.com/talentflow/recruitment-backend/internal/candidacy"
	"github.com/talentflow/recruitment-backend/internal/config"
	httpadapter "github.com/talentflow/recruitment-backend/internal/interfaces/http"
	"github.com/talentflow/recruitment-backend/internal/jobs"
	"github.com/talentflow/recruitment-backend/internal/pipeline"
	"github.com/talentflow/recruitment-backend/internal/report"
	"github.com/talentflow/recruitment-backend/internal/repository"
	"github.com/talentflow/recruitment-backend/internal/resume"
	"github.com/talentflow/recruitment-backend/internal/workflow"
	"github.com/talentflow/recruitment-backend/pkg/database"
	"github.com/talentflow/recruitment-backend/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting recruitment backend",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	jobRepo := repository.NewJobRepository(db.DB, logger)
	stageRepo := repository.NewStageRepository(db.DB, logger)
	appRepo := repository.NewApplicationRepository(db.DB, logger)
	processRepo := repository.NewProcessRepository(db.DB, logger)
	transitionRepo := repository.NewTransitionRepository(db.DB, logger)

	// Services
	jobService := jobs.NewService(jobRepo, logger)
	pipelineService := pipeline.NewService(jobRepo, stageRepo, logger)
	resumeReader := resume.NewPDFReader(logger)
	candidacyService := candidacy.NewService(jobRepo, appRepo, resumeReader, logger)
	engine := workflow.NewEngine(db, appRepo, stageRepo, processRepo, transitionRepo, logger)
	exporter := report.NewExporter(cfg.Report.OutputDir, cfg.Report.CompanyName, engine, logger)
	gate := authz.NewGate(jobRepo, appRepo, logger)

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:             cfg.Server.Host,
		Port:             cfg.Server.Port,
		ReadTimeout:      cfg.Server.ReadTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        cfg.RateLimit.Limit,
		RateLimitWindow:  cfg.RateLimit.Window,
	}, jobService, pipelineService, candidacyService, engine, exporter, gate, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server stopped")
}
