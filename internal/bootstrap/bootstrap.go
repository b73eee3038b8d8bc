package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/campuscare/support-triage/internal/config"
	"github.com/campuscare/support-triage/internal/core/domain"
	"github.com/campuscare/support-triage/internal/core/ports"
	"github.com/campuscare/support-triage/internal/core/usecase"
	"github.com/campuscare/support-triage/internal/infrastructure/queue/nats"
	"github.com/campuscare/support-triage/internal/infrastructure/repository/postgres"
	"github.com/campuscare/support-triage/internal/infrastructure/resilience"
)

type App struct {
	Config  config.Config
	Catalog *domain.Catalog

	Queue     ports.TriageQueue
	Repo      ports.DecisionRepository
	Router    ports.RequestRouter
	Validator ports.FacilityValidator
	AuditUC   ports.TriageRecorder

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDecisionRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultPolicy()),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	router := usecase.NewRouter(catalog, usecase.RouterConfig{
		LowConfidence:      cfg.RouterLowConfidence,
		CriticalConfidence: cfg.RouterCriticalConfidence,
	})
	validator := usecase.NewValidator(ValidatorConfigFrom(cfg))
	auditUC := usecase.NewAuditUseCase(router, repo)

	return &App{
		Config:  cfg,
		Catalog: catalog,

		Queue:     queue,
		Repo:      repo,
		Router:    router,
		Validator: validator,
		AuditUC:   auditUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func loadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return domain.LoadCatalog(data)
}

func ValidatorConfigFrom(cfg config.Config) usecase.ValidatorConfig {
	return usecase.ValidatorConfig{
		SimilarityHigh:        cfg.SimilarityHigh,
		SimilarityMedium:      cfg.SimilarityMedium,
		ScoreFallbackHigh:     cfg.ScoreFallbackHigh,
		ScoreFallbackMedium:   cfg.ScoreFallbackMedium,
		ScoreAnomalyHigh:      cfg.ScoreAnomalyHigh,
		ScoreAnomalyLow:       cfg.ScoreAnomalyLow,
		ScoreVarianceLimit:    cfg.ScoreVarianceLimit,
		CompletenessWarnBelow: cfg.CompletenessWarnBelow,
		WeightHigh:            cfg.WeightHigh,
		WeightMedium:          cfg.WeightMedium,
		WeightLow:             cfg.WeightLow,
		WeightUnknown:         cfg.WeightUnknown,
		BlendConfidence:       cfg.BlendConfidence,
		BlendCompleteness:     cfg.BlendCompleteness,
		BlendBase:             cfg.BlendBase,
		DisclaimerReassuring:  cfg.DisclaimerReassuring,
		DisclaimerCautionary:  cfg.DisclaimerCautionary,
	}
}
