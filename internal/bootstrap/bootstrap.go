package bootstrap

import (
	"fmt"
	"log/slog"

	"peerblind/internal/config"
	"peerblind/internal/core/usecase"
	"peerblind/internal/infrastructure/extractor/pdftext"
	"peerblind/internal/infrastructure/llm/chatapi"
	natsqueue "peerblind/internal/infrastructure/queue/nats"
	"peerblind/internal/infrastructure/render/pandoc"
	"peerblind/internal/infrastructure/resilience"
	"peerblind/internal/infrastructure/storage/csvstore"
	"peerblind/internal/infrastructure/storage/docdir"
	"peerblind/internal/observability/metrics"
)

// BuildAIReviews wires the AI review generation stack from configuration.
// The same wiring serves the CLI's local mode and the queue worker.
func BuildAIReviews(cfg config.Config, logger *slog.Logger) (*usecase.GenerateAIReviewsUseCase, error) {
	generator, err := chatapi.New(chatapi.Config{
		Deployments: []chatapi.Deployment{
			{BaseURL: cfg.ChatBaseURL1, APIKey: cfg.ChatAPIKey1, Model: cfg.ChatModel1},
			{BaseURL: cfg.ChatBaseURL2, APIKey: cfg.ChatAPIKey2, Model: cfg.ChatModel2},
		},
		Temperature:       cfg.ChatTemperature,
		MaxTokens:         cfg.ChatMaxTokens,
		RequestsPerMinute: cfg.ChatRequestsPerMinute,
	}, resilience.NewExecutor(resilience.DefaultConfig(), logger))
	if err != nil {
		return nil, fmt.Errorf("build chat client: %w", err)
	}

	return usecase.NewGenerateAIReviewsUseCase(
		docdir.New(cfg.ProposalsDir),
		csvstore.NewStore(cfg.OutputDir),
		&pdftext.Extractor{},
		generator,
		pandoc.NewWriter(cfg.ReviewsDir, logger),
		usecase.AIReviewConfig{BriefProbability: cfg.BriefReviewProbability},
		nil,
		logger,
	), nil
}

// WorkerApp is the wired review generation worker.
type WorkerApp struct {
	Queue     *natsqueue.Queue
	AIReviews *usecase.GenerateAIReviewsUseCase
	Metrics   *metrics.WorkerMetrics
}

func NewWorkerApp(cfg config.Config, logger *slog.Logger) (*WorkerApp, error) {
	uc, err := BuildAIReviews(cfg, logger)
	if err != nil {
		return nil, err
	}

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig(), logger),
		Logger:             logger,
	})
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		Queue:     queue,
		AIReviews: uc,
		Metrics:   metrics.NewWorkerMetrics("reviewworker"),
	}, nil
}

func (a *WorkerApp) Close() {
	if a.Queue != nil {
		a.Queue.Close()
	}
}
