package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"voice-tutor-service/internal/app"
	"voice-tutor-service/internal/config"
	"voice-tutor-service/internal/content"
	"voice-tutor-service/internal/events"
	httpapi "voice-tutor-service/internal/http"
	"voice-tutor-service/internal/observability"
	"voice-tutor-service/internal/results"
	"voice-tutor-service/internal/service/conversation"
	"voice-tutor-service/internal/service/evaluate"
	"voice-tutor-service/internal/service/session"
	"voice-tutor-service/internal/service/stt"
	"voice-tutor-service/internal/service/stt/google"
	"voice-tutor-service/internal/service/stt/mock"
	"voice-tutor-service/internal/service/transcribe"
	"voice-tutor-service/internal/twiml"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	logger := application.Logger

	if err := application.Start(); err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}

	ctx := context.Background()

	// Postgres is optional; without it the demo catalog serves content
	// and results go to Kafka (or the log) only.
	var pool *pgxpool.Pool
	if cfg.Postgres.DSN != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres pool failed")
		}
		defer pool.Close()
	}

	var gateway content.Gateway
	if pool != nil {
		gateway = content.NewPostgresGateway(pool)
	} else {
		logger.Info().Msg("no POSTGRES_DSN set, serving the built-in demo catalog")
		gateway = content.NewStaticGateway(content.DemoCatalog())
	}

	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicAnswer:  cfg.Kafka.TopicAnswer,
		TopicSummary: cfg.Kafka.TopicSummary,
		Principal:    cfg.Kafka.Principal,
	})
	defer publisher.Close()

	sinks := results.Fanout{results.NewKafkaSink(publisher)}
	if pool != nil {
		sinks = append(sinks, results.NewPostgresSink(pool))
	}

	var adapter stt.Adapter
	if cfg.STT.Provider == "google" {
		g, err := google.New(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("google stt adapter failed")
		}
		defer g.Close()
		adapter = g
	} else {
		logger.Info().Str("provider", cfg.STT.Provider).Msg("using mock STT adapter")
		adapter = mock.New()
	}

	mailbox := transcribe.NewMailbox()
	downloader := transcribe.NewDownloader(
		&http.Client{Timeout: 10 * time.Second},
		cfg.Telephony.AccountSID,
		cfg.Telephony.AuthToken,
		cfg.Transcribe.DownloadRetry,
	)
	pipeline := transcribe.New(mailbox, downloader, adapter, transcribe.Config{
		PrimaryWait:      cfg.Transcribe.PrimaryWait,
		SecondaryTimeout: cfg.Transcribe.SecondaryTimeout,
		SampleRateHz:     int32(cfg.STT.SampleRateHz),
	})

	// Evicted calls must not leave parked transcriptions behind.
	store := session.NewStore(func(callID string, _ session.CallSession, _ session.EvictReason) {
		mailbox.Drop(callID)
	})
	sweeper := session.NewSweeper(store, cfg.Session.TTL, cfg.Session.SweepInterval)
	sweeper.Start(ctx)

	evaluator := evaluate.New(evaluate.Thresholds{
		MaxKeywordHits:     cfg.Evaluator.MaxKeywordHits,
		MaxUtteranceWords:  cfg.Evaluator.MaxUtteranceWords,
		ChoiceSimilarity:   cfg.Evaluator.ChoiceSimilarity,
		WordSimilarity:     cfg.Evaluator.WordSimilarity,
		WordOverlap:        cfg.Evaluator.WordOverlap,
		FreeTextSimilarity: cfg.Evaluator.FreeTextSimilarity,
		KeywordShare:       cfg.Evaluator.KeywordShare,
		BlankSimilarity:    cfg.Evaluator.BlankSimilarity,
	})
	engine := conversation.New(evaluator, gateway, sinks)

	recordCfg := twiml.RecordConfig{
		ActionURL:     cfg.Service.PublicBaseURL + "/v1/voice/process",
		TranscribeURL: cfg.Service.PublicBaseURL + "/v1/voice/transcribe",
		TimeoutSec:    cfg.Telephony.RecordTimeoutSec,
		MaxLengthSec:  cfg.Telephony.RecordMaxLengthSec,
		FinishKey:     cfg.Telephony.FinishKey,
		Trim:          true,
	}
	handler := httpapi.NewHandler(store, engine, pipeline, mailbox, gateway, recordCfg)
	router := httpapi.NewRouter(handler)

	var readyChecks []observability.ReadyCheck
	if pool != nil {
		readyChecks = append(readyChecks, observability.ReadyCheck{
			Name:  "postgres",
			Probe: pool.Ping,
		})
	}
	obs := observability.NewServer(":"+cfg.Observability.MetricsPort, readyChecks...)
	obs.Start()

	server := &http.Server{
		Addr:              ":" + cfg.Service.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Voice tutor service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("metrics shutdown failed")
	}
	sweeper.Stop()
	application.Shutdown()
}
