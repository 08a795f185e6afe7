package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"chatsafety-server/pkg/alerting"
	"chatsafety-server/pkg/chat"
	"chatsafety-server/pkg/config"
	"chatsafety-server/pkg/database"
	"chatsafety-server/pkg/detection"
	http_server "chatsafety-server/pkg/http"
	"chatsafety-server/pkg/lexicon"
	"chatsafety-server/pkg/messaging"
	"chatsafety-server/pkg/metrics"
	"chatsafety-server/pkg/version"
)

var logger = logrus.New()

func main() {
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	cfg, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("level", cfg.Logging.Level).Warn("Unknown log level, using info")
	}
	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.WithField("version", version.Version).Info("Starting chat safety server")

	metrics.Init(logger)

	// Lexicon persistence: MySQL when configured, built-in seed otherwise
	var fetcher lexicon.Fetcher
	var lexiconRepo *database.LexiconRepository
	if cfg.Database.Enabled {
		dbConfig := database.DefaultMySQLConfig()
		dbConfig.Host = cfg.Database.Host
		dbConfig.Port = cfg.Database.Port
		dbConfig.Database = cfg.Database.Name
		dbConfig.Username = cfg.Database.Username
		dbConfig.Password = cfg.Database.Password

		lexiconRepo, err = database.NewLexiconRepository(logger, dbConfig)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to lexicon database")
		}
		defer lexiconRepo.Close()
		fetcher = lexiconRepo
	} else {
		logger.Info("Database disabled, using built-in seed lexicon")
		fetcher = lexicon.SeedFetcher()
	}

	lexicons := lexicon.NewStore(logger, fetcher, &lexicon.StoreConfig{
		SupportedLanguages: cfg.Lexicon.SupportedLanguages,
		DefaultLanguage:    cfg.Lexicon.DefaultLanguage,
	})

	engine := detection.NewEngine(logger, &detection.EngineConfig{
		MaxEditDistance: cfg.Detection.MaxEditDistance,
		MaxLengthDelta:  cfg.Detection.MaxLengthDelta,
	})

	scheduler := chat.NewDisclaimerScheduler(cfg.Scheduler.Cooldown)
	store := chat.NewMemoryStore()

	// Notification surface: always log, optionally webhook
	channels := []alerting.Notifier{alerting.NewLogNotifier(logger)}
	if cfg.Alerting.WebhookURL != "" {
		channels = append(channels, alerting.NewWebhookNotifier("webhook", cfg.Alerting.WebhookURL, nil))
	}
	notifier := alerting.NewDispatcher(logger, channels...)

	// Optional AMQP detection event publishing
	var publisher chat.EventPublisher
	if cfg.Messaging.Enabled() {
		amqpClient := messaging.NewAMQPClient(logger, messaging.AMQPConfig{
			URL:          cfg.Messaging.AMQPUrl,
			QueueName:    cfg.Messaging.QueueName,
			ExchangeName: cfg.Messaging.ExchangeName,
			RoutingKey:   cfg.Messaging.RoutingKey,
		})
		if err := amqpClient.Connect(); err != nil {
			logger.WithError(err).Warn("AMQP connection failed, detection events will not be published")
		} else {
			publisher = amqpClient
			defer amqpClient.Disconnect()
		}
	}

	pipeline := chat.NewPipeline(
		logger,
		&chat.PipelineConfig{
			Language:            cfg.Lexicon.DefaultLanguage,
			ConfidenceThreshold: cfg.Detection.ConfidenceThreshold,
		},
		store,
		lexicons,
		engine,
		scheduler,
		notifier,
		publisher,
		nil,
	)

	var httpServer *http_server.Server
	if cfg.HTTP.Enabled {
		httpServer = http_server.NewServer(logger, &http_server.Config{
			Port:          cfg.HTTP.Port,
			ReadTimeout:   cfg.HTTP.ReadTimeout,
			WriteTimeout:  cfg.HTTP.WriteTimeout,
			EnableMetrics: cfg.HTTP.EnableMetrics,
		}, pipeline)
		httpServer.Start()
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.WithField("signal", sig.String()).Info("Shutting down")

	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("HTTP server shutdown failed")
		}
	}
}
