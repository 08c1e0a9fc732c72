package main

import (
	"context"
	"fmt"
	"io"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/logger"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/config"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/database"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/events"
	awspkg "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/pkg/aws"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/sender"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"
)

// app holds what every command needs: settings, logger, AWS config and, when
// connected, the database.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	awsCfg  sdkaws.Config
	metrics *awspkg.MetricsClient
	closers []io.Closer
}

// bootstrap loads settings and builds the logger. CloudWatch log shipping is
// attached when CLOUDWATCH_ENABLED=true.
func bootstrap(ctx context.Context, serviceName string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	var shipper io.Writer
	cwLogs, cwErr := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, serviceName)
	if cwLogs != nil {
		shipper = cwLogs
	}

	log, err := logger.Initialize(cfg.AppEnv, shipper)
	if err != nil {
		return nil, err
	}
	if cwErr != nil {
		log.Warn("CloudWatch log shipping disabled", zap.Error(cwErr))
	}

	return &app{
		cfg:     cfg,
		logger:  log.With(zap.String("service", serviceName)),
		awsCfg:  awsCfg,
		metrics: awspkg.NewMetricsClient(awsCfg),
	}, nil
}

func (a *app) connectMongo() error {
	if err := database.ConnectWithConfig(a.cfg.MongoURI, a.cfg.MongoDB); err != nil {
		return err
	}
	a.closers = append(a.closers, closerFunc(database.Close))
	return nil
}

// newMailer returns the templated mailer over SMTP, or over the log sender
// when SMTP is not configured.
func (a *app) newMailer() (*sender.Mailer, error) {
	return sender.NewMailer(sender.New(a.cfg.SMTP, a.logger), a.logger)
}

// newPublisher fans events out to every configured broker. With none configured
// events are only logged.
func (a *app) newPublisher() events.Publisher {
	var publishers events.MultiPublisher
	if a.cfg.EventsSNSTopicARN != "" {
		publishers = append(publishers, events.NewSNSPublisher(awspkg.NewSNSClient(a.awsCfg), a.cfg.EventsSNSTopicARN))
	}
	if len(a.cfg.KafkaBrokers) > 0 {
		kafka := events.NewKafkaPublisher(a.cfg.KafkaBrokers, a.cfg.KafkaTopic)
		a.closers = append(a.closers, kafka)
		publishers = append(publishers, kafka)
	}
	if len(publishers) == 0 {
		a.logger.Warn("No event broker configured, outbox events will only be logged")
		return events.LogPublisher{Log: func(env events.Envelope) {
			a.logger.Info("Event published", zap.String("event_id", env.ID), zap.String("event_type", env.EventType))
		}}
	}
	return publishers
}

func (a *app) newDispatcher() *events.Dispatcher {
	outbox := repository.NewMongoOutboxRepository(database.DB)
	return events.NewDispatcher(outbox, a.newPublisher(), a.metrics, a.logger)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("Shutdown step failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
