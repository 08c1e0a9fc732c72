package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/events"
	awspkg "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/pkg/aws"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume the event queue and send notification emails",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWorker(ctx)
		},
	}
}

func runWorker(ctx context.Context) error {
	a, err := bootstrap(ctx, "marketplace-worker")
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.SQSQueueURL == "" {
		return fmt.Errorf("SQS_QUEUE_URL not set")
	}
	if a.cfg.AdminEmail == "" {
		a.logger.Warn("ADMIN_EMAIL not set, seller application alerts will be skipped")
	}

	mailer, err := a.newMailer()
	if err != nil {
		return err
	}
	handler := events.NewEmailHandler(mailer, a.cfg.AdminEmail, a.logger)
	consumer := awspkg.NewSQSConsumer(a.awsCfg, a.cfg.SQSQueueURL, a.logger)

	a.logger.Info("Email worker started", zap.String("queue", a.cfg.SQSQueueURL))
	if err := consumer.StartPolling(ctx, handler.Handle); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info("Email worker stopped gracefully")
	return nil
}
