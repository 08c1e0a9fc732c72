package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Publish every pending outbox event once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.Context())
		},
	}
}

func runReconcile(ctx context.Context) error {
	a, err := bootstrap(ctx, "marketplace-reconcile")
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.connectMongo(); err != nil {
		return err
	}

	n, err := a.newDispatcher().DispatchOnce(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("Outbox reconciled", zap.Int("dispatched", n))
	return nil
}
