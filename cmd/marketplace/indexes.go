package main

import (
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/database"
	"github.com/spf13/cobra"
)

func ensureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the MongoDB indexes the service relies on",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), "marketplace-migrate")
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.connectMongo(); err != nil {
				return err
			}
			return database.EnsureIndexes(cmd.Context(), database.DB)
		},
	}
}
