package main

import (
	"github.com/spf13/cobra"

	"github.com/qolzam/bookcatalog/internal/pkg/log"
	platformconfig "github.com/qolzam/bookcatalog/internal/platform/config"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the books table and its indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := platformconfig.LoadFromEnv()
			if err != nil {
				return err
			}
			client, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer client.Close()
			log.Info("Migrated %s database", client.Dialect())
			return nil
		},
	}
}
