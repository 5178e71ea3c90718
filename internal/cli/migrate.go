package cli

import (
	"github.com/hadywafa/DatabaseHub/internal/config"
	"github.com/hadywafa/DatabaseHub/internal/database"
	"github.com/hadywafa/DatabaseHub/internal/logger"
	"github.com/spf13/cobra"
)

func NewMigrateCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			log := logger.NewLogger(cfg.Observability)
			return database.Migrate(cmd.Context(), &log, cfg)
		},
	}
}
