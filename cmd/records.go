package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/OblivionBC/AppointmentBot/internal/config"
	"github.com/OblivionBC/AppointmentBot/internal/db"
	"github.com/OblivionBC/AppointmentBot/internal/history"
	"github.com/OblivionBC/AppointmentBot/internal/migrate"
)

func newRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect the signup ledger",
	}
	cmd.AddCommand(newRecordsListCmd())
	return cmd
}

func newRecordsListCmd() *cobra.Command {
	var configPath string

	c := &cobra.Command{
		Use:   "list",
		Short: "List recorded signups",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx := context.Background()
			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := migrate.Up(ctx, d); err != nil {
				return err
			}

			repo := history.NewRepo(d)
			recs, err := repo.List(ctx)
			if err != nil {
				return err
			}
			for _, r := range recs {
				fmt.Fprintf(os.Stdout, "id=%d type=%s start=%s end=%s source=%q recorded=%s\n",
					r.ID, r.Type, r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339), r.SourceID, r.RecordedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	c.Flags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	return c
}
