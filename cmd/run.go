package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/OblivionBC/AppointmentBot/internal/config"
	"github.com/OblivionBC/AppointmentBot/internal/db"
	"github.com/OblivionBC/AppointmentBot/internal/history"
	"github.com/OblivionBC/AppointmentBot/internal/logging"
	"github.com/OblivionBC/AppointmentBot/internal/migrate"
	"github.com/OblivionBC/AppointmentBot/internal/navigator"
	"github.com/OblivionBC/AppointmentBot/internal/notify"
	"github.com/OblivionBC/AppointmentBot/internal/orchestrator"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		only       string
		dryRun     bool
		headless   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one sweep of all navigators and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := logging.Setup(cfg.Environment)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var store history.Store
			if dryRun {
				// Nothing persists and nothing is claimed; the sweep just
				// shows what it would book.
				store = history.NewMemory()
			} else {
				d, err := db.Open(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer d.Close()
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
				store = history.NewRepo(d)
			}

			var notifier navigator.Notifier = notify.Nop{}
			if !dryRun && cfg.SMTP.Enabled() {
				notifier = notify.NewEmail(cfg.SMTP, logger)
			}

			navs, cleanup, err := buildNavigators(cfg, store, history.NewTypeLocks(), notifier, logger, headless, dryRun)
			if err != nil {
				return err
			}
			defer cleanup()

			if only != "" {
				filtered := navs[:0]
				for _, n := range navs {
					if n.Name == only {
						filtered = append(filtered, n)
					}
				}
				if len(filtered) == 0 {
					return fmt.Errorf("no navigator named %q in config", only)
				}
				navs = filtered
			}

			o := &orchestrator.Orchestrator{
				Navigators: navs,
				Notifier:   notifier,
				Logger:     logger.With().Str("component", "orchestrator").Logger(),
			}
			committed := o.Sweep(ctx)
			fmt.Fprintf(os.Stdout, "sweep complete: %d signup(s)\n", committed)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	cmd.Flags().StringVar(&only, "navigator", "", "run a single navigator by name")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "discover and simulate, but never claim or persist")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	return cmd
}
