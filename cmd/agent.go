package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/OblivionBC/AppointmentBot/internal/auth"
	"github.com/OblivionBC/AppointmentBot/internal/config"
	"github.com/OblivionBC/AppointmentBot/internal/db"
	"github.com/OblivionBC/AppointmentBot/internal/history"
	"github.com/OblivionBC/AppointmentBot/internal/logging"
	"github.com/OblivionBC/AppointmentBot/internal/migrate"
	"github.com/OblivionBC/AppointmentBot/internal/navigator"
	"github.com/OblivionBC/AppointmentBot/internal/notify"
	"github.com/OblivionBC/AppointmentBot/internal/orchestrator"
	"github.com/OblivionBC/AppointmentBot/internal/web"
)

func newAgentCmd() *cobra.Command {
	var (
		configPath string
		migrateUp  bool
		headless   bool
	)

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run the booking agent: periodic sweeps plus the status web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if len(cfg.CookieHashKey) == 0 || len(cfg.CookieBlockKey) == 0 {
				return fmt.Errorf("COOKIE_HASH_KEY and COOKIE_BLOCK_KEY are required (see `apptbot keys`)")
			}

			logger := logging.Setup(cfg.Environment)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()
			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}
			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			store := history.NewRepo(d)
			locks := history.NewTypeLocks()

			var notifier navigator.Notifier = notify.Nop{}
			if cfg.SMTP.Enabled() {
				notifier = notify.NewEmail(cfg.SMTP, logger)
			} else {
				logger.Warn().Msg("SMTP not configured, notifications disabled")
			}

			navs, cleanup, err := buildNavigators(cfg, store, locks, notifier, logger, headless, false)
			if err != nil {
				return err
			}
			defer cleanup()

			o := &orchestrator.Orchestrator{
				Navigators: navs,
				Notifier:   notifier,
				Interval:   cfg.SweepInterval,
				Logger:     logger.With().Str("component", "orchestrator").Logger(),
			}
			go func() { _ = o.Run(ctx) }()

			ws := &web.Server{
				Auth:       auth.NewStore(d, cfg.CookieHashKey, cfg.CookieBlockKey),
				History:    store,
				Navigators: navigatorViews(navs),
				Logger:     logger.With().Str("component", "web").Logger(),
			}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes(), ws.Logger)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	return cmd
}

func navigatorViews(navs []*navigator.Navigator) []web.NavigatorView {
	out := make([]web.NavigatorView, 0, len(navs))
	for _, n := range navs {
		out = append(out, web.NavigatorView{
			Name:   n.Name,
			Type:   string(n.Type),
			Policy: n.Protocol.Name(),
			Sites:  len(n.Sites),
			Prefs:  len(n.Prefs),
		})
	}
	return out
}
