package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/umezakip/portfolio/internal/config"
	"github.com/umezakip/portfolio/internal/content"
	"github.com/umezakip/portfolio/internal/logger"
	"github.com/umezakip/portfolio/internal/session"
	"github.com/umezakip/portfolio/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Initialize(&cfg.Log); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.CloseGlobal()

	mainLog := logger.GetLogger("main")
	mainLog.Info().Str("mode", cfg.Server.Mode).Msg("Starting portfolio")
	gin.SetMode(cfg.Server.Mode)

	catalog, err := content.Load(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	if missing := catalog.MissingCaseStudies(); len(missing) > 0 {
		mainLog.Info().Strs("ids", missing).Msg("Gallery entries without a case study render the not-found view")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := session.Open(ctx, cfg.Session.DSN, cfg.Session.TTL)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer store.Close()
	go store.RunSweeper(ctx, cfg.Session.SweepInterval)

	srv, err := web.New(cfg, catalog, store)
	if err != nil {
		return fmt.Errorf("building server: %w", err)
	}

	if err := srv.Run(ctx); err != nil {
		mainLog.Error().Err(err).Msg("Server error")
		return err
	}
	mainLog.Info().Msg("Portfolio shut down")
	return nil
}
