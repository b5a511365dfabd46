package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillsense/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := appConfig.RequireJWTSecret()
		if err != nil {
			return err
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if appConfig.App.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		svc := httpapi.Services{
			Analysis:  d.analysis,
			Profiles:  d.profiles,
			Recommend: d.mapper,
			Metrics:   d.metrics,
		}
		if d.requireAI() == nil {
			svc.Assessment = d.assessment
			svc.Coach = d.coach
		} else {
			slog.Warn("serving without AI endpoints", "reason", errNoLLM)
		}

		srv := httpapi.New(svc, httpapi.Config{
			JWTSecret:      secret,
			AllowedOrigins: appConfig.Server.AllowedOrigins,
			ResumeMaxRunes: appConfig.Resume.MaxRunes,
			LogOutput:      os.Stderr,
		})

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = appConfig.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
