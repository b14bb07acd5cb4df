package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"linkrelay/bot"
	"linkrelay/bot/core"
	"linkrelay/config"
	"linkrelay/database"
	"linkrelay/ext"
	"linkrelay/logger"
	"linkrelay/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	logLevel   string
	strategies string
)

var rootCmd = &cobra.Command{
	Use:   "linkrelay",
	Short: "Telegram bot that resolves Pixeldrain and RedGIFs links",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(logLevel)
		return nil
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot and its HTTP server",
	RunE:  runServe,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <text>",
	Short: "Resolve the first supported link in text and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level, overrides LOG_LEVEL")
	resolveCmd.Flags().StringVar(&strategies, "strategies", "", "RedGIFs strategy order, overrides REDGIFS_STRATEGIES")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resolveCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, requireToken bool) error {
	err := config.Load()
	if err != nil && (requireToken || !errors.Is(err, config.ErrMissingToken)) {
		return err
	}
	if !cmd.Flags().Changed("log-level") {
		logger.SetLevel(config.Env.LogLevel)
	}
	logger.SetDumpDir(config.Env.LogDumpDir)
	zap.S().Debugf("loaded %d extractors", len(ext.List))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(cmd, true); err != nil {
		return err
	}

	if config.Env.DatabaseEnabled() {
		if err := database.Start(config.Env); err != nil {
			return err
		}
	} else {
		zap.S().Info("DB_HOST is not set, running without database")
	}

	instance, err := bot.New(config.Env)
	if err != nil {
		return err
	}

	var webhook http.Handler
	if config.Env.Mode == config.ModeWebhook {
		webhook = instance.WebhookHandler()
	}
	srv := server.New(config.Env.Port, config.Env.BotToken, webhook)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return instance.Run(ctx)
	})
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	return g.Wait()
}

func runResolve(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd, false); err != nil {
		return err
	}
	if strategies != "" {
		config.Env.RedGIFsStrategies = strings.Split(strategies, ",")
	}

	text := strings.Join(args, " ")
	for codeName, links := range ext.FindLinks(text) {
		zap.S().Debugf("found %s links: %v", codeName, links)
	}

	resolveCtx, err := ext.CtxByText(text)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if resolveCtx == nil {
		fmt.Fprintln(out, "Send a Pixeldrain or RedGIFs link")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()
	resolveCtx.Context = ctx

	response, err := ext.Resolve(resolveCtx)
	if err != nil {
		return err
	}
	if response.FallbackPayload != "" && config.Env.ReportAPIFallback {
		fmt.Fprintf(out, "[API fallback used]\n\n%s\n\n", response.FallbackPayload)
	}
	fmt.Fprintln(out, core.FormatReply(resolveCtx.Extractor.Service, response.Items))
	zap.S().Debugf("resolved with strategy %s", response.Strategy)
	return nil
}
