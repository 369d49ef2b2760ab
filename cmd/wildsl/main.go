package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wildsl/internal/config"
	appLog "wildsl/internal/log"
)

const version = "0.1.0"

// rootFlags holds persistent CLI flag values.
type rootFlags struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		appLog.Error("wildsl failed", err)
		appLog.Sync()
		os.Exit(1)
	}
	appLog.Sync()
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	var conf *config.Config

	root := &cobra.Command{
		Use:           "wildsl",
		Short:         "Wild Sri Lanka site server",
		Long:          "wildsl serves the Wild Sri Lanka site, its JSON documents, and an API of classified event and project listings.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(flags)
			if err != nil {
				return err
			}
			conf = c
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "/etc/wildsl/config.yaml", "Path to config file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, error (overrides config if set)")

	getConf := func() *config.Config { return conf }
	root.AddCommand(
		newServeCmd(getConf),
		newClassifyCmd(getConf),
		newCaptureCmd(getConf),
	)
	return root
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		if conf == nil {
			return nil, err
		}
	}
	level := conf.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(level))
	return conf, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
