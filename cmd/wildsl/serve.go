package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"wildsl/internal/config"
	"wildsl/internal/content"
	appLog "wildsl/internal/log"
	"wildsl/internal/recur"
	"wildsl/internal/schedule"
	"wildsl/internal/status"
	"wildsl/internal/watch"
	"wildsl/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(getConf func() *config.Config) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and API until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := getConf()
			// CLI --listen overrides config file listen if provided.
			if listen != "" {
				conf.Listen = listen
			}
			ctx, cancel := signalContext()
			defer cancel()
			return runServe(ctx, conf)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}

// openContent resolves the timezone and data source shared by all commands.
func openContent(conf *config.Config) (*content.Loader, *schedule.Classifier, error) {
	loc, err := conf.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", conf.Timezone)
	}
	src, err := content.OpenSource(conf.Data.Base, conf.Data.CacheDir, web.StaticFS())
	if err != nil {
		return nil, nil, err
	}
	loader := content.NewLoader(src, recur.Config{
		Location:       loc,
		HorizonDays:    conf.Recurrence.HorizonDays,
		MaxOccurrences: conf.Recurrence.MaxOccurrences,
	})
	return loader, schedule.New(loc, conf.EventsPolicy()), nil
}

func runServe(ctx context.Context, conf *config.Config) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	loader, classifier, err := openContent(conf)
	if err != nil {
		return err
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", classifier.Location().String(),
		"refresh", conf.RefreshCron,
		"cache_ttl_seconds", conf.CacheTTLSeconds,
		"data", loader.Source().String(),
		"watch", conf.Data.Watch,
	)

	refresher := status.NewRefresher(loader, classifier)
	srv := web.NewServer(conf, loader, classifier, refresher)
	refresher.OnRefresh(func(status.Snapshot) { srv.InvalidateCache() })

	if err := refresher.Start(conf.RefreshCron); err != nil {
		return err
	}
	defer refresher.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	defer stop()

	if conf.Data.Watch && content.IsDir(conf.Data.Base) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := watch.Dir(ctx, conf.Data.Base, watch.DefaultDebounce, func() {
				refresher.Refresh(ctx)
			})
			if err != nil {
				appLog.Error("data watcher stopped", err, "dir", conf.Data.Base)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:              conf.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen, "version", version)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	appLog.Info("wildsl exiting")
	return nil
}
