package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jobtracker-engine/internal/config"
	"jobtracker-engine/internal/httpapi"
	"jobtracker-engine/internal/scheduler"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local engine (HTTP API, events, digest cleanup)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root, port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default app.port from config)")
	return cmd
}

const defaultCleanupSchedule = "@daily"

// newScheduler registers digest retention even when it is off at startup;
// the task reads the window on each run, so enabling it by config reload
// takes effect at the next tick.
func newScheduler(cfg config.Config, c scheduler.DigestCleaner, retentionDays func() int) (*scheduler.Scheduler, error) {
	spec := cfg.Digest.CleanupSchedule
	if spec == "" {
		spec = defaultCleanupSchedule
	}
	sched := scheduler.New()
	if err := sched.Add(spec, "digest-retention", scheduler.DigestRetention(c, retentionDays)); err != nil {
		return nil, err
	}
	return sched, nil
}

func runServe(ctx context.Context, root *rootOptions, port int) error {
	a, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.config()
	if port == 0 {
		port = cfg.App.Port
	}

	sched, err := newScheduler(cfg, a.tracker, func() int { return a.config().Digest.RetentionDays })
	if err != nil {
		return err
	}

	handler := httpapi.NewHandler(httpapi.Deps{
		Tracker:     a.tracker,
		Hub:         a.hub,
		CfgVal:      a.cfgVal,
		UserCfgPath: a.cfgPath,
		LoadCfg:     a.loadCfg,
		OnConfig: func(c config.Config) {
			a.tracker.Reconfigure(c)
			log.Printf("[config] reloaded path=%s", a.cfgPath)
		},
	})

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// request contexts end with the group so open event streams close on shutdown
		BaseContext: func(net.Listener) context.Context { return gctx },
	}
	log.Printf("engine listening on http://%s (backend=%s jobs=%d config=%s)", addr, a.stores.Backend, a.catalog.Len(), a.cfgPath)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Println("engine shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
