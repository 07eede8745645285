package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/config"
	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/inspect"
	"github.com/vango-dev/vpatch/pkg/metrics"
	"github.com/vango-dev/vpatch/pkg/native/memdom"
	"github.com/vango-dev/vpatch/pkg/snapshot"
	"github.com/vango-dev/vpatch/pkg/tree"
	"github.com/vango-dev/vpatch/pkg/treefile"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

type serveOptions struct {
	addr     string
	interval time.Duration
	loop     bool
}

func serveCmd(g *globals) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve <doc>...",
		Short: "Replay documents against a live tree with an inspector",
		Long: `Mount the first document as a live tree, then update it to each
following document in turn while serving the inspector.

The inspector serves the current HTML, the virtual tree, recorded frames,
Prometheus metrics and a websocket stream of cycles. Press Ctrl+C to stop.

Examples:
  vpatch serve v1.yaml v2.yaml v3.yaml
  vpatch serve v1.yaml v2.yaml --loop --interval=500ms
  vpatch serve page.yaml --addr=:8080`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				opts.addr = cfg.Inspect.Addr
			}
			if !cmd.Flags().Changed("interval") {
				opts.interval = cfg.ReplayInterval()
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runServe(ctx, g, cfg, cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", config.DefaultAddr, "Inspector listen address")
	cmd.Flags().DurationVarP(&opts.interval, "interval", "i", time.Second, "Delay between updates")
	cmd.Flags().BoolVar(&opts.loop, "loop", false, "Start over after the last document")

	return cmd
}

func runServe(ctx context.Context, g *globals, cfg *config.Config, cmd *cobra.Command, paths []string, opts serveOptions) error {
	out := cmd.OutOrStdout()

	docs := make([]vdom.Node, 0, len(paths))
	for _, p := range paths {
		n, err := treefile.Load(p)
		if err != nil {
			return err
		}
		docs = append(docs, n)
	}

	logger, err := g.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	inspectOpts := []inspect.Option{
		inspect.WithLogger(logger),
		inspect.WithTracerName(cfg.Tracing.TracerName),
	}
	treeOpts := []tree.Option{
		tree.WithLogger(logger),
		tree.WithPolicy(cfg.Policy()),
		tree.WithTracerName(cfg.Tracing.TracerName),
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.New(
			metrics.WithRegistry(reg),
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithSubsystem(cfg.Metrics.Subsystem),
		)
		treeOpts = append(treeOpts, tree.WithMetrics(collector))
		inspectOpts = append(inspectOpts, inspect.WithRegistry(reg))
	}

	if cfg.SnapshotsEnabled() {
		store, err := snapshot.Open(cfg.SnapshotOptions())
		if err != nil {
			return err
		}
		treeOpts = append(treeOpts, tree.WithRecorder(snapshot.NewRecorder(store, snapshot.WithMetrics(collector))))
		inspectOpts = append(inspectOpts, inspect.WithStore(store, snapshot.DefaultPrefix))
		info(out, "Recording frames to the %s store", cfg.Snapshots.Driver)
	}

	srv := inspect.New(inspectOpts...)
	treeOpts = append(treeOpts, tree.WithObserver(srv))

	t, err := tree.Mount(memdom.New(), docs[0], treeOpts...)
	if err != nil {
		return err
	}
	srv.Attach(t)

	success(out, "Inspector running at http://%s", opts.addr)
	info(out, "Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe(ctx, opts.addr)
		cancel()
		serveErr <- err
	}()

	if err := replay(ctx, logger, t, docs, opts); err != nil {
		return err
	}
	if !opts.loop && len(docs) > 1 {
		info(out, "Replayed %d documents, still serving the final tree", len(docs))
	}

	if err := <-serveErr; err != nil {
		return errors.New("E180").WithDetailf("serving on %s", opts.addr).Wrap(err)
	}
	fmt.Fprintln(out)
	success(out, "Inspector stopped")
	return nil
}

// replay updates t to each document after the first, waiting interval
// between updates. It returns when ctx is canceled, or after the last
// document unless loop is set. A failed cycle is logged and the replay moves
// on to the next document.
func replay(ctx context.Context, logger *slog.Logger, t *tree.Tree, docs []vdom.Node, opts serveOptions) error {
	if len(docs) < 2 {
		return nil
	}

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		i++
		if i == len(docs) {
			if !opts.loop {
				return nil
			}
			i = 0
		}

		if _, err := t.Update(ctx, docs[i]); err != nil {
			logger.Error("update failed", "doc", i, "error", err)
		}
	}
}
