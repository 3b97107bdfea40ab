package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxcatalog/lux/internal/server"
)

func (a *app) newServeCmd() *cobra.Command {
	var (
		addr          string
		dbPath        string
		maxConcurrent int
		readTimeout   time.Duration
		writeTimeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve [port]",
		Short: "Serve the catalog over TCP",
		Long: `Serves list and detail requests against a catalog store.

Each connection carries one CBOR request and one CBOR response. The store is
opened read-only for every request, so it can be replaced while the server runs.

Examples:
  lux serve 5555 --db catalog.sqlite
  lux serve --addr 127.0.0.1:6000 --max-concurrent 8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Server
			if len(args) == 1 {
				port, err := strconv.Atoi(args[0])
				if err != nil || port < 0 || port > 65535 {
					return fmt.Errorf("invalid port %q", args[0])
				}
				cfg.Addr = net.JoinHostPort("", args[0])
			}

			flags := cmd.Flags()
			if flags.Changed("addr") {
				if len(args) == 1 {
					return fmt.Errorf("pass either a port argument or --addr, not both")
				}
				cfg.Addr = addr
			}
			if flags.Changed("max-concurrent") {
				cfg.MaxConcurrent = maxConcurrent
			}
			if flags.Changed("read-timeout") {
				cfg.ReadTimeout.Duration = readTimeout
			}
			if flags.Changed("write-timeout") {
				cfg.WriteTimeout.Duration = writeTimeout
			}
			path := a.cfg.Store.Path
			if flags.Changed("db") {
				path = dbPath
			}
			if _, err := os.Stat(path); err != nil {
				a.logger.Warn("catalog store not found; requests will fail until it exists", "path", path)
			}

			srv := server.New(server.Options{
				MaxConcurrent:   cfg.MaxConcurrent,
				ReadTimeout:     cfg.ReadTimeout.Duration,
				WriteTimeout:    cfg.WriteTimeout.Duration,
				MaxRequestBytes: cfg.MaxRequestBytes,
			}, server.OpenPath(path), a.logger)

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Debug("catalog store", "path", path)
			if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, \":5555\")")
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the catalog store")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 1, "Requests served at once; 1 serves strictly in order")
	cmd.Flags().DurationVar(&readTimeout, "read-timeout", 0, "Deadline for reading a request (0 disables)")
	cmd.Flags().DurationVar(&writeTimeout, "write-timeout", 0, "Deadline for writing a response (0 disables)")
	return cmd
}

// commandContext is the parent context for commands started without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
