package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/luxcatalog/lux/internal/catalog"
	"github.com/luxcatalog/lux/internal/client"
	"github.com/luxcatalog/lux/internal/model"
	"github.com/luxcatalog/lux/internal/server"
)

// source answers list and detail requests, either through a lux server or
// straight from a store file.
type source interface {
	List(ctx context.Context, req model.ListRequest) ([]model.ObjectSummary, error)
	Detail(ctx context.Context, id int64) (*model.DetailResponse, error)
	Name() string
	Close() error
}

// sourceFlags are the flags shared by list and show.
type sourceFlags struct {
	server  string
	dbPath  string
	timeout time.Duration
}

func (f *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.server, "server", "", "Server address (default from config, \"localhost:5555\")")
	fs.StringVar(&f.dbPath, "db", "", "Read this catalog store directly instead of asking a server")
	fs.DurationVar(&f.timeout, "timeout", 0, "Deadline for one exchange with the server")
}

// openSource picks the source: the store named by --db, otherwise the server.
func (a *app) openSource(cmd *cobra.Command, f *sourceFlags) (source, error) {
	if cmd.Flags().Changed("db") {
		db, err := catalog.Open(f.dbPath)
		if err != nil {
			return nil, err
		}
		return &storeSource{db: db}, nil
	}

	addr := a.cfg.Client.Server
	if cmd.Flags().Changed("server") {
		addr = f.server
	}
	timeout := a.cfg.Client.Timeout.Duration
	if cmd.Flags().Changed("timeout") {
		timeout = f.timeout
	}
	return &remoteSource{Client: client.New(addr, timeout)}, nil
}

type remoteSource struct {
	*client.Client
}

func (s *remoteSource) Name() string { return s.Addr }
func (s *remoteSource) Close() error { return nil }

// storeSource runs requests in-process through the same dispatcher the
// server uses.
type storeSource struct {
	db *catalog.Database
}

func (s *storeSource) List(ctx context.Context, req model.ListRequest) ([]model.ObjectSummary, error) {
	resp, err := server.Dispatch(ctx, s.db, req)
	if err != nil {
		return nil, err
	}
	return resp.List.Rows, nil
}

func (s *storeSource) Detail(ctx context.Context, id int64) (*model.DetailResponse, error) {
	resp, err := server.Dispatch(ctx, s.db, model.DetailRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return resp.Details, nil
}

func (s *storeSource) Name() string { return s.db.Path() }
func (s *storeSource) Close() error { return s.db.Close() }
