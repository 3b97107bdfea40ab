// Package client talks to a lux server: one connection per request.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/luxcatalog/lux/internal/codec"
	"github.com/luxcatalog/lux/internal/model"
)

// DefaultTimeout bounds one exchange when the caller sets none.
const DefaultTimeout = 30 * time.Second

// ErrNoResponse means the server closed or reset the connection without
// answering, which is how it reports a malformed request or a store failure.
var ErrNoResponse = errors.New("server closed the connection without a response")

// Client sends requests to the server at Addr.
type Client struct {
	Addr    string
	Timeout time.Duration
}

// New creates a client for addr. A zero timeout means DefaultTimeout.
func New(addr string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{Addr: addr, Timeout: timeout}
}

// Do performs one exchange: connect, write req, read the response, close.
func (c *Client) Do(ctx context.Context, req model.Request) (*model.Response, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.Addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { conn.SetDeadline(time.Now()) })
	defer stop()

	if err := codec.WriteRequest(conn, req); err != nil {
		return nil, fmt.Errorf("send %s request: %w", req.Kind(), err)
	}

	resp, err := codec.ReadResponse(conn)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) {
			return nil, ErrNoResponse
		}
		return nil, fmt.Errorf("read %s response: %w", req.Kind(), err)
	}
	if resp.Kind() != req.Kind() {
		return nil, fmt.Errorf("server answered a %s request with a %s response", req.Kind(), resp.Kind())
	}
	return resp, nil
}

// List returns the summaries matching req.
func (c *Client) List(ctx context.Context, req model.ListRequest) ([]model.ObjectSummary, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.List.Rows, nil
}

// Detail returns the record of object id. The object was not found when the
// result's Found reports false.
func (c *Client) Detail(ctx context.Context, id int64) (*model.DetailResponse, error) {
	resp, err := c.Do(ctx, model.DetailRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return resp.Details, nil
}
