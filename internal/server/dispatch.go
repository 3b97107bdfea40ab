package server

import (
	"context"
	"fmt"

	"github.com/luxcatalog/lux/internal/catalog"
	"github.com/luxcatalog/lux/internal/model"
	"github.com/luxcatalog/lux/internal/query"
)

// Dispatch routes req to the list builder or the detail aggregator and wraps
// the result in a response envelope.
func Dispatch(ctx context.Context, gw catalog.Gateway, req model.Request) (*model.Response, error) {
	e := query.NewExecutor(gw)

	switch r := req.(type) {
	case model.ListRequest:
		rows, err := e.List(ctx, r)
		if err != nil {
			return nil, err
		}
		return &model.Response{List: &model.ListResponse{Rows: rows}}, nil
	case model.DetailRequest:
		details, err := e.Detail(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		return &model.Response{Details: details}, nil
	default:
		return nil, fmt.Errorf("unsupported request type %T", req)
	}
}

// rowCount is the number of records a response carries, for logging.
func rowCount(resp *model.Response) int {
	switch {
	case resp.List != nil:
		return len(resp.List.Rows)
	case resp.Details.Found():
		return 1
	}
	return 0
}
