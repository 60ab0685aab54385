package db

import (
	"context"
	"fmt"

	"redbus-search/internal/redbus"
	"redbus-search/internal/table"
)

// FetchStrings runs a single-column query and returns the values in order.
func FetchStrings(ctx context.Context, q Querier, query Query) ([]string, error) {
	rows, err := q.QueryContext(ctx, query.SQL, query.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func FetchStates(ctx context.Context, q Querier) ([]string, error) {
	query, err := DistinctValues(StateNames)
	if err != nil {
		return nil, err
	}
	states, err := FetchStrings(ctx, q, query)
	if err != nil {
		return nil, redbus.QueryError("fetch states", err)
	}
	return states, nil
}

func FetchBusTypes(ctx context.Context, q Querier) ([]string, error) {
	query, err := DistinctValues(BusTypes)
	if err != nil {
		return nil, err
	}
	types, err := FetchStrings(ctx, q, query)
	if err != nil {
		return nil, redbus.QueryError("fetch bus types", err)
	}
	return types, nil
}

func FetchRouteNames(ctx context.Context, q Querier, state string) ([]string, error) {
	routes, err := FetchStrings(ctx, q, RouteNamesForState(state))
	if err != nil {
		return nil, redbus.QueryError("fetch route names", err)
	}
	return routes, nil
}

// FetchFiltered executes the filtered search and formats the result. A
// failed query returns redbus.ErrQuery, never an empty table.
func FetchFiltered(ctx context.Context, q Querier, f redbus.Filter) (table.Table, error) {
	query := FilteredSearch(f)
	rows, err := q.QueryContext(ctx, query.SQL, query.Args...)
	if err != nil {
		return table.Table{}, redbus.QueryError("filtered search", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return table.Table{}, redbus.QueryError("filtered search", err)
	}
	var raw [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return table.Table{}, redbus.QueryError("filtered search", err)
		}
		raw = append(raw, values)
	}
	if err := rows.Err(); err != nil {
		return table.Table{}, redbus.QueryError("filtered search", err)
	}
	tbl, err := table.Build(cols, raw)
	if err != nil {
		return table.Table{}, redbus.QueryError("filtered search", fmt.Errorf("format rows: %w", err))
	}
	return tbl, nil
}
