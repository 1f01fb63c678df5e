// Package graph wraps the Neo4j driver for read-only query execution
// against the equestrian knowledge graph. All store-level failures are
// normalized into *ExecutionError with a classified kind, so callers can
// distinguish a broken query from an unreachable store, and an empty
// result set is never conflated with a failure.
package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/equilab/cavale/pkg/logger"
)

// ErrorKind classifies an execution failure.
type ErrorKind int

const (
	// ErrorKindOther covers store failures that are neither syntax,
	// timeout, nor connectivity problems.
	ErrorKindOther ErrorKind = iota
	// ErrorKindSyntax means the store rejected the query as malformed.
	ErrorKindSyntax
	// ErrorKindTimeout means the bounded wait on the store round trip expired.
	ErrorKindTimeout
	// ErrorKindConnection means the store was unreachable.
	ErrorKindConnection
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindSyntax:
		return "syntax"
	case ErrorKindTimeout:
		return "timeout"
	case ErrorKindConnection:
		return "connection"
	default:
		return "other"
	}
}

// ExecutionError is the single failure type returned by Execute. The
// underlying store message is preserved for logging; it is never shown
// to end users.
type ExecutionError struct {
	Kind    ErrorKind
	Message string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution failed (%s): %s", e.Kind, e.Message)
}

// Syntax-error markers observed in store failure text.
var syntaxMarkers = []string{"SyntaxError", "Invalid input"}

var connectionMarkers = []string{
	"ConnectivityError",
	"connection refused",
	"no such host",
	"routing table",
	"Connection unread",
	"dial tcp",
}

// Client is a read-only handle on the graph store. It is safe for
// concurrent use; the driver manages its own connection pool.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	timeout  time.Duration
}

// NewClientParams configures a graph client.
type NewClientParams struct {
	URI      string
	User     string
	Password string
	Database string

	// QueryTimeout bounds each store round trip. Zero means 30s.
	QueryTimeout time.Duration
}

// NewClient connects to the store and verifies connectivity before
// returning.
func NewClient(ctx context.Context, params NewClientParams) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.User, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to verify connectivity: %w", err)
	}

	timeout := params.QueryTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		driver:   driver,
		database: params.Database,
		timeout:  timeout,
	}, nil
}

// Close releases the underlying driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Ping checks that the store is still reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// Execute runs a single read-only query and collects the full result.
// A query that matches nothing yields an empty ResultSet and a nil
// error; every failure is returned as *ExecutionError.
func (c *Client) Execute(ctx context.Context, query string) (ResultSet, error) {
	rCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	session := c.driver.NewSession(rCtx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: c.database,
	})
	defer session.Close(rCtx)

	result, err := session.ExecuteRead(rCtx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(rCtx, query, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(rCtx)
	})
	if err != nil {
		execErr := classifyError(err)
		logger.Error("Query execution failed", "kind", execErr.Kind.String(), "err", err)
		return nil, execErr
	}

	records, ok := result.([]*neo4j.Record)
	if !ok {
		return nil, &ExecutionError{Kind: ErrorKindOther, Message: "unexpected result shape from driver"}
	}

	rs := make(ResultSet, 0, len(records))
	for _, record := range records {
		rs = append(rs, Record{
			Keys:   record.Keys,
			Values: record.AsMap(),
		})
	}
	return rs, nil
}

func classifyError(err error) *ExecutionError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ExecutionError{Kind: ErrorKindTimeout, Message: err.Error()}
	}

	msg := err.Error()
	for _, marker := range syntaxMarkers {
		if strings.Contains(msg, marker) {
			return &ExecutionError{Kind: ErrorKindSyntax, Message: msg}
		}
	}
	for _, marker := range connectionMarkers {
		if strings.Contains(msg, marker) {
			return &ExecutionError{Kind: ErrorKindConnection, Message: msg}
		}
	}
	return &ExecutionError{Kind: ErrorKindOther, Message: msg}
}
