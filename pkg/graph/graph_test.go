package graph

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError_Syntax(t *testing.T) {
	tests := []error{
		errors.New(`Neo.ClientError.Statement.SyntaxError: Invalid input 'M': expected ...`),
		errors.New(`SyntaxError: unexpected token`),
		errors.New(`Invalid input ')': expected an expression`),
	}
	for _, err := range tests {
		got := classifyError(err)
		if got.Kind != ErrorKindSyntax {
			t.Fatalf("classifyError(%q).Kind = %s, want syntax", err, got.Kind)
		}
	}
}

func TestClassifyError_Timeout(t *testing.T) {
	err := fmt.Errorf("transaction failed: %w", context.DeadlineExceeded)
	got := classifyError(err)
	if got.Kind != ErrorKindTimeout {
		t.Fatalf("Kind = %s, want timeout", got.Kind)
	}
}

func TestClassifyError_Connection(t *testing.T) {
	tests := []error{
		errors.New("ConnectivityError: Unable to retrieve routing table"),
		errors.New("dial tcp 127.0.0.1:7687: connect: connection refused"),
		errors.New("lookup graph.internal: no such host"),
	}
	for _, err := range tests {
		got := classifyError(err)
		if got.Kind != ErrorKindConnection {
			t.Fatalf("classifyError(%q).Kind = %s, want connection", err, got.Kind)
		}
	}
}

func TestClassifyError_Other(t *testing.T) {
	got := classifyError(errors.New("Neo.ClientError.Security.Unauthorized"))
	if got.Kind != ErrorKindOther {
		t.Fatalf("Kind = %s, want other", got.Kind)
	}
	if got.Message == "" {
		t.Fatal("message must be preserved")
	}
}

func TestExecutionError_Error(t *testing.T) {
	err := &ExecutionError{Kind: ErrorKindSyntax, Message: "bad query"}
	want := "query execution failed (syntax): bad query"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
