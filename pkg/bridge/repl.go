// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	qerrors "github.com/zainaedelson/quartet/pkg/errors"
)

// REPL runs the crew interactively over a line-oriented console. Each line
// is one pipeline run.
type REPL struct {
	responder Responder
	in        io.Reader
	out       io.Writer
}

// REPLOption configures a REPL.
type REPLOption func(*REPL)

// WithInput overrides the input stream. Defaults to stdin.
func WithInput(in io.Reader) REPLOption {
	return func(r *REPL) {
		if in != nil {
			r.in = in
		}
	}
}

// WithOutput overrides the output stream. Defaults to stdout.
func WithOutput(out io.Writer) REPLOption {
	return func(r *REPL) {
		if out != nil {
			r.out = out
		}
	}
}

// NewREPL creates an interactive console around a responder.
func NewREPL(responder Responder, opts ...REPLOption) (*REPL, error) {
	if responder == nil {
		return nil, qerrors.New(qerrors.CodeInvalidInput, "responder is required", nil)
	}
	r := &REPL{
		responder: responder,
		in:        os.Stdin,
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run reads lines until the input closes, the user exits, or ctx is
// cancelled.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Interactive mode. Type 'exit' or Ctrl+C to quit.")
	fmt.Fprintln(r.out, "---")

	scanner := bufio.NewScanner(r.in)

	for {
		fmt.Fprint(r.out, "\n> ")

		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		default:
		}

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		}

		response := r.responder.Respond(ctx, input)
		fmt.Fprintf(r.out, "\n%s\n", response)
	}

	if err := scanner.Err(); err != nil {
		return qerrors.New(qerrors.CodeInternal, "read console input", err)
	}
	return nil
}
