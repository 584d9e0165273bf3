// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

// Quartet answers one message at a time by running it through a fixed
// four-stage writing pipeline: explore, synthesize, refine, polish.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

const version = "0.1.0"

type globalFlags struct {
	ConfigPath string
	Profile    string
	Help       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if global.Help || len(args) == 0 {
		printUsage()
		return
	}

	switch args[0] {
	case "run":
		runRun(ctx, global, args[1:])
	case "serve":
		runServe(ctx, global, args[1:])
	case "mcp":
		runMCP(ctx, global, args[1:])
	case "version":
		printVersion()
	case "help":
		printUsage()
	default:
		fatal(fmt.Errorf("unknown command %q", args[0]))
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	flags := globalFlags{}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return flags, args[i+1:], nil
		}
		if !strings.HasPrefix(arg, "-") {
			return flags, args[i:], nil
		}
		switch {
		case arg == "-h" || arg == "--help":
			flags.Help = true
			return flags, nil, nil
		case arg == "--config":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --config")
			}
			flags.ConfigPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--profile":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --profile")
			}
			flags.Profile = args[i+1]
			i++
		case strings.HasPrefix(arg, "--profile="):
			flags.Profile = strings.TrimPrefix(arg, "--profile=")
		default:
			return flags, nil, fmt.Errorf("unknown global flag %q", arg)
		}
	}
	return flags, nil, nil
}

func printVersion() {
	fmt.Println(version)
}

func printUsage() {
	fmt.Print(`Quartet

Usage:
  quartet [global flags] <command> [args]

Global flags:
  --config <path>      Path to config.yaml
  --profile <name>     Config profile overlay (dev, prod)

Commands:
  run [--topic <text>]   Run the pipeline once and print the answer
  serve                  Start the console or HTTP API, by configured domain
  mcp                    Serve the pipeline as an MCP tool over stdio
  version                Print the version

`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
