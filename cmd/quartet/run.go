// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/zainaedelson/quartet/pkg/agent"
	"github.com/zainaedelson/quartet/pkg/artifact"
	"github.com/zainaedelson/quartet/pkg/bridge"
	"github.com/zainaedelson/quartet/pkg/config"
	"github.com/zainaedelson/quartet/pkg/core"
	"github.com/zainaedelson/quartet/pkg/crew"
	"github.com/zainaedelson/quartet/pkg/llm"
	quartetmcp "github.com/zainaedelson/quartet/pkg/mcp"
	"github.com/zainaedelson/quartet/pkg/telemetry"
	"github.com/zainaedelson/quartet/pkg/tools"
	"github.com/zainaedelson/quartet/providers/anthropic"
)

// app bundles everything a subcommand needs after bootstrap.
type app struct {
	cfg      *config.Config
	crew     *crew.Crew
	store    *artifact.Store
	metrics  *telemetry.PipelineMetrics
	shutdown telemetry.ShutdownFunc
}

func (a *app) close(ctx context.Context) {
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", err)
		}
	}
}

type bootstrapOptions struct {
	// noStdoutTelemetry drops the stdout span exporter when the
	// subcommand owns stdout (stdio protocols, piped answers).
	noStdoutTelemetry bool
	noTelemetry       bool
}

// bootstrap loads config, wires telemetry and logging, and assembles the
// crew. Configuration faults surface here, before any pipeline work starts.
func bootstrap(ctx context.Context, flags globalFlags, opts bootstrapOptions) (*app, error) {
	cfg, err := config.LoadWithProfile(flags.ConfigPath, flags.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	for _, warning := range cfg.Warnings() {
		slog.Warn(warning)
	}

	exporter := cfg.Telemetry.Exporter
	if opts.noTelemetry {
		exporter = "none"
	}
	if opts.noStdoutTelemetry && exporter == "stdout" {
		exporter = "none"
	}
	shutdown, err := telemetry.InitWithConfig("quartet", version, telemetry.Config{
		Exporter:           exporter,
		OTLPEndpoint:       cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure:       cfg.Telemetry.OTLPInsecure,
		OTLPTimeoutSeconds: cfg.Telemetry.OTLPTimeoutSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	provider, err := createProvider(cfg)
	if err != nil {
		if shutdownErr := shutdown(ctx); shutdownErr != nil {
			fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", shutdownErr)
		}
		return nil, err
	}

	store := artifact.NewStore(cfg.Artifact.Dir)

	metrics, err := telemetry.NewPipelineMetrics(ctx)
	if err != nil {
		slog.Warn("pipeline metrics unavailable", slog.String("error", err.Error()))
	}

	crewOpts := []crew.CrewOption{
		crew.WithModel(cfg.LLM.Model),
		crew.WithTemperature(cfg.Agent.Temperature),
		crew.WithMaxTokens(cfg.Agent.MaxTokens),
		crew.WithMaxIterations(cfg.Agent.MaxIterations),
		crew.WithMetrics(metrics),
	}
	if cfg.SearchEnabled() {
		searchOpts := []tools.SearchOption{}
		if cfg.Search.BaseURL != "" {
			searchOpts = append(searchOpts, tools.WithSearchBaseURL(cfg.Search.BaseURL))
		}
		if cfg.Search.MaxResults > 0 {
			searchOpts = append(searchOpts, tools.WithMaxResults(cfg.Search.MaxResults))
		}
		crewOpts = append(crewOpts,
			crew.WithSearchTool(tools.NewSearchTool(cfg.Search.APIKey, searchOpts...)))
	}

	c, err := crew.NewCrew(provider, store, crewOpts...)
	if err != nil {
		if shutdownErr := shutdown(ctx); shutdownErr != nil {
			fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", shutdownErr)
		}
		return nil, fmt.Errorf("failed to create crew: %w", err)
	}

	return &app{
		cfg:      cfg,
		crew:     c,
		store:    store,
		metrics:  metrics,
		shutdown: shutdown,
	}, nil
}

func createProvider(cfg *config.Config) (llm.Provider, error) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "anthropic":
		opts := []anthropic.Option{anthropic.WithModel(cfg.LLM.Model)}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.LLM.BaseURL))
		}
		if cfg.Agent.MaxTokens > 0 {
			opts = append(opts, anthropic.WithMaxTokens(int64(cfg.Agent.MaxTokens)))
		}
		return anthropic.NewWithAPIKey(cfg.LLM.APIKey, opts...), nil

	case "ollama":
		baseURL := cfg.LLM.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return llm.NewOllama(baseURL), nil

	case "mock":
		return &llm.MockProvider{Response: "This is a mock response."}, nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}

func runRun(ctx context.Context, flags globalFlags, args []string) {
	cmd := flag.NewFlagSet("run", flag.ContinueOnError)
	topic := cmd.String("topic", "", "Topic to answer (blank runs the default topic)")
	noTelemetry := cmd.Bool("no-telemetry", false, "Disable telemetry output")
	if err := cmd.Parse(args); err != nil {
		fatal(err)
	}

	message := *topic
	if message == "" && cmd.NArg() > 0 {
		message = strings.Join(cmd.Args(), " ")
	}
	if message == "" && !isatty.IsTerminal(os.Stdin.Fd()) {
		// Piped input carries the topic.
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal(fmt.Errorf("read stdin: %w", err))
		}
		message = strings.TrimSpace(string(data))
	}

	app, err := bootstrap(ctx, flags, bootstrapOptions{
		noStdoutTelemetry: true,
		noTelemetry:       *noTelemetry,
	})
	if err != nil {
		fatal(err)
	}
	defer app.close(context.Background())

	fmt.Println(app.crew.Respond(ctx, message))
}

func runServe(ctx context.Context, flags globalFlags, args []string) {
	cmd := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := cmd.String("addr", "", "Listen address override for the HTTP API")
	if err := cmd.Parse(args); err != nil {
		fatal(err)
	}

	app, err := bootstrap(ctx, flags, bootstrapOptions{})
	if err != nil {
		fatal(err)
	}
	defer app.close(context.Background())

	slog.Info("quartet.starting",
		slog.String("llm", app.cfg.LLM.Provider),
		slog.String("model", app.cfg.LLM.Model),
		slog.Bool("search", app.cfg.SearchEnabled()),
		slog.String("document", app.store.Path()),
		slog.Bool("local_mode", app.cfg.LocalMode()),
	)

	if app.cfg.LocalMode() {
		repl, err := bridge.NewREPL(app.crew)
		if err != nil {
			fatal(err)
		}
		if err := repl.Run(ctx); err != nil {
			fatal(err)
		}
		return
	}

	listenAddr := app.cfg.Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}
	srv, err := bridge.NewServer(app.crew, app.store,
		bridge.WithHealthProvider(buildHealthProvider(app)),
		bridge.WithMetrics(app.metrics))
	if err != nil {
		fatal(err)
	}
	if err := srv.Serve(ctx, listenAddr); err != nil {
		fatal(err)
	}
}

func runMCP(ctx context.Context, flags globalFlags, args []string) {
	if len(args) > 0 {
		fatal(fmt.Errorf("unexpected args: %v", args))
	}

	// Stdout carries the protocol stream, so spans cannot go there.
	app, err := bootstrap(ctx, flags, bootstrapOptions{noStdoutTelemetry: true})
	if err != nil {
		fatal(err)
	}
	defer app.close(context.Background())

	srv, err := quartetmcp.NewServer("quartet", version, app.crew, app.store)
	if err != nil {
		fatal(err)
	}
	if err := srv.ServeStdio(); err != nil {
		fatal(err)
	}
}

// buildHealthProvider wires the /healthz component checks.
func buildHealthProvider(app *app) *core.DefaultHealthCheckProvider {
	provider := core.NewDefaultHealthCheckProvider()

	provider.RegisterChecker("llm:"+app.cfg.LLM.Provider,
		agent.NewLLMHealthChecker(app.cfg.LLM.Provider, nil))

	searchEnabled := app.cfg.SearchEnabled()
	provider.RegisterChecker("search",
		core.NewFunctionHealthChecker(func(_ context.Context) core.HealthResult {
			if !searchEnabled {
				return core.HealthResult{
					Status:  core.HealthDegraded,
					Message: "web search disabled: SERPER_API_KEY not set",
				}
			}
			return core.HealthResult{Status: core.HealthHealthy, Message: "web search enabled"}
		}))

	store := app.store
	provider.RegisterChecker("document",
		core.NewFunctionHealthChecker(func(_ context.Context) core.HealthResult {
			if store.Exists() {
				return core.HealthResult{
					Status:  core.HealthHealthy,
					Message: "document saved at " + store.Path(),
				}
			}
			return core.HealthResult{Status: core.HealthHealthy, Message: "no document saved yet"}
		}))

	return provider
}
