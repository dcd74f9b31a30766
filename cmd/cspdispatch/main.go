package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raterudder/cspdispatch/pkg/controller"
	"github.com/raterudder/cspdispatch/pkg/forecast"
	"github.com/raterudder/cspdispatch/pkg/log"
	"github.com/raterudder/cspdispatch/pkg/milp"
	"github.com/raterudder/cspdispatch/pkg/plant"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
)

// solutionTolerance is the absolute slack allowed when checking an assigned
// solution against the model.
const solutionTolerance = 1e-6

func main() {
	// init packages
	s := plant.Configured()
	c := controller.Configured(s)

	plantID := lflag.RequiredString("plant-id", "Plant to build the dispatch horizon for")
	startTime := lflag.String("start-time", "", "RFC3339 start of the horizon (default: now)")
	output := lflag.String("output", "-", "Path to write the LP model to, - for stdout")
	summary := lflag.String("summary", "", "Path to write the per-period input summary JSON to")
	solution := lflag.String("solution", "", "Path to a JSON object of solved variable values to check instead of writing the model")

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}

	// stdout may carry the model, so log to stderr
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	log.SetDefaultLogLevel(level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = log.With(ctx, logger)

	if err := run(ctx, c, *plantID, *startTime, *output, *summary, *solution); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "dispatch failed", "error", err)
		if cerr := s.Close(); cerr != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close plant source", "error", cerr)
		}
		os.Exit(1)
	}
	if err := s.Close(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to close plant source", "error", err)
	}
}

func run(ctx context.Context, c *controller.Controller, plantID, startTime, output, summary, solution string) error {
	start := time.Now()
	if startTime != "" {
		var err error
		start, err = time.Parse(time.RFC3339, startTime)
		if err != nil {
			return fmt.Errorf("invalid start-time: %w", err)
		}
	}

	b, err := c.Build(ctx, plantID, forecast.HourIndex(start))
	if err != nil {
		return err
	}

	if summary != "" {
		if err := writeJSON(summary, b.Summarize()); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if solution != "" {
		return checkSolution(ctx, b, solution)
	}

	return withOutput(output, func(w io.Writer) error {
		return milp.WriteLP(w, b.Horizon.Model)
	})
}

// checkSolution assigns the solved values in path, reports any violated
// bounds or constraints and writes the rounded results to stdout.
func checkSolution(ctx context.Context, b *controller.Build, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read solution: %w", err)
	}
	var values map[string]float64
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("failed to unmarshal solution: %w", err)
	}
	if err := b.Horizon.AssignSolution(values); err != nil {
		return err
	}

	violations, err := b.Horizon.Model.Violations(solutionTolerance)
	if err != nil {
		return err
	}
	for _, v := range violations {
		log.Ctx(ctx).WarnContext(ctx, "solution violates model",
			slog.String("name", v.Name),
			slog.Int("period", v.Period),
			slog.Float64("amount", v.Amount),
		)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b.Horizon.Results()); err != nil {
		return err
	}
	if len(violations) > 0 {
		return fmt.Errorf("solution has %d violations", len(violations))
	}
	return nil
}

func withOutput(path string, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	return withOutput(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}
