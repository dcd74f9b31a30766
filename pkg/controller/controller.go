package controller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/cspdispatch/pkg/dispatch"
	"github.com/raterudder/cspdispatch/pkg/forecast"
	"github.com/raterudder/cspdispatch/pkg/log"
	"github.com/raterudder/cspdispatch/pkg/plant"
	"github.com/raterudder/cspdispatch/pkg/types"
)

// DefaultHorizon is the default look-ahead of a dispatch horizon.
const DefaultHorizon = 48 * time.Hour

// Build is one constructed dispatch horizon and the inputs it was built from.
type Build struct {
	ID         string
	Plant      types.Plant
	Start      int
	Parameters *dispatch.Parameters
	Horizon    *dispatch.Horizon
}

// Controller builds dispatch horizons for plants read from a source.
type Controller struct {
	source  plant.Source
	periods int
}

// NewController creates a Controller building horizons of the given number
// of hourly periods.
func NewController(source plant.Source, periods int) *Controller {
	if periods <= 0 {
		panic(fmt.Sprintf("horizon must have at least one period, got %d", periods))
	}
	return &Controller{
		source:  source,
		periods: periods,
	}
}

// Configured sets up a Controller based on flags.
func Configured(source plant.Source) *Controller {
	horizon := lflag.Duration("horizon", DefaultHorizon, "Dispatch look-ahead, rounded down to whole hours")

	c := &Controller{source: source}

	lflag.Do(func() {
		c.periods = int(*horizon / time.Hour)
		if c.periods <= 0 {
			panic(fmt.Sprintf("horizon must be at least one hour, got %s", *horizon))
		}
	})

	return c
}

// Periods returns the number of hourly periods in each horizon.
func (c *Controller) Periods() int {
	return c.periods
}

// Build reads plantID from the source and constructs the horizon starting
// at hour start of the year, with the operating cost as its objective.
func (c *Controller) Build(ctx context.Context, plantID string, start int) (*Build, error) {
	id := uuid.NewString()
	ctx = log.WithAttrs(ctx,
		slog.String("horizonID", id),
		slog.String("plantID", plantID),
	)

	p, err := c.source.GetPlant(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plant: %w", err)
	}

	params := dispatch.NewParameters(c.periods)
	if err := dispatch.InitializeParameters(ctx, params, p.Design, p.Tables); err != nil {
		return nil, fmt.Errorf("failed to initialize parameters: %w", err)
	}
	if err := dispatch.UpdateTimeSeriesParameters(ctx, params, p, start); err != nil {
		return nil, fmt.Errorf("failed to update time series parameters: %w", err)
	}

	h, err := dispatch.Build(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build horizon: %w", err)
	}
	h.Model.SetObjective(dispatch.OperatingCost(params, h))

	begin, end := forecast.HorizonTimes(start, c.periods)
	log.Ctx(ctx).InfoContext(ctx, "built dispatch horizon",
		slog.Int("start", start),
		slog.Time("begin", begin),
		slog.Time("end", end),
		slog.Int("periods", c.periods),
		slog.Int("variables", h.Model.NumVariables()),
		slog.Int("constraints", len(h.Model.Constraints())),
	)

	return &Build{
		ID:         id,
		Plant:      p,
		Start:      start,
		Parameters: params,
		Horizon:    h,
	}, nil
}

// BuildAll builds the horizon starting at hour start for every plant in the
// source. A plant that fails to build is logged and skipped.
func (c *Controller) BuildAll(ctx context.Context, start int) ([]*Build, error) {
	ids, err := c.source.ListPlants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}
	var builds []*Build
	for _, id := range ids {
		b, err := c.Build(ctx, id, start)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to build plant horizon",
				slog.String("plantID", id),
				slog.Any("error", err),
			)
			continue
		}
		builds = append(builds, b)
	}
	return builds, nil
}
