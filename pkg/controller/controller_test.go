package controller

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/raterudder/cspdispatch/pkg/log"
	"github.com/raterudder/cspdispatch/pkg/plant"
	"github.com/raterudder/cspdispatch/pkg/plant/plantmock"
	"github.com/raterudder/cspdispatch/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetDefaultLogLevel(slog.LevelError)
}

func testPlant(id string) types.Plant {
	p := types.Plant{
		ID:      id,
		Version: types.CurrentPlantVersion,
		Design: types.PlantDesign{
			Name:                          id,
			CycleRatedPower:               100,
			CycleNominalEfficiency:        0.4,
			SolarMultiple:                 2,
			TESHours:                      6,
			ReceiverStartupDelay:          0.2,
			ReceiverStartupEnergyFraction: 0.25,
			MinimumReceiverPowerFraction:  0.25,
			ReceiverPumpingLosses:         0.02,
			FieldTrackingPower:            0.3,
			FieldStartupPower:             0.1,
			ReflectorUnits:                400,
			CycleStartupTime:              0.5,
			CycleStartupFraction:          0.5,
			CycleCutoffFraction:           0.2,
			CycleMaxFraction:              1.05,
			CyclePumpCoefficient:          0.55,
			CycleDesignMassFlow:           1000,
			DesignStorageMass:             5e7,
			HTFColdDesignTemperature:      293,
		},
		State: types.PlantState{
			HotTankTemperature:  393,
			HotTankMassFraction: 0.2,
			HTFSpecificHeat:     1500,
			CycleMode:           types.CycleModeOff,
		},
		Tables: types.CycleTables{
			LoadEfficiency:    [][]float64{{50, 0.36}, {250, 0.4}, {300, 0.41}},
			AmbientEfficiency: [][]float64{{0, 1.02}, {40, 0.98}},
			AmbientCondenser:  [][]float64{{0, 0.01}, {40, 0.03}},
		},
	}
	for h := range 24 {
		resource := 0.0
		if h >= 7 && h <= 17 {
			resource = 400
		}
		p.Forecast.ThermalResource = append(p.Forecast.ThermalResource, resource)
		p.Forecast.DryBulbTemperature = append(p.Forecast.DryBulbTemperature, 20)
	}
	return p
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("builds horizon with objective", func(t *testing.T) {
		store := &plantmock.MockStore{}
		store.On("GetPlant", mock.Anything, "daggett").Return(testPlant("daggett"), nil)

		c := NewController(store, 6)
		b, err := c.Build(ctx, "daggett", 5)
		require.NoError(t, err)
		store.AssertExpectations(t)

		assert.NotEmpty(t, b.ID)
		assert.Equal(t, 5, b.Start)
		assert.Equal(t, "daggett", b.Plant.ID)
		assert.Equal(t, 6, b.Horizon.Periods())
		assert.Equal(t, []float64{0, 0, 400, 400, 400, 400}, b.Parameters.AvailableThermalGeneration.Values())
		assert.False(t, b.Horizon.Model.Objective().IsConstant())
		assert.Equal(t, 1500.0, b.Parameters.StorageCapacity.First())
	})

	t.Run("unique ids", func(t *testing.T) {
		store := &plantmock.MockStore{}
		store.On("GetPlant", mock.Anything, "daggett").Return(testPlant("daggett"), nil)

		c := NewController(store, 2)
		b1, err := c.Build(ctx, "daggett", 0)
		require.NoError(t, err)
		b2, err := c.Build(ctx, "daggett", 0)
		require.NoError(t, err)
		assert.NotEqual(t, b1.ID, b2.ID)
	})

	t.Run("plant not found", func(t *testing.T) {
		store := &plantmock.MockStore{}
		store.On("GetPlant", mock.Anything, "nope").Return(types.Plant{}, plant.ErrPlantNotFound)

		_, err := NewController(store, 2).Build(ctx, "nope", 0)
		assert.ErrorIs(t, err, plant.ErrPlantNotFound)
	})

	t.Run("invalid design", func(t *testing.T) {
		p := testPlant("broken")
		p.Design.CycleNominalEfficiency = 0
		store := &plantmock.MockStore{}
		store.On("GetPlant", mock.Anything, "broken").Return(p, nil)

		_, err := NewController(store, 2).Build(ctx, "broken", 0)
		assert.ErrorIs(t, err, types.ErrInvalidDesign)
		assert.ErrorContains(t, err, "failed to initialize parameters")
	})

	t.Run("empty forecast", func(t *testing.T) {
		p := testPlant("dark")
		p.Forecast = types.Forecast{}
		store := &plantmock.MockStore{}
		store.On("GetPlant", mock.Anything, "dark").Return(p, nil)

		_, err := NewController(store, 2).Build(ctx, "dark", 0)
		assert.ErrorContains(t, err, "failed to update time series parameters")
	})

	t.Run("zero periods panics", func(t *testing.T) {
		assert.Panics(t, func() { NewController(&plantmock.MockStore{}, 0) })
	})
}

func TestBuildAll(t *testing.T) {
	ctx := context.Background()

	t.Run("skips failures", func(t *testing.T) {
		broken := testPlant("broken")
		broken.Design.CycleRatedPower = -1
		store := &plantmock.MockStore{}
		store.On("ListPlants", mock.Anything).Return([]string{"a", "broken", "b"}, nil)
		store.On("GetPlant", mock.Anything, "a").Return(testPlant("a"), nil)
		store.On("GetPlant", mock.Anything, "broken").Return(broken, nil)
		store.On("GetPlant", mock.Anything, "b").Return(testPlant("b"), nil)

		builds, err := NewController(store, 3).BuildAll(ctx, 12)
		require.NoError(t, err)
		require.Len(t, builds, 2)
		assert.Equal(t, "a", builds[0].Plant.ID)
		assert.Equal(t, "b", builds[1].Plant.ID)
		store.AssertExpectations(t)
	})

	t.Run("list error", func(t *testing.T) {
		store := &plantmock.MockStore{}
		store.On("ListPlants", mock.Anything).Return(nil, errors.New("boom"))

		_, err := NewController(store, 3).BuildAll(ctx, 0)
		assert.ErrorContains(t, err, "boom")
	})
}

func TestSummarize(t *testing.T) {
	store := &plantmock.MockStore{}
	store.On("GetPlant", mock.Anything, "daggett").Return(testPlant("daggett"), nil)

	b, err := NewController(store, 4).Build(context.Background(), "daggett", 8758)
	require.NoError(t, err)
	rows := b.Summarize()
	require.Len(t, rows, 4)

	// wraps past the end of the year
	assert.Equal(t, 8759, rows[1].Hour)
	assert.Equal(t, 0, rows[2].Hour)
	assert.Equal(t, time.Date(2009, time.January, 1, 0, 0, 0, 0, time.UTC), rows[2].TS)
	assert.Equal(t, 1.0, rows[0].DurationHours)
	assert.InDelta(t, 0.4, rows[0].AmbientEfficiency, 1e-9)
	assert.InDelta(t, 0.02, rows[0].CondenserLosses, 1e-9)
	assert.False(t, rows[0].ReceiverCanStart)
	assert.False(t, rows[3].FieldCanRunCycle)
}
