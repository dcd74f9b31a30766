package plant

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/raterudder/cspdispatch/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreSource(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	// Use a random database for isolation
	f := NewFirestoreSource("test-project-id", fmt.Sprintf("test-db-%d", time.Now().UnixNano()))

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("SetPlant", func(t *testing.T) {
		p := types.Plant{
			ID:     "daggett",
			Design: types.PlantDesign{Name: "daggett", CycleRatedPower: 100, CycleNominalEfficiency: 0.4},
			State:  types.PlantState{ReceiverMode: types.ReceiverModeOn, CycleMode: types.CycleModeOn, HeatIntoCycle: 180},
			Forecast: types.Forecast{
				ThermalResource:    []float64{0, 100, 200},
				DryBulbTemperature: []float64{10, 11, 12},
			},
		}
		require.NoError(t, f.SetPlant(ctx, p))

		got, err := f.GetPlant(ctx, "daggett")
		require.NoError(t, err)
		assert.Equal(t, types.CurrentPlantVersion, got.Version)
		assert.Equal(t, p.Design, got.Design)
		assert.Equal(t, p.State, got.State)
		assert.Equal(t, p.Forecast, got.Forecast)
	})

	t.Run("ListPlants", func(t *testing.T) {
		ids, err := f.ListPlants(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, "daggett")
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.GetPlant(ctx, "missing")
		assert.ErrorIs(t, err, ErrPlantNotFound)
	})

	t.Run("EmptyPlantID", func(t *testing.T) {
		_, err := f.GetPlant(ctx, "")
		assert.ErrorContains(t, err, "plantID cannot be empty")
	})
}
