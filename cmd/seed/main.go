package main

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/cspdispatch/pkg/forecast"
	"github.com/raterudder/cspdispatch/pkg/log"
	"github.com/raterudder/cspdispatch/pkg/plant"
	"github.com/raterudder/cspdispatch/pkg/types"
)

func main() {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	}
	s := plant.Configured()
	plantID := lflag.String("seed-plant-id", "daggett", "ID of the synthetic plant to seed")
	lflag.Configure()

	ctx := context.Background()
	defer s.Close()

	log.Ctx(ctx).InfoContext(ctx, "seeding synthetic plant", slog.String("plantID", *plantID))

	// Use a new random source
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	const (
		CycleRatedPower = 100.0 // MWe
		SolarMultiple   = 2.0
		Efficiency      = 0.4
		FieldPeakMW     = CycleRatedPower / Efficiency * SolarMultiple
	)

	p := types.Plant{
		ID:      *plantID,
		Version: types.CurrentPlantVersion,
		Design: types.PlantDesign{
			Name:                          "synthetic trough",
			CycleRatedPower:               CycleRatedPower,
			CycleNominalEfficiency:        Efficiency,
			SolarMultiple:                 SolarMultiple,
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
			DesignCoolingPercent:          2,
			DesignStorageMass:             5e7,
			HTFColdDesignTemperature:      293,
		},
		State: types.PlantState{
			HotTankTemperature:  390,
			HotTankMassFraction: 0.3,
			HTFSpecificHeat:     1500,
			ReceiverMode:        types.ReceiverModeOff,
			CycleMode:           types.CycleModeOff,
		},
		Tables: types.CycleTables{
			LoadEfficiency:    [][]float64{{50, 0.35}, {125, 0.385}, {250, 0.4}, {275, 0.402}},
			AmbientEfficiency: [][]float64{{-10, 1.03}, {20, 1.0}, {45, 0.95}},
			AmbientCondenser:  [][]float64{{-10, 0.01}, {20, 0.015}, {45, 0.03}},
		},
	}

	p.Forecast.ThermalResource = make([]float64, forecast.HoursPerYear)
	p.Forecast.DryBulbTemperature = make([]float64, forecast.HoursPerYear)
	for h := range forecast.HoursPerYear {
		day := float64(h / 24)
		hour := float64(h % 24)
		// longest days and hottest afternoons mid-year
		season := 0.5 - 0.5*math.Cos(2*math.Pi*day/365)
		halfDay := 5 + 2*season

		// Thermal resource (bell curve over daylight hours)
		if dist := math.Abs(hour - 12.5); dist < halfDay {
			clearness := 0.7 + 0.3*rng.Float64()
			p.Forecast.ThermalResource[h] = FieldPeakMW * clearness * math.Cos(math.Pi/2*dist/halfDay)
		}

		// Dry bulb temperature
		daily := 6 * math.Sin(2*math.Pi*(hour-9)/24)
		p.Forecast.DryBulbTemperature[h] = 5 + 25*season + daily + (rng.Float64()*2 - 1)
	}

	if err := s.SetPlant(ctx, p); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to seed plant", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "seeded plant",
		slog.String("plantID", p.ID),
		slog.Int("hours", len(p.Forecast.ThermalResource)),
	)
}
