package plant

import (
	"context"
	"errors"
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/cspdispatch/pkg/types"
)

var (
	ErrPlantNotFound  = errors.New("plant not found")
	ErrInvalidPlantID = errors.New("invalid plant id")
)

// Source provides the inputs needed to build a dispatch horizon.
type Source interface {
	GetPlant(ctx context.Context, plantID string) (types.Plant, error)
	ListPlants(ctx context.Context) ([]string, error)

	// Lifecycle
	Close() error
}

// Store is a Source that can also persist plants.
type Store interface {
	Source
	SetPlant(ctx context.Context, p types.Plant) error
}

// Configured sets up the plant source based on flags.
func Configured() Store {
	source := lflag.String("plant-source", "file", "Plant source to use (available: file, firestore)")

	var s struct{ Store }

	file := configuredFile()
	fs := configuredFirestore()

	lflag.Do(func() {
		switch *source {
		case "file":
			if err := file.Validate(); err != nil {
				panic(fmt.Sprintf("file source validation failed: %v", err))
			}
			s.Store = file
		case "firestore":
			s.Store = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown plant source: %s", *source))
		}
	})

	return &s
}

func validatePlantID(plantID string) error {
	if plantID == "" {
		return fmt.Errorf("%w: plantID cannot be empty", ErrInvalidPlantID)
	}
	for _, r := range plantID {
		if r == '/' || r == '\\' || r == '.' {
			return fmt.Errorf("%w: %q", ErrInvalidPlantID, plantID)
		}
	}
	return nil
}
