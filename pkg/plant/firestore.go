package plant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/cspdispatch/pkg/log"
	"github.com/raterudder/cspdispatch/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const plantsCollection = "plants"

// FirestoreSource reads plants from the "plants" collection. Each document
// holds the plant as a json string and the version it was written at.
type FirestoreSource struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore source.
// It registers flags for configuration.
func configuredFirestore() *FirestoreSource {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreSource{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// NewFirestoreSource returns an uninitialized source for the given project
// and database. Empty values are detected or defaulted by Init.
func NewFirestoreSource(projectID, database string) *FirestoreSource {
	return &FirestoreSource{projectID: projectID, database: database}
}

// Init initializes the Firestore client.
// This must be called before using the source methods.
func (f *FirestoreSource) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreSource) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// GetPlant retrieves and migrates the plant stored under plantID.
func (f *FirestoreSource) GetPlant(ctx context.Context, plantID string) (types.Plant, error) {
	if err := validatePlantID(plantID); err != nil {
		return types.Plant{}, err
	}
	doc, err := f.client.Collection(plantsCollection).Doc(plantID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Plant{}, fmt.Errorf("%w: %s", ErrPlantNotFound, plantID)
		}
		return types.Plant{}, fmt.Errorf("failed to get plant %s: %w", plantID, err)
	}

	// Read version if available (default 0)
	var version int
	if v, err := doc.DataAt("version"); err == nil {
		if vInt, ok := v.(int64); ok {
			version = int(vInt)
		}
	}

	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "plant doc missing json", slog.String("plantID", plantID))
		return types.Plant{}, fmt.Errorf("plant %s missing json: %w", plantID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "plant doc json not string", slog.String("plantID", plantID))
		return types.Plant{}, fmt.Errorf("plant %s json not string", plantID)
	}

	var p types.Plant
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		return types.Plant{}, fmt.Errorf("failed to unmarshal plant %s: %w", plantID, err)
	}
	p.ID = plantID

	p, migrated, err := types.MigratePlant(p, version)
	if err != nil {
		return types.Plant{}, fmt.Errorf("failed to migrate plant %s: %w", plantID, err)
	}
	if migrated {
		log.Ctx(ctx).InfoContext(ctx, "migrated plant document",
			slog.String("plantID", plantID),
			slog.Int("from", version),
			slog.Int("to", p.Version),
		)
	}
	return p, nil
}

// ListPlants returns the ids of every plant document.
func (f *FirestoreSource) ListPlants(ctx context.Context) ([]string, error) {
	iter := f.client.Collection(plantsCollection).Documents(ctx)
	defer iter.Stop()

	var ids []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating plants: %w", err)
		}
		ids = append(ids, doc.Ref.ID)
	}
	return ids, nil
}

// SetPlant stores p at the current plant version.
func (f *FirestoreSource) SetPlant(ctx context.Context, p types.Plant) error {
	if err := validatePlantID(p.ID); err != nil {
		return err
	}
	p.Version = types.CurrentPlantVersion
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plant: %w", err)
	}
	_, err = f.client.Collection(plantsCollection).Doc(p.ID).Set(ctx, map[string]interface{}{
		"json":    string(jsonBytes),
		"version": p.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to set plant %s: %w", p.ID, err)
	}
	return nil
}
