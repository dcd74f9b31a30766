package plant

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/cspdispatch/pkg/log"
	"github.com/raterudder/cspdispatch/pkg/types"
	"gopkg.in/yaml.v3"
)

const fileExt = ".yaml"

// FileSource reads plants from YAML files named <id>.yaml in a directory.
type FileSource struct {
	dir string
}

func configuredFile() *FileSource {
	dir := lflag.String("plant-dir", "plants", "Directory of <id>.yaml plant definitions")

	f := &FileSource{}

	lflag.Do(func() {
		f.dir = *dir
	})

	return f
}

// NewFileSource returns a FileSource reading from dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Validate checks that the directory exists.
func (f *FileSource) Validate() error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("plant directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("plant directory %s is not a directory", f.dir)
	}
	return nil
}

func (f *FileSource) path(plantID string) string {
	return filepath.Join(f.dir, plantID+fileExt)
}

// GetPlant reads and migrates the plant definition for plantID.
func (f *FileSource) GetPlant(ctx context.Context, plantID string) (types.Plant, error) {
	if err := validatePlantID(plantID); err != nil {
		return types.Plant{}, err
	}
	b, err := os.ReadFile(f.path(plantID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Plant{}, fmt.Errorf("%w: %s", ErrPlantNotFound, plantID)
		}
		return types.Plant{}, fmt.Errorf("failed to read plant %s: %w", plantID, err)
	}

	var p types.Plant
	if err := yaml.Unmarshal(b, &p); err != nil {
		return types.Plant{}, fmt.Errorf("failed to unmarshal plant %s: %w", plantID, err)
	}
	if p.ID == "" {
		p.ID = plantID
	}

	version := p.Version
	p, migrated, err := types.MigratePlant(p, version)
	if err != nil {
		return types.Plant{}, fmt.Errorf("failed to migrate plant %s: %w", plantID, err)
	}
	if migrated {
		log.Ctx(ctx).InfoContext(ctx, "migrated plant definition",
			slog.String("plantID", plantID),
			slog.Int("from", version),
			slog.Int("to", p.Version),
		)
	}
	return p, nil
}

// ListPlants returns the ids of every plant file in the directory, sorted.
func (f *FileSource) ListPlants(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// SetPlant writes p to <id>.yaml, replacing any existing definition.
func (f *FileSource) SetPlant(ctx context.Context, p types.Plant) error {
	if err := validatePlantID(p.ID); err != nil {
		return err
	}
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plant %s: %w", p.ID, err)
	}
	if err := os.WriteFile(f.path(p.ID), b, 0o644); err != nil {
		return fmt.Errorf("failed to write plant %s: %w", p.ID, err)
	}
	return nil
}

func (f *FileSource) Close() error {
	return nil
}
