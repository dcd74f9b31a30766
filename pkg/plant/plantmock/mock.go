package plantmock

import (
	"context"

	"github.com/raterudder/cspdispatch/pkg/plant"
	"github.com/raterudder/cspdispatch/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

var _ plant.Store = (*MockStore)(nil)

func (m *MockStore) GetPlant(ctx context.Context, plantID string) (types.Plant, error) {
	args := m.Called(ctx, plantID)
	return args.Get(0).(types.Plant), args.Error(1)
}

func (m *MockStore) ListPlants(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) SetPlant(ctx context.Context, p types.Plant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
