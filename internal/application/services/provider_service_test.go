package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/application/services"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/Therapistdirectorydesign/backend/pkg/errors"
)

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Create(ctx context.Context, provider *entities.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) ListWithCount(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Provider), args.Int(1), args.Error(2)
}

func (m *MockProviderRepository) FilterOptions(ctx context.Context) (*entities.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FilterOptions), args.Error(1)
}

type MockProviderSearchRepository struct {
	mock.Mock
}

func (m *MockProviderSearchRepository) SearchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProviderSearchRepository) Index(ctx context.Context, provider *entities.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderSearchRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestProviderService_List_AssemblesPage(t *testing.T) {
	repo := &MockProviderRepository{}
	service := services.NewProviderService(repo, nil)

	filter := repositories.ProviderFilter{Page: 2, Limit: 12}
	records := []*entities.Provider{{ID: "a", Name: "Dr. Ayesha"}}

	repo.On("ListWithCount", mock.Anything, filter).Return(records, 37, nil)

	page, err := service.List(context.Background(), filter)

	assert.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 12, page.Limit)
	assert.Equal(t, 37, page.Total)
	assert.Equal(t, records, page.Data)
	repo.AssertExpectations(t)
}

func TestProviderService_List_LongQueryUsesSearchIndex(t *testing.T) {
	repo := &MockProviderRepository{}
	searchRepo := &MockProviderSearchRepository{}
	service := services.NewProviderService(repo, searchRepo)

	filter := repositories.ProviderFilter{Search: "anxiety", Page: 1, Limit: 12}

	searchRepo.On("SearchIDs", mock.Anything, "anxiety", 250).Return([]string{"a", "b"}, nil)
	repo.On("ListWithCount", mock.Anything, mock.MatchedBy(func(f repositories.ProviderFilter) bool {
		return f.RestrictToIDs && assert.ObjectsAreEqual([]string{"a", "b"}, f.IDs)
	})).Return([]*entities.Provider{}, 0, nil)

	_, err := service.List(context.Background(), filter)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	searchRepo.AssertExpectations(t)
}

func TestProviderService_List_ShortQuerySkipsSearchIndex(t *testing.T) {
	repo := &MockProviderRepository{}
	searchRepo := &MockProviderSearchRepository{}
	service := services.NewProviderService(repo, searchRepo)

	filter := repositories.ProviderFilter{Search: "dr", Page: 1, Limit: 12}

	repo.On("ListWithCount", mock.Anything, filter).Return([]*entities.Provider{}, 0, nil)

	_, err := service.List(context.Background(), filter)

	assert.NoError(t, err)
	searchRepo.AssertNotCalled(t, "SearchIDs")
	repo.AssertExpectations(t)
}

func TestProviderService_List_FallsBackWhenIndexUnavailable(t *testing.T) {
	repo := &MockProviderRepository{}
	searchRepo := &MockProviderSearchRepository{}
	service := services.NewProviderService(repo, searchRepo)

	filter := repositories.ProviderFilter{Search: "anxiety", Page: 1, Limit: 12}

	searchRepo.On("SearchIDs", mock.Anything, "anxiety", 250).
		Return(nil, apperrors.NewExternalError("failed to search providers", errors.New("connection refused")))
	// The original filter goes through unchanged so the record store's
	// own text search applies
	repo.On("ListWithCount", mock.Anything, filter).Return([]*entities.Provider{}, 0, nil)

	_, err := service.List(context.Background(), filter)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProviderService_List_EmptySearchResultRestrictsToNothing(t *testing.T) {
	repo := &MockProviderRepository{}
	searchRepo := &MockProviderSearchRepository{}
	service := services.NewProviderService(repo, searchRepo)

	filter := repositories.ProviderFilter{Search: "zzzznomatch", Page: 1, Limit: 12}

	searchRepo.On("SearchIDs", mock.Anything, "zzzznomatch", 250).Return([]string{}, nil)
	repo.On("ListWithCount", mock.Anything, mock.MatchedBy(func(f repositories.ProviderFilter) bool {
		return f.RestrictToIDs && len(f.IDs) == 0
	})).Return([]*entities.Provider{}, 0, nil)

	page, err := service.List(context.Background(), filter)

	assert.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Data)
}

func TestProviderService_Create_IndexFailureDoesNotFail(t *testing.T) {
	repo := &MockProviderRepository{}
	searchRepo := &MockProviderSearchRepository{}
	service := services.NewProviderService(repo, searchRepo)

	provider := &entities.Provider{ID: "a", Name: "Dr. Ayesha"}

	repo.On("Create", mock.Anything, provider).Return(nil)
	searchRepo.On("Index", mock.Anything, provider).Return(errors.New("index down"))

	err := service.Create(context.Background(), provider)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	searchRepo.AssertExpectations(t)
}

func TestProviderService_FilterOptions_PassesThrough(t *testing.T) {
	repo := &MockProviderRepository{}
	service := services.NewProviderService(repo, nil)

	options := &entities.FilterOptions{
		ModeCounts: []entities.FacetCount{
			{Key: "In-person", Count: 12},
			{Key: "Online", Count: 8},
		},
	}
	repo.On("FilterOptions", mock.Anything).Return(options, nil)

	got, err := service.FilterOptions(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, options, got)
}
