package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/api/handlers"
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

func newTestServer(repo repositories.ProviderRepository) *http.ServeMux {
	handler := handlers.NewProviderHandler(services.NewProviderService(repo, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /api/providers", handler.ListProviders)
	mux.HandleFunc("GET /api/providers/_filters/options", handler.GetFilterOptions)
	mux.HandleFunc("GET /api/providers/{id}", handler.GetProvider)
	return mux
}

const testProviderID = "7f3c2df2-94f0-4fd4-9ba9-21880dbd8bd1"

func TestListProviders_ReturnsPageEnvelope(t *testing.T) {
	repo := &MockProviderRepository{}
	records := []*entities.Provider{
		{ID: "a", Name: "Dr. Ayesha", City: "Lahore"},
		{ID: "b", Name: "Dr. Bilal", City: "Karachi"},
	}
	repo.On("ListWithCount", mock.Anything, mock.Anything).Return(records, 25, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/providers?page=2&limit=2", nil)
	rec := httptest.NewRecorder()
	newTestServer(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var page entities.ProviderPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Data, 2)
}

func TestListProviders_NormalizesQueryParams(t *testing.T) {
	repo := &MockProviderRepository{}
	repo.On("ListWithCount", mock.Anything, mock.MatchedBy(func(f repositories.ProviderFilter) bool {
		return f.Page == 1 && f.Limit == 100 &&
			len(f.Cities) == 2 &&
			f.Experience == repositories.Experience5to10
	})).Return([]*entities.Provider{}, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/providers?page=-3&limit=999&cities=Lahore,Karachi&experience=5-10", nil)
	rec := httptest.NewRecorder()
	newTestServer(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestListProviders_EmptyDirectory(t *testing.T) {
	repo := &MockProviderRepository{}
	repo.On("ListWithCount", mock.Anything, mock.Anything).Return([]*entities.Provider{}, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	rec := httptest.NewRecorder()
	newTestServer(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var page entities.ProviderPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestGetProvider_Found(t *testing.T) {
	repo := &MockProviderRepository{}
	repo.On("GetByID", mock.Anything, testProviderID).
		Return(&entities.Provider{ID: testProviderID, Name: "Dr. Ayesha"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/"+testProviderID, nil)
	rec := httptest.NewRecorder()
	newTestServer(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var provider entities.Provider
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &provider))
	assert.Equal(t, testProviderID, provider.ID)
	assert.Equal(t, "Dr. Ayesha", provider.Name)
}

func TestGetProvider_NotFound(t *testing.T) {
	repo := &MockProviderRepository{}
	repo.On("GetByID", mock.Anything, testProviderID).
		Return(nil, apperrors.NewNotFoundError("provider not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/providers/"+testProviderID, nil)
	rec := httptest.NewRecorder()
	newTestServer(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestGetProvider_MalformedIDIsBadRequest(t *testing.T) {
	repo := &MockProviderRepository{}

	req := httptest.NewRequest(http.MethodGet, "/api/providers/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	newTestServer(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "GetByID")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestGetFilterOptions(t *testing.T) {
	repo := &MockProviderRepository{}
	repo.On("FilterOptions", mock.Anything).Return(&entities.FilterOptions{
		CityCounts: []entities.FacetCount{{Key: "Lahore", Count: 40}, {Key: "Karachi", Count: 22}},
		ModeCounts: []entities.FacetCount{{Key: "In-person", Count: 50}, {Key: "Online", Count: 31}},
		FeeRangeCounts: []entities.FacetCount{
			{Key: "under-2000", Count: 5},
			{Key: "2000-4000", Count: 20},
			{Key: "4000-6000", Count: 18},
			{Key: "above-6000", Count: 9},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/_filters/options", nil)
	rec := httptest.NewRecorder()
	newTestServer(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var options entities.FilterOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Equal(t, "Lahore", options.CityCounts[0].Key)
	assert.Len(t, options.FeeRangeCounts, 4)
}

func TestHealth(t *testing.T) {
	repo := &MockProviderRepository{}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	newTestServer(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}
