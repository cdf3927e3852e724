//nolint:unused
package httpserver_test

import (
	"context"
	"encoding/json"
	"moviecatalog/httpserver"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg := &config.Config{
		AllowOrigins: "*",
		BaseURL:      "http://localhost:8080",
	}
	cfg.Upload.Dir = t.TempDir()
	return cfg
}

func decodeAPIResponse(t testing.TB, rec *httptest.ResponseRecorder) httpserver.APIResponse {
	t.Helper()
	var resp httpserver.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

func ptr[T any](v T) *T { return &v }

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) ListMovies(ctx context.Context, f movie.Filter) ([]movie.Movie, error) {
	args := m.Called(ctx, f)
	movies, _ := args.Get(0).([]movie.Movie)
	return movies, args.Error(1)
}

func (m *MockMovieService) GetMovie(ctx context.Context, id int) (movie.Movie, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieService) CreateMovie(ctx context.Context, mv movie.Movie) (movie.Movie, error) {
	args := m.Called(ctx, mv)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, id int, mv movie.Movie) (movie.Movie, error) {
	args := m.Called(ctx, id, mv)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovieService) MovieExists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
