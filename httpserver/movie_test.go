// nolint: funlen
package httpserver_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"moviecatalog/httpserver"
	"moviecatalog/movie"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMovieServer(t *testing.T) (*httpserver.Server, *MockMovieService) {
	t.Helper()
	server := httpserver.Default(testConfig(t))
	svc := new(MockMovieService)
	server.MovieService = svc
	return server, svc
}

func serve(server *httpserver.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestListMovies(t *testing.T) {
	server, svc := newMovieServer(t)

	t.Run("should return 200 with array of movies", func(t *testing.T) {
		created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		movies := []movie.Movie{
			{ID: 1, Title: "Inception", Genre: ptr("Sci-Fi"), Rating: ptr(4), CreatedAt: created},
			{ID: 2, Title: "The Dark Knight", CreatedAt: created},
		}
		svc.On("ListMovies", mock.Anything, movie.Filter{Sort: movie.SortByTitle}).Return(movies, nil).Once()

		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Inception", got[0]["title"])
		assert.Equal(t, "2025-01-01T00:00:00Z", got[0]["createdAt"])
		assert.Nil(t, got[1]["genre"])
		assert.Nil(t, got[1]["rating"])
		assert.Nil(t, got[1]["posterImage"])
		assert.Nil(t, got[1]["updatedAt"])
		svc.AssertExpectations(t)
	})

	t.Run("should pass query parameters as filter", func(t *testing.T) {
		expected := movie.Filter{SearchTerm: "dark knight", Genre: "drama", Sort: movie.SortByRatingDesc}
		svc.On("ListMovies", mock.Anything, expected).Return([]movie.Movie{}, nil).Once()

		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies?searchTerm=dark+knight&genre=drama&sortOrder=rating_desc", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("should ignore blank filters and unknown sort", func(t *testing.T) {
		svc.On("ListMovies", mock.Anything, movie.Filter{Sort: movie.SortByTitle}).Return([]movie.Movie{}, nil).Once()

		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies?searchTerm=%20%20&genre=&sortOrder=year", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("should return 500 without leaking detail", func(t *testing.T) {
		svc.On("ListMovies", mock.Anything, mock.Anything).Return(nil, errors.New("list movies: dial tcp 10.0.0.5:5432: connection refused")).Once()

		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeAPIResponse(t, rec)
		assert.Equal(t, "Internal server error", resp.Message)
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	})
}

func TestGetMovie(t *testing.T) {
	server, svc := newMovieServer(t)

	t.Run("should return 200 with movie", func(t *testing.T) {
		m := movie.Movie{ID: 3, Title: "The Dark Knight", Rating: ptr(5)}
		svc.On("GetMovie", mock.Anything, 3).Return(m, nil).Once()

		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies/3", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got movie.Movie
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, m.Title, got.Title)
		assert.Equal(t, 5, *got.Rating)
	})

	t.Run("should return 404 when movie is absent", func(t *testing.T) {
		svc.On("GetMovie", mock.Anything, 404).Return(movie.Movie{}, movie.ErrNotFound(404)).Once()

		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies/404", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeAPIResponse(t, rec)
		assert.Equal(t, "100404", resp.Code)
		assert.Equal(t, "Movie with ID 404 not found", resp.Message)
	})

	t.Run("should return 400 for non-numeric id", func(t *testing.T) {
		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies/abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "GetMovie", mock.Anything, mock.Anything)
	})
}

func TestMovieExists(t *testing.T) {
	server, svc := newMovieServer(t)

	svc.On("MovieExists", mock.Anything, 1).Return(true, nil).Once()
	svc.On("MovieExists", mock.Anything, 2).Return(false, nil).Once()

	rec := serve(server, httptest.NewRequest(http.MethodHead, "/api/movies/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(server, httptest.NewRequest(http.MethodHead, "/api/movies/2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(server, httptest.NewRequest(http.MethodHead, "/api/movies/x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestCreateMovie(t *testing.T) {
	server, svc := newMovieServer(t)

	t.Run("should return 201 with location of the new movie", func(t *testing.T) {
		input := movie.Movie{Title: "Inception", Genre: ptr("Sci-Fi"), Rating: ptr(4), PosterImage: ptr("/uploads/a.png")}
		stored := input
		stored.ID = 12
		stored.CreatedAt = time.Now().UTC()
		svc.On("CreateMovie", mock.Anything, input).Return(stored, nil).Once()

		rec := serve(server, jsonRequest(http.MethodPost, "/api/movies",
			`{"title":"Inception","genre":"Sci-Fi","rating":4,"posterImage":"/uploads/a.png"}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/api/movies/12", rec.Header().Get("Location"))
		var got movie.Movie
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 12, got.ID)
		assert.Nil(t, got.UpdatedAt)
		svc.AssertExpectations(t)
	})

	t.Run("should ignore id and timestamps from the body", func(t *testing.T) {
		input := movie.Movie{Title: "Heat"}
		svc.On("CreateMovie", mock.Anything, input).Return(movie.Movie{ID: 13, Title: "Heat"}, nil).Once()

		rec := serve(server, jsonRequest(http.MethodPost, "/api/movies",
			`{"id":99,"title":"Heat","createdAt":"2001-01-01T00:00:00Z","updatedAt":"2001-01-02T00:00:00Z"}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	tests := []struct {
		name   string
		body   string
		fields map[string]string
	}{
		{
			name:   "missing title",
			body:   `{"genre":"Drama"}`,
			fields: map[string]string{"title": "is required"},
		},
		{
			name:   "blank title",
			body:   `{"title":"   "}`,
			fields: map[string]string{"title": "is required"},
		},
		{
			name:   "title too long",
			body:   fmt.Sprintf(`{"title":%q}`, strings.Repeat("a", 201)),
			fields: map[string]string{"title": "must not exceed 200 characters"},
		},
		{
			name:   "genre too long",
			body:   fmt.Sprintf(`{"title":"ok","genre":%q}`, strings.Repeat("g", 101)),
			fields: map[string]string{"genre": "must not exceed 100 characters"},
		},
		{
			name:   "rating out of range",
			body:   `{"title":"ok","rating":6}`,
			fields: map[string]string{"rating": "must be at most 5"},
		},
		{
			name:   "rating zero",
			body:   `{"title":"ok","rating":0}`,
			fields: map[string]string{"rating": "must be at least 1"},
		},
		{
			name:   "poster too long",
			body:   fmt.Sprintf(`{"title":"ok","posterImage":%q}`, strings.Repeat("p", 501)),
			fields: map[string]string{"posterImage": "must not exceed 500 characters"},
		},
		{
			name: "several fields at once",
			body: `{"title":"","rating":9}`,
			fields: map[string]string{
				"title":  "is required",
				"rating": "must be at most 5",
			},
		},
	}

	for _, tt := range tests {
		t.Run("should return 400 on "+tt.name, func(t *testing.T) {
			rec := serve(server, jsonRequest(http.MethodPost, "/api/movies", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeAPIResponse(t, rec)
			assert.Equal(t, "100010", resp.Code)
			assert.Equal(t, "validation error", resp.Message)
			assert.Equal(t, tt.fields, resp.Errors)
		})
	}

	t.Run("should accept unicode title of exactly 200 characters", func(t *testing.T) {
		title := strings.Repeat("é", 200)
		svc.On("CreateMovie", mock.Anything, movie.Movie{Title: title}).Return(movie.Movie{ID: 14, Title: title}, nil).Once()

		rec := serve(server, jsonRequest(http.MethodPost, "/api/movies", fmt.Sprintf(`{"title":%q}`, title)))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("should return 400 on malformed JSON", func(t *testing.T) {
		rec := serve(server, jsonRequest(http.MethodPost, "/api/movies", `{"title": "Heat", invalid`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should return 400 on fractional rating", func(t *testing.T) {
		rec := serve(server, jsonRequest(http.MethodPost, "/api/movies", `{"title":"Heat","rating":3.5}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateMovie(t *testing.T) {
	server, svc := newMovieServer(t)

	t.Run("should return 200 with updated movie", func(t *testing.T) {
		now := time.Now().UTC()
		input := movie.Movie{Title: "Inception", Rating: ptr(5)}
		stored := movie.Movie{ID: 2, Title: "Inception", Rating: ptr(5), UpdatedAt: &now}
		svc.On("UpdateMovie", mock.Anything, 2, input).Return(stored, nil).Once()

		rec := serve(server, jsonRequest(http.MethodPut, "/api/movies/2", `{"title":"Inception","rating":5}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got movie.Movie
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.NotNil(t, got.UpdatedAt)
		svc.AssertExpectations(t)
	})

	t.Run("should return 404 when movie is absent", func(t *testing.T) {
		svc.On("UpdateMovie", mock.Anything, 77, movie.Movie{Title: "Ghost"}).Return(movie.Movie{}, movie.ErrNotFound(77)).Once()

		rec := serve(server, jsonRequest(http.MethodPut, "/api/movies/77", `{"title":"Ghost"}`))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should return 400 before touching the service", func(t *testing.T) {
		rec := serve(server, jsonRequest(http.MethodPut, "/api/movies/2", `{"title":""}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateMovie", mock.Anything, 2, movie.Movie{})
	})
}

func TestDeleteMovie(t *testing.T) {
	server, svc := newMovieServer(t)

	t.Run("should return 204 with empty body", func(t *testing.T) {
		svc.On("DeleteMovie", mock.Anything, 5).Return(nil).Once()

		rec := serve(server, httptest.NewRequest(http.MethodDelete, "/api/movies/5", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("should return 404 when movie is absent", func(t *testing.T) {
		svc.On("DeleteMovie", mock.Anything, 6).Return(movie.ErrNotFound(6)).Once()

		rec := serve(server, httptest.NewRequest(http.MethodDelete, "/api/movies/6", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Movie with ID 6 not found", decodeAPIResponse(t, rec).Message)
	})

	t.Run("should return 500 on storage failure", func(t *testing.T) {
		svc.On("DeleteMovie", mock.Anything, 7).Return(errors.New("delete movie 7: broken pipe")).Once()

		rec := serve(server, httptest.NewRequest(http.MethodDelete, "/api/movies/7", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "broken pipe")
	})
}

func TestMovieRoutesWithoutService(t *testing.T) {
	server := httpserver.Default(testConfig(t))

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies", nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
