package httpserver

import (
	"moviecatalog/movie"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// MovieRequest is the body of create and update calls. Its tags are the
// single source of the per-field rules.
type MovieRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Genre       *string `json:"genre" validate:"omitempty,max=100"`
	Rating      *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	PosterImage *string `json:"posterImage" validate:"omitempty,max=500"`
}

func (r MovieRequest) ToMovie() movie.Movie {
	return movie.Movie{
		Title:       r.Title,
		Genre:       r.Genre,
		Rating:      r.Rating,
		PosterImage: r.PosterImage,
	}
}

func movieID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, ErrInvalidMovieID
	}
	return id, nil
}

func listFilter(c echo.Context) movie.Filter {
	return movie.Filter{
		SearchTerm: nonBlank(c.QueryParam("searchTerm")),
		Genre:      nonBlank(c.QueryParam("genre")),
		Sort:       movie.ParseSortOrder(c.QueryParam("sortOrder")),
	}
}

func nonBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
