package movie

import (
	"strings"
	"time"

	"moviecatalog/errs"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrTitleRequired    = errs.Errorf(errs.EINVALID, "movie: title is required")
	ErrRatingOutOfRange = errs.Errorf(errs.EINVALID, "movie: rating must be between 1 and 5")
)

// ErrNotFound is returned when no movie with the given id exists.
func ErrNotFound(id int) error {
	return errs.Errorf(errs.ENOTFOUND, "Movie with ID %d not found", id)
}

type Movie struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Genre       *string    `json:"genre"`
	Rating      *int       `json:"rating"`
	PosterImage *string    `json:"posterImage"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrTitleRequired
	}

	if m.Rating != nil && (*m.Rating < MinRating || *m.Rating > MaxRating) {
		return ErrRatingOutOfRange
	}

	return nil
}

// Editable returns a copy holding only the fields a caller may set.
// Identity and timestamps are always owned by the store.
func (m Movie) Editable() Movie {
	return Movie{
		Title:       m.Title,
		Genre:       m.Genre,
		Rating:      m.Rating,
		PosterImage: m.PosterImage,
	}
}

type SortOrder string

const (
	SortByTitle      SortOrder = "title"
	SortByTitleDesc  SortOrder = "title_desc"
	SortByRating     SortOrder = "rating"
	SortByRatingDesc SortOrder = "rating_desc"
)

// ParseSortOrder is case-insensitive and falls back to SortByTitle for
// anything it does not recognise.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortByTitle, SortByTitleDesc, SortByRating, SortByRatingDesc:
		return o
	default:
		return SortByTitle
	}
}

// Filter narrows List. Blank fields impose no constraint.
type Filter struct {
	SearchTerm string
	Genre      string
	Sort       SortOrder
}
