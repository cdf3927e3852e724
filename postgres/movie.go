package postgres

import (
	"context"
	"errors"
	"fmt"
	"moviecatalog/movie"
	"time"

	"gorm.io/gorm"
)

// MovieModel represents the database model for movies.
// Timestamps are stamped by MovieRepository, not by gorm.
type MovieModel struct {
	ID          int        `gorm:"primaryKey"`
	Title       string     `gorm:"size:200;not null"`
	Genre       *string    `gorm:"size:100"`
	Rating      *int
	PosterImage *string    `gorm:"size:500"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

// toMovie reports timestamps in UTC whatever zone the driver scanned them in.
func (m MovieModel) toMovie() movie.Movie {
	var updatedAt *time.Time
	if m.UpdatedAt != nil {
		u := m.UpdatedAt.UTC()
		updatedAt = &u
	}
	return movie.Movie{
		ID:          m.ID,
		Title:       m.Title,
		Genre:       m.Genre,
		Rating:      m.Rating,
		PosterImage: m.PosterImage,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   updatedAt,
	}
}

var orderClauses = map[movie.SortOrder]string{
	movie.SortByTitle:      "title ASC, id ASC",
	movie.SortByTitleDesc:  "title DESC, id ASC",
	movie.SortByRating:     "COALESCE(rating, 0) ASC, id ASC",
	movie.SortByRatingDesc: "COALESCE(rating, 0) DESC, id ASC",
}

// MovieRepository implements movie.Repository interface
type MovieRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewMovieRepository creates a new movie repository. Its clock is truncated
// to the microsecond precision of timestamptz.
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// WithClock replaces the clock used to stamp created_at and updated_at.
func (r *MovieRepository) WithClock(now func() time.Time) *MovieRepository {
	r.now = now
	return r
}

func (r *MovieRepository) List(ctx context.Context, f movie.Filter) ([]movie.Movie, error) {
	q := r.db.WithContext(ctx).Model(&MovieModel{})

	if f.SearchTerm != "" {
		q = q.Where("strpos(lower(title), lower(?)) > 0", f.SearchTerm)
	}
	if f.Genre != "" {
		q = q.Where("lower(genre) = lower(?)", f.Genre)
	}

	order, ok := orderClauses[f.Sort]
	if !ok {
		order = orderClauses[movie.SortByTitle]
	}

	var models []MovieModel
	if err := q.Order(order).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		movies[i] = model.toMovie()
	}
	return movies, nil
}

func (r *MovieRepository) GetByID(ctx context.Context, id int) (movie.Movie, error) {
	var model MovieModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return movie.Movie{}, movie.ErrNotFound(id)
	}
	if err != nil {
		return movie.Movie{}, fmt.Errorf("get movie %d: %w", id, err)
	}
	return model.toMovie(), nil
}

func (r *MovieRepository) Create(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	model := MovieModel{
		Title:       m.Title,
		Genre:       m.Genre,
		Rating:      m.Rating,
		PosterImage: m.PosterImage,
		CreatedAt:   r.now(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return movie.Movie{}, fmt.Errorf("create movie: %w", err)
	}
	return model.toMovie(), nil
}

// Update overwrites every editable column in one statement; the affected
// row count decides not-found. Concurrent updates are last-writer-wins.
func (r *MovieRepository) Update(ctx context.Context, id int, m movie.Movie) (movie.Movie, error) {
	now := r.now()
	res := r.db.WithContext(ctx).
		Model(&MovieModel{}).
		Where("id = ?", id).
		Select("title", "genre", "rating", "poster_image", "updated_at").
		Updates(&MovieModel{
			Title:       m.Title,
			Genre:       m.Genre,
			Rating:      m.Rating,
			PosterImage: m.PosterImage,
			UpdatedAt:   &now,
		})
	if res.Error != nil {
		return movie.Movie{}, fmt.Errorf("update movie %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return movie.Movie{}, movie.ErrNotFound(id)
	}
	return r.GetByID(ctx, id)
}

func (r *MovieRepository) Delete(ctx context.Context, id int) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&MovieModel{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete movie %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *MovieRepository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&MovieModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check movie %d: %w", id, err)
	}
	return count > 0, nil
}
