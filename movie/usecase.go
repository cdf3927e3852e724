package movie

import "context"

type Service interface {
	ListMovies(ctx context.Context, f Filter) ([]Movie, error)
	GetMovie(ctx context.Context, id int) (Movie, error)
	CreateMovie(ctx context.Context, m Movie) (Movie, error)
	UpdateMovie(ctx context.Context, id int, m Movie) (Movie, error)
	DeleteMovie(ctx context.Context, id int) error
	MovieExists(ctx context.Context, id int) (bool, error)
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]Movie, error)
	GetByID(ctx context.Context, id int) (Movie, error)
	Create(ctx context.Context, m Movie) (Movie, error)
	Update(ctx context.Context, id int, m Movie) (Movie, error)
	Delete(ctx context.Context, id int) (bool, error)
	Exists(ctx context.Context, id int) (bool, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

func (uc *Usecase) ListMovies(ctx context.Context, f Filter) ([]Movie, error) {
	f.Sort = ParseSortOrder(string(f.Sort))
	movies, err := uc.r.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []Movie{}
	}
	return movies, nil
}

func (uc *Usecase) GetMovie(ctx context.Context, id int) (Movie, error) {
	return uc.r.GetByID(ctx, id)
}

func (uc *Usecase) CreateMovie(ctx context.Context, m Movie) (Movie, error) {
	m = m.Editable()
	if err := m.Validate(); err != nil {
		return Movie{}, err
	}
	return uc.r.Create(ctx, m)
}

func (uc *Usecase) UpdateMovie(ctx context.Context, id int, m Movie) (Movie, error) {
	m = m.Editable()
	if err := m.Validate(); err != nil {
		return Movie{}, err
	}
	return uc.r.Update(ctx, id, m)
}

func (uc *Usecase) DeleteMovie(ctx context.Context, id int) error {
	deleted, err := uc.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound(id)
	}
	return nil
}

func (uc *Usecase) MovieExists(ctx context.Context, id int) (bool, error) {
	return uc.r.Exists(ctx, id)
}
