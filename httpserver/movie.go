package httpserver

import (
	"moviecatalog/errs"
	"net/http"

	"github.com/labstack/echo/v4"
)

const getMovieRoute = "movies.get"

var (
	ErrInvalidMovieID  = errs.Errorf(errs.EINVALID, "invalid movie id")
	errNoMovieService  = errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	errNoPosterService = errs.Errorf(errs.ENOTIMPLEMENTED, "upload service not configured")
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	movies := g.Group("/movies", s.requireMovieService)
	movies.GET("", s.handleListMovies)
	movies.POST("", s.handleCreateMovie)
	movies.GET("/:id", s.handleGetMovie).Name = getMovieRoute
	movies.HEAD("/:id", s.handleMovieExists)
	movies.PUT("/:id", s.handleUpdateMovie)
	movies.DELETE("/:id", s.handleDeleteMovie)
}

func (s *Server) requireMovieService(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.MovieService == nil {
			return errNoMovieService
		}
		return next(c)
	}
}

func (s *Server) handleListMovies(c echo.Context) error {
	movies, err := s.MovieService.ListMovies(c.Request().Context(), listFilter(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movies)
}

func (s *Server) handleGetMovie(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	m, err := s.MovieService.GetMovie(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, m)
}

func (s *Server) handleMovieExists(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	ok, err := s.MovieService.MovieExists(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}

	return c.NoContent(http.StatusOK)
}

func (s *Server) handleCreateMovie(c echo.Context) error {
	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := s.MovieService.CreateMovie(c.Request().Context(), req.ToMovie())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, c.Echo().Reverse(getMovieRoute, m.ID))
	return c.JSON(http.StatusCreated, m)
}

func (s *Server) handleUpdateMovie(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := s.MovieService.UpdateMovie(c.Request().Context(), id, req.ToMovie())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, m)
}

func (s *Server) handleDeleteMovie(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	if err := s.MovieService.DeleteMovie(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
