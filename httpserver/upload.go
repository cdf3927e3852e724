package httpserver

import (
	"errors"
	"fmt"
	"moviecatalog/poster"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterUploadRoutes(g *echo.Group) {
	upload := g.Group("/upload", s.requirePosterService, limitUploadBody)
	upload.POST("/image", s.handleUploadImage)
	upload.DELETE("/image", s.handleDeleteImage)
}

func (s *Server) requirePosterService(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.PosterService == nil {
			return errNoPosterService
		}
		return next(c)
	}
}

func limitUploadBody(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.ContentLength > uploadBodyLimit {
			return poster.ErrTooLarge
		}
		req.Body = http.MaxBytesReader(c.Response(), req.Body, uploadBodyLimit)
		return next(c)
	}
}

func (s *Server) handleUploadImage(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return poster.ErrTooLarge
		}
		return poster.ErrNoFile
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	url, err := s.PosterService.Upload(c.Request().Context(), poster.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleDeleteImage(c echo.Context) error {
	if err := s.PosterService.Delete(c.Request().Context(), c.QueryParam("imageUrl")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Image deleted successfully"})
}
