// Command movieseed fills the catalog from the MovieLens movies.csv, either a
// local file or the movies.csv entry of a downloaded MovieLens zip.
package main

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"moviecatalog/pkg/config"
	"moviecatalog/postgres"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	defaultMovieLensURL = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"
	downloadTimeout     = 2 * time.Minute
)

func main() {
	var (
		csvPath string
		zipURL  string
		limit   int
	)

	flag.StringVar(&csvPath, "csv", "", "Path to movies.csv (skip download)")
	flag.StringVar(&zipURL, "url", defaultMovieLensURL, "MovieLens zip URL")
	flag.IntVar(&limit, "limit", 0, "Limit number of rows to import (0 = all)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(postgres.Options{
		DSN:      cfg.DB.URL,
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		slog.Error("cannot open postgres connection", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	src, err := openSource(ctx, csvPath, zipURL)
	if err != nil {
		slog.Error("cannot open dataset", "error", err)
		os.Exit(1)
	}
	defer src.Close()

	start := time.Now()
	count, err := importMovies(ctx, db, src, limit)
	if err != nil {
		slog.Error("import failed", "error", err, "rows", count)
		os.Exit(1)
	}

	slog.Info("import completed", "rows", count, "took", time.Since(start).String())
}

// openSource returns the movies.csv stream, from disk when csvPath is set and
// from the zip at zipURL otherwise.
func openSource(ctx context.Context, csvPath, zipURL string) (io.ReadCloser, error) {
	if csvPath != "" {
		return os.Open(csvPath)
	}
	if zipURL == "" {
		return nil, errors.New("either -csv or -url is required")
	}

	archive, err := fetchArchive(ctx, zipURL)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", zipURL, err)
	}

	rc, err := openMoviesEntry(archive)
	if err != nil {
		_ = archive.Close()
		return nil, err
	}
	return rc, nil
}

// tempArchive is a downloaded zip that deletes itself on Close.
type tempArchive struct {
	*os.File
}

func (a tempArchive) Close() error {
	err := a.File.Close()
	_ = os.Remove(a.Name())
	return err
}

func fetchArchive(ctx context.Context, zipURL string) (tempArchive, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, zipURL, nil)
	if err != nil {
		return tempArchive{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return tempArchive{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tempArchive{}, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	f, err := os.CreateTemp("", "movielens-*.zip")
	if err != nil {
		return tempArchive{}, err
	}
	archive := tempArchive{f}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = archive.Close()
		return tempArchive{}, err
	}
	return archive, nil
}

// zipEntry closes the entry together with the archive it was read from.
type zipEntry struct {
	io.ReadCloser
	archive io.Closer
}

func (e zipEntry) Close() error {
	err := e.ReadCloser.Close()
	if cerr := e.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

func openMoviesEntry(archive tempArchive) (io.ReadCloser, error) {
	info, err := archive.Stat()
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(archive, info.Size())
	if err != nil {
		return nil, err
	}

	for _, file := range zr.File {
		if path.Base(file.Name) != "movies.csv" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		return zipEntry{ReadCloser: rc, archive: archive}, nil
	}

	return nil, errors.New("movies.csv not found in zip")
}

const (
	batchSize   = 500
	noGenres    = "(no genres listed)"
	maxTitleLen = 200
	maxGenreLen = 100
)

func importMovies(ctx context.Context, db *gorm.DB, src io.Reader, limit int) (int, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	idxTitle, idxGenres, err := parseMovieCSVHeader(reader)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	var batch []postgres.MovieModel
	count := 0

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := tx.CreateInBatches(batch, batchSize).Error; err != nil {
				return err
			}
			count += len(batch)
			batch = batch[:0]
			return nil
		}

		for limit <= 0 || count+len(batch) < limit {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}

			model, ok := parseMovieRecord(record, idxTitle, idxGenres)
			if !ok {
				continue
			}
			model.CreatedAt = now
			batch = append(batch, model)

			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}

		return flush()
	})

	return count, err
}

func parseMovieCSVHeader(reader *csv.Reader) (int, int, error) {
	header, err := reader.Read()
	if err != nil {
		return 0, 0, err
	}

	idxTitle, idxGenres := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "title":
			idxTitle = i
		case "genres":
			idxGenres = i
		}
	}
	if idxTitle == -1 || idxGenres == -1 {
		return 0, 0, errors.New("missing required columns in csv header")
	}

	return idxTitle, idxGenres, nil
}

// parseMovieRecord maps a MovieLens row to a catalog movie: the title as is
// and the first listed genre. Rating and poster stay unset.
func parseMovieRecord(record []string, idxTitle, idxGenres int) (postgres.MovieModel, bool) {
	if idxTitle >= len(record) || idxGenres >= len(record) {
		return postgres.MovieModel{}, false
	}

	title := truncate(strings.TrimSpace(record[idxTitle]), maxTitleLen)
	if title == "" {
		return postgres.MovieModel{}, false
	}

	model := postgres.MovieModel{Title: title}
	genre := strings.TrimSpace(strings.SplitN(record[idxGenres], "|", 2)[0])
	if genre != "" && genre != noGenres {
		genre = truncate(genre, maxGenreLen)
		model.Genre = &genre
	}
	return model, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
