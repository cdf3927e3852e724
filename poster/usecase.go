package poster

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

type Service interface {
	Upload(ctx context.Context, u Upload) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// Storage persists poster files by name. Remove returns ErrImageMissing
// when no file with that name exists.
type Storage interface {
	Save(ctx context.Context, name string, content io.Reader) error
	Remove(ctx context.Context, name string) error
}

type Usecase struct {
	s       Storage
	baseURL string
	newName func() string
}

func NewUsecase(s Storage, baseURL string) *Usecase {
	return &Usecase{
		s:       s,
		baseURL: strings.TrimRight(baseURL, "/"),
		newName: uuid.NewString,
	}
}

func (uc *Usecase) Upload(ctx context.Context, u Upload) (string, error) {
	if err := u.Validate(); err != nil {
		return "", err
	}

	name := uc.newName() + u.Ext()
	if err := uc.s.Save(ctx, name, u.Content); err != nil {
		return "", fmt.Errorf("upload image %s: %w", name, err)
	}

	return uc.baseURL + PathPrefix + name, nil
}

func (uc *Usecase) Delete(ctx context.Context, imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return ErrURLRequired
	}

	u, err := url.Parse(imageURL)
	if err != nil {
		return ErrInvalidURL
	}

	name := path.Base(u.Path)
	switch name {
	case ".", "..", "/":
		return ErrImageMissing
	}

	if err := uc.s.Remove(ctx, name); err != nil {
		return fmt.Errorf("delete image %s: %w", name, err)
	}
	return nil
}
