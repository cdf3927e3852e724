package poster

import (
	"io"
	"path/filepath"
	"strings"

	"moviecatalog/errs"
)

// MaxSize is the largest accepted poster, in bytes.
const MaxSize = 5 << 20

// PathPrefix is the URL path under which stored posters are served.
const PathPrefix = "/uploads/"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var (
	ErrNoFile       = errs.Errorf(errs.EINVALID, "No file uploaded")
	ErrInvalidType  = errs.Errorf(errs.EINVALID, "Invalid file type. Only images are allowed (jpg, jpeg, png, gif, webp)")
	ErrTooLarge     = errs.Errorf(errs.EINVALID, "File size exceeds 5MB limit")
	ErrURLRequired  = errs.Errorf(errs.EINVALID, "Image URL is required")
	ErrInvalidURL   = errs.Errorf(errs.EINVALID, "Image URL is invalid")
	ErrImageMissing = errs.Errorf(errs.ENOTFOUND, "Image not found")
)

// Upload is an incoming poster file.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Ext returns the lower-cased extension of the original filename.
func (u Upload) Ext() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}

func (u Upload) Validate() error {
	if u.Content == nil || u.Size <= 0 {
		return ErrNoFile
	}

	if !allowedExtensions[u.Ext()] {
		return ErrInvalidType
	}

	if u.Size > MaxSize {
		return ErrTooLarge
	}

	return nil
}
