// Package uploads stores article images and their thumbnails on local disk.
package uploads

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"blog-cms/metrics"
	"blog-cms/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	PublicPrefix    = "/uploads"
	ThumbnailWidth  = 300
	ThumbnailHeight = 300
)

// Stored describes a saved upload by its public paths.
type Stored struct {
	Image     string
	Thumbnail string
}

type Store struct {
	dir      string
	maxBytes int64
	log      zerolog.Logger
}

func NewStore(dir string, maxBytes int64, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes, log: log}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save writes an uploaded image under a random name and tries to make a
// thumbnail next to it. A failed thumbnail leaves Stored.Thumbnail empty.
func (s *Store) Save(fh *multipart.FileHeader) (*Stored, error) {
	if fh.Size > s.maxBytes {
		return nil, models.ErrorValidation{Message: fmt.Sprintf("image must not exceed %d bytes", s.maxBytes)}
	}

	src, err := fh.Open()
	if err != nil {
		return nil, models.ErrorValidation{Message: "could not read uploaded image"}
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, models.ErrorValidation{Message: "could not read uploaded image"}
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return nil, models.ErrorValidation{Message: "only image files are allowed"}
	}

	name := uuid.NewString() + extension(contentType)
	dst := filepath.Join(s.dir, name)

	out, err := os.Create(dst)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to store image", Err: err}
	}
	written, err := io.Copy(out, io.MultiReader(bytes.NewReader(head[:n]), io.LimitReader(src, s.maxBytes-int64(n)+1)))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = models.ErrorValidation{Message: fmt.Sprintf("image must not exceed %d bytes", s.maxBytes)}
	}
	if err != nil {
		_ = os.Remove(dst)
		if verr, ok := err.(models.ErrorValidation); ok {
			return nil, verr
		}
		return nil, models.ErrorInternalServer{Message: "failed to store image", Err: err}
	}

	stored := &Stored{Image: path.Join(PublicPrefix, name)}

	thumbName, err := s.thumbnail(dst, name)
	if err != nil {
		metrics.ThumbnailFailuresTotal.Inc()
		s.log.Warn().Err(err).Str("file", name).Msg("thumbnail generation failed")
		return stored, nil
	}
	stored.Thumbnail = path.Join(PublicPrefix, thumbName)
	return stored, nil
}

func (s *Store) thumbnail(src, name string) (string, error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}

	thumb := imaging.Fill(img, ThumbnailWidth, ThumbnailHeight, imaging.Center, imaging.Lanczos)

	thumbName := "thumb-" + strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	if err := imaging.Save(thumb, filepath.Join(s.dir, thumbName), imaging.JPEGQuality(85)); err != nil {
		return "", err
	}
	return thumbName, nil
}

// extension trusts the sniffed content type, never the client file name.
func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	case "image/jpeg":
		return ".jpg"
	default:
		return ".img"
	}
}

// Remove deletes the files of a stored upload, used when the owning record
// could not be created.
func (s *Store) Remove(stored *Stored) {
	for _, p := range []string{stored.Image, stored.Thumbnail} {
		if p == "" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, path.Base(p))); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("file", p).Msg("failed to remove upload")
		}
	}
}
