package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mytheresa/go-shop-orders/models"
)

// MaxUploadSize bounds the size of an uploaded image request.
const MaxUploadSize = 10 << 20

var (
	ErrMissingFile = errors.New("missing image file")
	ErrNotImage    = errors.New("uploaded file is not an image")
	ErrTooLarge    = errors.New("uploaded file is too large")
)

// Storage keeps uploaded images on the local filesystem below Root.
type Storage struct {
	root string
	now  func() time.Time
}

func NewStorage(root string) *Storage {
	return &Storage{root: root, now: time.Now}
}

func (s *Storage) Root() string {
	return s.root
}

// Save writes content under a fresh dated path and returns that path,
// relative to the storage root and always slash-separated.
func (s *Storage) Save(filename string, content io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return "", ErrNotImage
	}

	path := models.ImagePath(filename, s.now())
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), content)); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("close image: %w", err)
	}
	return path, nil
}

// SaveUpload stores the multipart file found under field.
func (s *Storage) SaveUpload(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", ErrTooLarge
		}
		return "", ErrMissingFile
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", ErrMissingFile
	}
	defer file.Close()
	return s.Save(header.Filename, file)
}

// Remove deletes a stored image. Missing files are not an error.
func (s *Storage) Remove(path string) error {
	if path == "" {
		return nil
	}
	full := filepath.Join(s.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("image path %q escapes media root", path)
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// Handler serves stored images read-only.
func (s *Storage) Handler() http.Handler {
	return http.FileServer(http.Dir(s.root))
}
