package media

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"hostelpass/internal/shared/apperror"
)

const MaxImageSize = 1 << 20 // 1MB

var (
	ErrImageTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"image exceeds the 1MB size limit",
		http.StatusBadRequest,
	)
	ErrUnsupportedImageType = apperror.New(
		apperror.CodeInvalidInput,
		"only jpeg, png and gif images are allowed",
		http.StatusBadRequest,
	)
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock
type Store interface {
	// StoreImage validates and persists an image, returning an opaque
	// reference usable as a profile image field.
	StoreImage(data []byte, contentType string) (string, error)
}

type diskStore struct {
	dir string
}

// NewDiskStore keeps uploads on the local filesystem under dir.
func NewDiskStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &diskStore{dir: dir}, nil
}

func (s *diskStore) StoreImage(data []byte, contentType string) (string, error) {
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}

	ext, ok := allowedImageTypes[contentType]
	if !ok {
		// Fall back to sniffing for clients that omit the header.
		ext, ok = allowedImageTypes[http.DetectContentType(data)]
		if !ok {
			return "", ErrUnsupportedImageType
		}
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}
