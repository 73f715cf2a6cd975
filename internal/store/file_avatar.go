package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-taskpro/models"
)

// AvatarURLPrefix is the path under which saved avatars are served.
const AvatarURLPrefix = "/avatars/"

// ErrUnsupportedAvatar is returned when the uploaded file is not an image
// of a supported type.
var ErrUnsupportedAvatar = errors.New("avatar must be a jpeg, png, gif or webp image")

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// avatarFileStorage writes avatars to a local directory. One file per user;
// a new upload replaces the previous one.
type avatarFileStorage struct {
	dir string
}

// NewAvatarFileStorage constructs an [AvatarStorage] rooted at dir. The
// directory is created on first save.
func NewAvatarFileStorage(dir string) AvatarStorage {
	return &avatarFileStorage{dir: dir}
}

func (a *avatarFileStorage) Dir() string {
	return a.dir
}

// SaveAvatar sniffs the image type from its content, writes it to a
// temporary file and renames it into place.
func (a *avatarFileStorage) SaveAvatar(ctx context.Context, userID string, avatar models.Avatar) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(avatar.Content) == 0 {
		return "", ErrUnsupportedAvatar
	}

	ext, ok := avatarExtensions[http.DetectContentType(avatar.Content)]
	if !ok {
		return "", ErrUnsupportedAvatar
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create avatar dir: %w", ErrAvatarNotSaved, err)
	}

	// stale avatars with another extension
	for _, other := range avatarExtensions {
		if other != ext {
			_ = os.Remove(filepath.Join(a.dir, userID+other))
		}
	}

	name := userID + ext
	tmp, err := os.CreateTemp(a.dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAvatarNotSaved, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(avatar.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %w", ErrAvatarNotSaved, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAvatarNotSaved, err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(a.dir, name)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAvatarNotSaved, err)
	}

	return AvatarURLPrefix + name, nil
}
