// Package banners keeps the per-category banner images on local disk.
package banners

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// MaxSide is the longest side a stored banner may have.
	MaxSide     = 1280
	jpegQuality = 90
	ext         = ".jpg"
)

// ErrInvalidName is returned for names that are empty or would escape the banner directory.
var ErrInvalidName = errors.New("invalid banner name")

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create banners dir %s", dir)
	}
	return &Store{dir: dir}, nil
}

// Path returns the file a banner with the given name is stored at.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+ext)
}

func (s *Store) Exists(name string) bool {
	if validate(name) != nil {
		return false
	}
	fi, err := os.Stat(s.Path(name))
	return err == nil && !fi.IsDir()
}

// Read returns the stored banner bytes for name.
func (s *Store) Read(name string) ([]byte, error) {
	if err := validate(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read banner %q", name)
	}
	return data, nil
}

// Write normalizes the image and stores it as the banner for name.
// Images larger than MaxSide are shrunk to fit, and everything is re-encoded as JPEG.
func (s *Store) Write(name string, data []byte) (string, error) {
	if err := validate(name); err != nil {
		return "", err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", errors.Wrap(err, "failed to decode banner image")
	}
	b := img.Bounds()
	if b.Dx() > MaxSide || b.Dy() > MaxSide {
		img = imaging.Fit(img, MaxSide, MaxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", errors.Wrap(err, "failed to encode banner image")
	}

	dst := s.Path(name)
	tmp := filepath.Join(s.dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write banner temp file")
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", errors.Wrapf(err, "failed to move banner into %s", dst)
	}
	log.WithFields(log.Fields{
		"name":   name,
		"path":   dst,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Info("banner saved")
	return dst, nil
}

// Delete removes the banner file. A missing file is not an error.
func (s *Store) Delete(name string) error {
	if err := validate(name); err != nil {
		return err
	}
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete banner %q", name)
	}
	return nil
}

func validate(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// ValidName reports whether name can be used as a banner name.
func ValidName(name string) bool {
	return validate(name) == nil
}
