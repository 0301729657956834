package io

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/stringart/pkg/errors"
)

// MaxPixels bounds the decoded size of an input image (width × height).
// Callers serving untrusted uploads may lower it.
var MaxPixels = 64 << 20

// ReadImage decodes an image from r and returns it together with the name of
// the format that decoded it ("png", "jpeg", "gif", "bmp", "tiff", "webp").
//
// ReadImage returns an ErrCodeInvalidImage error if r holds no recognized
// image, if the image has a zero dimension, or if it exceeds MaxPixels.
// ReadImage does not close r.
func ReadImage(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	return DecodeImage(data)
}

// DecodeImage decodes an in-memory image. See [ReadImage].
func DecodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidImage, "image is empty")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidImage, err, "unrecognized image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidImage, "image has zero size (%dx%d)", cfg.Width, cfg.Height)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, "", errors.New(errors.ErrCodeInvalidImage, "image too large: %dx%d", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidImage, err, "decode %s", format)
	}
	return img, format, nil
}

// ImportImage opens the file at path and decodes it with [ReadImage].
func ImportImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", path)
		}
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := ReadImage(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return img, format, nil
}
