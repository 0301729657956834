package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/stringart/pkg/raster"
)

// JPEGQuality is the quality used by [EncodeJPEG].
const JPEGQuality = 95

// EncodePNG writes the field as a PNG.
func EncodePNG(w io.Writer, f *raster.Field) error {
	if err := imaging.Encode(w, Image(f), imaging.PNG); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// EncodeJPEG writes the field as a JPEG.
func EncodeJPEG(w io.Writer, f *raster.Field) error {
	if err := imaging.Encode(w, Image(f), imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// PNG returns the PNG encoding of the field.
func PNG(f *raster.Field) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEG returns the JPEG encoding of the field.
func JPEG(f *raster.Field) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
