package imagecodec

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Load decodes the image stored at path. PNG, JPEG, BMP and TIFF are supported.
func Load(path string) (img image.Image, err error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, _, err = image.Decode(f); err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", path, err)
	}

	return
}

// Save encodes img at path, in the format given by the extension of path
// (.png, .jpg, .jpeg, .bmp, .tif, .tiff).
func Save(path string, img image.Image) (err error) {

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = Encode(f, filepath.Ext(path), img); err != nil {
		f.Close()
		return fmt.Errorf("cannot encode %s: %w", path, err)
	}

	return f.Close()
}

// Encode writes img on w in the format given by the extension ext.
func Encode(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, nil)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}
