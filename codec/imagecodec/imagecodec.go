// Package imagecodec encrypts images row by row: the image is resized to the
// ring degree, and every row of every RGB channel is encrypted as one message
// of pixel intensities.
package imagecodec

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/tuneinsight/toyrlwe/rlwe"
)

// Channels is the number of encrypted color channels (R, G, B).
const Channels = 3

// EncryptedImage is an image whose rows are encrypted channel by channel.
type EncryptedImage struct {
	// Width and Height of the resized image that was encrypted.
	Width, Height int
	// Bounds of the original image, restored on decryption.
	Bounds image.Rectangle
	// Rows[ch][y] encrypts the intensities of channel ch on row y.
	Rows [Channels][]*rlwe.Ciphertext
}

// Codec runs the row encryptions and decryptions on a bounded number of goroutines.
type Codec struct {
	// Workers is the maximum number of rows processed concurrently.
	// A non-positive value uses runtime.GOMAXPROCS(0).
	Workers int

	logger *zerolog.Logger
}

// NewCodec returns a Codec using the given number of workers and logger.
// A nil logger disables logging.
func NewCodec(workers int, logger *zerolog.Logger) *Codec {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Codec{Workers: workers, logger: logger}
}

func (c *Codec) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Codec) log() *zerolog.Logger {
	if c.logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return c.logger
}

// Resize scales img to the given width, keeping its aspect ratio, with a Catmull-Rom filter.
// The height is floor(width * dy / dx), and at least 1.
func Resize(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	height := 1
	if b.Dx() > 0 {
		if h := width * b.Dy() / b.Dx(); h > 0 {
			height = h
		}
	}
	return ResizeTo(img, image.Rect(0, 0, width, height))
}

// ResizeTo scales img to the given bounds with a Catmull-Rom filter.
func ResizeTo(img image.Image, bounds image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(bounds)
	draw.CatmullRom.Scale(dst, bounds, img, img.Bounds(), draw.Src, nil)
	return dst
}

// Encrypt resizes img to the ring degree N of enc and encrypts each row of each channel.
// Rows are encrypted concurrently; the first error, or the cancellation of ctx, aborts the
// remaining rows.
func (c *Codec) Encrypt(ctx context.Context, enc rlwe.EncryptorInterface, img image.Image) (eimg *EncryptedImage, err error) {

	N := enc.GetParameters().N()

	resized := Resize(img, N)

	eimg = &EncryptedImage{
		Width:  N,
		Height: resized.Rect.Dy(),
		Bounds: img.Bounds(),
	}

	c.log().Debug().
		Int("width", eimg.Width).
		Int("height", eimg.Height).
		Str("bounds", eimg.Bounds.String()).
		Msg("encrypting image")

	for ch := range eimg.Rows {
		eimg.Rows[ch] = make([]*rlwe.Ciphertext, eimg.Height)
	}

	errGroup, egCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(c.workers())

	for ch := 0; ch < Channels; ch++ {
		for y := 0; y < eimg.Height; y++ {

			ch, y := ch, y

			errGroup.Go(func() error {

				if err := egCtx.Err(); err != nil {
					return err
				}

				message := make([]int64, N)
				row := resized.Pix[y*resized.Stride:]
				for x := range message {
					message[x] = int64(row[x*4+ch])
				}

				ct, err := enc.Encrypt(message)
				if err != nil {
					return fmt.Errorf("channel %d, row %d: %w", ch, y, err)
				}

				eimg.Rows[ch][y] = ct

				return nil
			})
		}
	}

	if err = errGroup.Wait(); err != nil {
		return nil, fmt.Errorf("cannot Encrypt: %w", err)
	}

	c.log().Debug().Int("rows", Channels*eimg.Height).Msg("image encrypted")

	return
}

// Decrypt decrypts every row of eimg and resizes the result back to the original bounds.
// Decrypted intensities are clamped to [0, 255].
func (c *Codec) Decrypt(ctx context.Context, dec rlwe.DecryptorInterface, eimg *EncryptedImage) (img *image.RGBA, err error) {

	if eimg == nil {
		return nil, fmt.Errorf("cannot Decrypt: encrypted image is nil")
	}

	for ch := range eimg.Rows {
		if len(eimg.Rows[ch]) != eimg.Height {
			return nil, fmt.Errorf("cannot Decrypt: %w: channel %d has %d rows but height is %d", rlwe.ErrShapeMismatch, ch, len(eimg.Rows[ch]), eimg.Height)
		}
	}

	resized := image.NewRGBA(image.Rect(0, 0, eimg.Width, eimg.Height))

	// Alpha channel
	for i := 3; i < len(resized.Pix); i += 4 {
		resized.Pix[i] = 0xff
	}

	c.log().Debug().
		Int("width", eimg.Width).
		Int("height", eimg.Height).
		Msg("decrypting image")

	errGroup, egCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(c.workers())

	for ch := 0; ch < Channels; ch++ {
		for y := 0; y < eimg.Height; y++ {

			ch, y := ch, y

			errGroup.Go(func() error {

				if err := egCtx.Err(); err != nil {
					return err
				}

				values, err := dec.Decrypt(eimg.Rows[ch][y])
				if err != nil {
					return fmt.Errorf("channel %d, row %d: %w", ch, y, err)
				}

				row := resized.Pix[y*resized.Stride:]
				for x := 0; x < eimg.Width && x < len(values); x++ {
					row[x*4+ch] = clamp(values[x])
				}

				return nil
			})
		}
	}

	if err = errGroup.Wait(); err != nil {
		return nil, fmt.Errorf("cannot Decrypt: %w", err)
	}

	if eimg.Bounds.Empty() || eimg.Bounds == resized.Rect {
		return resized, nil
	}

	return ResizeTo(resized, eimg.Bounds), nil
}

// Preview renders the ciphertext coefficients C mod 256 as an RGB image
// of the resized dimensions.
func (eimg *EncryptedImage) Preview() *image.RGBA {

	img := image.NewRGBA(image.Rect(0, 0, eimg.Width, eimg.Height))

	for y := 0; y < eimg.Height; y++ {
		for x := 0; x < eimg.Width; x++ {
			var px [Channels]uint8
			for ch := range px {
				if y < len(eimg.Rows[ch]) && eimg.Rows[ch][y] != nil && x < eimg.Rows[ch][y].C.N() {
					px[ch] = uint8(eimg.Rows[ch][y].C.Coeffs[x])
				}
			}
			img.SetRGBA(x, y, color.RGBA{R: px[0], G: px[1], B: px[2], A: 0xff})
		}
	}

	return img
}

func clamp(x int64) uint8 {
	switch {
	case x < 0:
		return 0
	case x > 0xff:
		return 0xff
	default:
		return uint8(x)
	}
}
