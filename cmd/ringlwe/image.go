package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/tuneinsight/toyrlwe/codec/imagecodec"
)

func imageAction(c *cli.Context) error {

	if c.NArg() != 1 {
		return cli.Exit("image: expected exactly one INPUT argument", 1)
	}

	logger := loggerFrom(c)

	img, err := imagecodec.Load(c.Args().First())
	if err != nil {
		return errors.Wrap(err, "cannot load image")
	}

	eng, err := newEngine(c)
	if err != nil {
		return err
	}

	codec := imagecodec.NewCodec(c.Int(workersFlag), logger)

	now := time.Now()
	eimg, err := codec.Encrypt(c.Context, eng, img)
	if err != nil {
		return err
	}
	encDur := time.Since(now)

	if path := c.String(encryptedOutFlag); path != "" {
		if err = imagecodec.Save(path, eimg.Preview()); err != nil {
			return err
		}
		logger.Info().Str("file", path).Msg("encrypted preview written")
	}

	now = time.Now()
	dec, err := codec.Decrypt(c.Context, eng, eimg)
	if err != nil {
		return err
	}
	decDur := time.Since(now)

	if path := c.String(decryptedOutFlag); path != "" {
		if err = imagecodec.Save(path, dec); err != nil {
			return err
		}
		logger.Info().Str("file", path).Msg("decrypted image written")
	}

	w := c.App.Writer
	fmt.Fprintf(w, "image:   %dx%d resized to %dx%d\n", eimg.Bounds.Dx(), eimg.Bounds.Dy(), eimg.Width, eimg.Height)
	fmt.Fprintf(w, "rows:    %d ciphertexts\n", imagecodec.Channels*eimg.Height)
	fmt.Fprintf(w, "encrypt: %s\n", encDur)
	fmt.Fprintf(w, "decrypt: %s\n", decDur)

	return nil
}
