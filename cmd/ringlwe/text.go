package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/tuneinsight/toyrlwe/codec/textcodec"
)

func textAction(c *cli.Context) error {

	if c.NArg() == 0 {
		return cli.Exit("text: missing TEXT argument", 1)
	}

	text := strings.Join(c.Args().Slice(), " ")

	eng, err := newEngine(c)
	if err != nil {
		return err
	}

	codec := textcodec.NewCodec(eng.GetParameters().N())

	if n := len([]rune(text)); n > codec.MaxLength {
		loggerFrom(c).Warn().Int("runes", n).Int("max", codec.MaxLength).Msg("text truncated to the ring degree")
	}

	ct, err := codec.EncryptString(eng, text)
	if err != nil {
		return errors.Wrap(err, "cannot encrypt text")
	}

	if path := c.String(outFlag); path != "" {

		data, err := ct.MarshalBinary()
		if err != nil {
			return errors.Wrap(err, "cannot marshal ciphertext")
		}

		if err = os.WriteFile(path, data, 0o600); err != nil {
			return errors.Wrapf(err, "cannot write %s", path)
		}

		loggerFrom(c).Info().Str("file", path).Int("bytes", len(data)).Msg("ciphertext written")
	}

	decrypted, err := codec.DecryptString(eng, ct)
	if err != nil {
		return errors.Wrap(err, "cannot decrypt text")
	}

	w := c.App.Writer
	fmt.Fprintf(w, "key:       %s\n", hex.EncodeToString(eng.KeyFingerprint()))
	fmt.Fprintf(w, "input:     %s\n", text)
	fmt.Fprintf(w, "decrypted: %s\n", decrypted)

	return nil
}
