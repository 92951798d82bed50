package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/tuneinsight/toyrlwe/ring"
)

func paramsAction(c *cli.Context) error {

	params, err := parameters(c)
	if err != nil {
		return err
	}

	w := c.App.Writer

	// The literal is printed with all its defaults resolved, so that the
	// output can be reused as a --config file.
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err = enc.Encode(params.ParametersLiteral()); err != nil {
		return errors.Wrap(err, "cannot encode parameters")
	}
	if err = enc.Close(); err != nil {
		return errors.Wrap(err, "cannot encode parameters")
	}

	fmt.Fprintf(w, "# ring: %s\n", params.RingQ().String())
	fmt.Fprintf(w, "# failure probability: %s\n", params.FailureProbability().Text('g', 6))

	if c.Bool(suggestQFlag) {
		q, err := ring.NextNTTPrime(params.Q(), params.N())
		if err != nil {
			return errors.Wrap(err, "cannot suggest a modulus")
		}
		fmt.Fprintf(w, "# next NTT-friendly modulus: %d\n", q)
	}

	return nil
}
