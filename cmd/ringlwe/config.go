package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/tuneinsight/toyrlwe/rlwe"
	"github.com/tuneinsight/toyrlwe/utils/sampling"
)

const (
	configFlag         = "config"
	nFlag              = "n"
	qFlag              = "q"
	sigmaFlag          = "sigma"
	boundFlag          = "bound"
	thresholdFlag      = "threshold"
	multiplierFlag     = "multiplier"
	seedFlag           = "seed"
	logLevelFlag       = "loglevel"
	outFlag            = "out"
	encryptedOutFlag   = "encrypted-out"
	decryptedOutFlag   = "decrypted-out"
	workersFlag        = "workers"
	trialsFlag         = "trials"
	suggestQFlag       = "suggest-q"
	defaultN           = 256
	defaultQ           = 7681
	defaultSigma       = 0.1
	loggerMetadataKey  = "logger"
	defaultLogLevel    = "info"
	configFileNotFound = "parameters file not found"
)

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Usage:   "YAML `FILE` with the parameters; command line flags override its values",
			EnvVars: []string{"RINGLWE_CONFIG"},
		},
		&cli.IntFlag{
			Name:  nFlag,
			Usage: "Ring degree",
			Value: defaultN,
		},
		&cli.Uint64Flag{
			Name:  qFlag,
			Usage: "Modulus",
			Value: defaultQ,
		},
		&cli.Float64Flag{
			Name:  sigmaFlag,
			Usage: "Standard deviation of the noise",
			Value: defaultSigma,
		},
		&cli.Float64Flag{
			Name:  boundFlag,
			Usage: "Largest magnitude of a noise sample (0 uses ceil(6*sigma))",
		},
		&cli.Uint64Flag{
			Name:  thresholdFlag,
			Usage: "Decoding threshold: decrypted residues at or above it are read as negative (0 uses min(256, q))",
		},
		&cli.StringFlag{
			Name:  multiplierFlag,
			Usage: "Convolution algorithm: Auto, NTT or Schoolbook",
			Value: "Auto",
		},
		&cli.StringFlag{
			Name:  seedFlag,
			Usage: "Derive all the randomness from `SEED` (deterministic runs, insecure)",
		},
		&cli.StringFlag{
			Name:    logLevelFlag,
			Usage:   "Application logging level {debug, info, warn, error}",
			Value:   defaultLogLevel,
			EnvVars: []string{"RINGLWE_LOGLEVEL"},
		},
	}
}

// before installs the logger in the app metadata.
func before(c *cli.Context) error {
	logger, err := createLogger(c.String(logLevelFlag), c.App.ErrWriter)
	if err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[loggerMetadataKey] = logger
	return nil
}

func createLogger(level string, out io.Writer) (*zerolog.Logger, error) {

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --%s", logLevelFlag)
	}

	if out == nil {
		out = os.Stderr
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: "15:04:05",
	}).Level(lvl).With().Timestamp().Logger()

	return &logger, nil
}

func loggerFrom(c *cli.Context) *zerolog.Logger {
	if logger, ok := c.App.Metadata[loggerMetadataKey].(*zerolog.Logger); ok {
		return logger
	}
	nop := zerolog.Nop()
	return &nop
}

// loadConfig decodes the parameters literal stored in the YAML file at path.
// Unknown fields are rejected.
func loadConfig(path string) (pl rlwe.ParametersLiteral, err error) {

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pl, errors.Wrap(err, configFileNotFound)
		}
		return pl, errors.Wrapf(err, "cannot open %s", path)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err = decoder.Decode(&pl); err != nil && err != io.EOF {
		return pl, errors.Wrapf(err, "error parsing YAML in parameters file at %s", path)
	}

	return pl, nil
}

// parametersLiteral resolves the parameters: defaults, then the YAML file
// given by --config, then the flags explicitly set on the command line.
func parametersLiteral(c *cli.Context) (pl rlwe.ParametersLiteral, err error) {

	pl = rlwe.ParametersLiteral{N: defaultN, Q: defaultQ, Sigma: defaultSigma}

	if path := c.String(configFlag); path != "" {
		if pl, err = loadConfig(path); err != nil {
			return
		}
		loggerFrom(c).Debug().Str("file", path).Msg("parameters loaded")
	}

	if c.IsSet(nFlag) || c.String(configFlag) == "" {
		pl.N = c.Int(nFlag)
	}

	if c.IsSet(qFlag) || c.String(configFlag) == "" {
		pl.Q = c.Uint64(qFlag)
	}

	if c.IsSet(sigmaFlag) || c.String(configFlag) == "" {
		pl.Sigma = c.Float64(sigmaFlag)
	}

	if c.IsSet(boundFlag) {
		pl.Bound = c.Float64(boundFlag)
	}

	if c.IsSet(thresholdFlag) {
		pl.PlaintextBound = c.Uint64(thresholdFlag)
	}

	if c.IsSet(multiplierFlag) {
		if err = pl.Multiplier.UnmarshalText([]byte(c.String(multiplierFlag))); err != nil {
			return pl, errors.Wrapf(err, "invalid --%s", multiplierFlag)
		}
	}

	return
}

func parameters(c *cli.Context) (params rlwe.Parameters, err error) {

	pl, err := parametersLiteral(c)
	if err != nil {
		return
	}

	if params, err = rlwe.NewParametersFromLiteral(pl); err != nil {
		return params, errors.Wrap(err, "cannot build parameters")
	}

	return
}

// newPRNG returns a KeyedPRNG derived from --seed if set, else a PRNG reading from the OS.
func newPRNG(c *cli.Context) (sampling.PRNG, error) {

	if seed := c.String(seedFlag); seed != "" {
		loggerFrom(c).Warn().Msg("deterministic randomness derived from --seed")
		prng, err := sampling.NewKeyedPRNGFromSeed([]byte(seed))
		return prng, errors.Wrap(err, "cannot create PRNG")
	}

	prng, err := sampling.NewPRNG()
	return prng, errors.Wrap(err, "cannot create PRNG")
}

func newEngine(c *cli.Context) (*rlwe.Engine, error) {

	params, err := parameters(c)
	if err != nil {
		return nil, err
	}

	prng, err := newPRNG(c)
	if err != nil {
		return nil, err
	}

	eng, err := rlwe.NewEngine(params, prng)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create engine")
	}

	loggerFrom(c).Info().
		Str("params", params.String()).
		Hex("key", eng.KeyFingerprint()[:8]).
		Msg("engine ready")

	return eng, nil
}
