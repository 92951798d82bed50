package main

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tuneinsight/toyrlwe/rlwe"
	"github.com/tuneinsight/toyrlwe/utils"
	"github.com/tuneinsight/toyrlwe/utils/sampling"
)

type benchResult struct {
	trials   int
	exact    int
	noise    rlwe.NoiseStats
	encrypt  time.Duration
	decrypt  time.Duration
	residual []int64
}

func benchAction(c *cli.Context) error {

	trials := c.Int(trialsFlag)
	if trials <= 0 {
		return cli.Exit(fmt.Sprintf("bench: --%s must be positive", trialsFlag), 1)
	}

	eng, err := newEngine(c)
	if err != nil {
		return err
	}

	var prng sampling.PRNG
	if seed := c.String(seedFlag); seed != "" {
		prng, err = sampling.NewKeyedPRNGFromSeed([]byte(seed + "/messages"))
	} else {
		prng, err = sampling.NewPRNG()
	}
	if err != nil {
		return errors.Wrap(err, "cannot create PRNG")
	}

	params := eng.GetParameters()
	messages := randomMessages(prng, trials, params.N(), params.PlaintextBound())

	workers := c.Int(workersFlag)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	res, err := runBench(c, eng, messages, workers)
	if err != nil {
		return err
	}

	failure, _ := params.FailureProbability().Float64()

	w := c.App.Writer
	fmt.Fprintf(w, "params:         %s\n", params.String())
	fmt.Fprintf(w, "trials:         %d\n", res.trials)
	fmt.Fprintf(w, "exact:          %d (%.4f)\n", res.exact, float64(res.exact)/float64(res.trials))
	fmt.Fprintf(w, "expected:       %.4f\n", 1-failure)
	fmt.Fprintf(w, "noise:          %s\n", res.noise.String())
	fmt.Fprintf(w, "encrypt (avg):  %s\n", res.encrypt/time.Duration(res.trials))
	fmt.Fprintf(w, "decrypt (avg):  %s\n", res.decrypt/time.Duration(res.trials))

	return nil
}

// randomMessages samples trials messages of length N with entries uniform in [0, T).
func randomMessages(prng sampling.PRNG, trials, N int, T uint64) [][]int64 {
	messages := make([][]int64, trials)
	for i := range messages {
		messages[i] = make([]int64, N)
		for j := range messages[i] {
			messages[i][j] = int64(sampling.RandUint64(prng) % T)
		}
	}
	return messages
}

func runBench(c *cli.Context, eng *rlwe.Engine, messages [][]int64, workers int) (res benchResult, err error) {

	logger := loggerFrom(c)

	res.trials = len(messages)

	var mu sync.Mutex

	errGroup, ctx := errgroup.WithContext(c.Context)
	errGroup.SetLimit(workers)

	for i := range messages {

		m := messages[i]

		errGroup.Go(func() error {

			if err := ctx.Err(); err != nil {
				return err
			}

			now := time.Now()
			ct, err := eng.Encrypt(m)
			if err != nil {
				return err
			}
			encDur := time.Since(now)

			now = time.Now()
			decrypted, err := eng.Decrypt(ct)
			if err != nil {
				return err
			}
			decDur := time.Since(now)

			residual, err := eng.Residual(ct, m)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()

			if utils.EqualSlice(decrypted, m) {
				res.exact++
			}

			res.encrypt += encDur
			res.decrypt += decDur
			res.residual = append(res.residual, residual...)

			return nil
		})
	}

	if err = errGroup.Wait(); err != nil {
		return res, errors.Wrap(err, "bench failed")
	}

	if res.noise, err = rlwe.NewNoiseStats(res.residual); err != nil {
		return res, errors.Wrap(err, "bench failed")
	}

	logger.Debug().Int("trials", res.trials).Int("exact", res.exact).Msg("bench done")

	return
}
