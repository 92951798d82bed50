// Command ringlwe demonstrates the toy Ring-LWE engine on text, images and random messages.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	Version   = "DEV"
	BuildTime = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := &cli.App{}
	app.Name = "ringlwe"
	app.Usage = "Toy Ring-LWE encryption over Z_q[X]/(X^n - 1)"
	app.UsageText = "ringlwe [global options] command [command options] [arguments...]"
	app.Version = fmt.Sprintf("%s (built %s)", Version, BuildTime)
	app.Description = `ringlwe encrypts text, images or random messages with a secret key generated
	at startup, decrypts them and reports the recovered values. The scheme is a toy:
	it offers no security guarantee.`
	app.Flags = flags()
	app.Before = before
	app.Commands = commands()
	return app
}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "text",
			Action:    textAction,
			Usage:     "Encrypt and decrypt a string",
			ArgsUsage: "TEXT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  outFlag,
					Usage: "Write the binary encoding of the ciphertext to `FILE`",
				},
			},
		},
		{
			Name:      "image",
			Action:    imageAction,
			Usage:     "Encrypt and decrypt an image row by row",
			ArgsUsage: "INPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  encryptedOutFlag,
					Usage: "Write a preview of the encrypted image to `FILE`",
				},
				&cli.StringFlag{
					Name:  decryptedOutFlag,
					Usage: "Write the decrypted image to `FILE`",
				},
				&cli.IntFlag{
					Name:  workersFlag,
					Usage: "Number of rows processed concurrently (0 uses all CPUs)",
				},
			},
		},
		{
			Name:   "bench",
			Action: benchAction,
			Usage:  "Measure the exact recovery rate and the noise on random messages",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  trialsFlag,
					Usage: "Number of random messages",
					Value: 1000,
				},
				&cli.IntFlag{
					Name:  workersFlag,
					Usage: "Number of concurrent encryptions (0 uses all CPUs)",
				},
			},
		},
		{
			Name:   "params",
			Action: paramsAction,
			Usage:  "Print the resolved parameters and the estimated failure probability",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  suggestQFlag,
					Usage: "Also print the smallest modulus above q enabling the NTT for n",
				},
			},
		},
	}
}
