package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"strings"

	dancingstar "github.com/ueno1969/DancingStar"
	"github.com/ueno1969/DancingStar/project"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newGenerator(c *cli.Context) (*dancingstar.DancingStar, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	var db *dancingstar.ListingDB
	if file := c.String("db"); file != "" {
		var err error
		if db, err = dancingstar.NewListingDB(file); err != nil {
			return nil, err
		}
	}

	m := dancingstar.New(db, logger)
	m.Posterize = c.Bool("quantize")

	return m, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "dancingstar"
	app.Usage = "PC-8801 sprite data generator"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"DANCINGSTAR_DB"},
			Usage:   "path to listing cache database",
		},
		&cli.BoolFlag{
			Name:  "quantize",
			Usage: "reduce images to eight colors before conversion",
		},
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "export",
			Usage:       "Generate the assembler listing for a project",
			Description: "",
			ArgsUsage:   "PROJECT [OUTPUT]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := newGenerator(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				p, err := project.Load(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				out := c.Args().Get(1)
				if out == "" {
					out = strings.TrimSuffix(c.Args().First(), project.Extension) + ".asm"
				}

				r, err := m.Export(p, out)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Printf("wrote %s: %d lines, %d bytes\n", r.Path, r.Lines, r.Bytes)

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Convert every image below a directory to data tables",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := newGenerator(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				if err := m.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
