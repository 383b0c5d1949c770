package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bodgit/spritegen"
	"github.com/bodgit/spritegen/png"
	"github.com/bodgit/spritegen/preview"
	"github.com/bodgit/spritegen/sprite"
	"github.com/urfave/cli/v2"
)

const defaultDB = "spritegen.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func parseKind(c *cli.Context, allowAll bool) (spritegen.Kind, error) {
	s := c.String("kind")
	if s == "" && allowAll {
		return 0, nil
	}
	return spritegen.ParseKind(s)
}

func newGenerator(c *cli.Context) (*spritegen.Generator, *spritegen.EntityDB, error) {
	db, err := spritegen.NewEntityDB(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	mode := sprite.KeyByName
	if c.Bool("by-identity") {
		mode = sprite.KeyByIdentity
	}

	g := spritegen.New(db, newLogger(c),
		spritegen.WithSize(c.Int("size")),
		spritegen.WithKeyMode(mode),
		spritegen.WithWorkers(c.Int("workers")),
	)

	return g, db, nil
}

// entity resolves the command argument to an entity, or builds one from the
// --name/--level/--notable flags if no argument was given.
func entity(c *cli.Context, g *spritegen.Generator) (*spritegen.Entity, error) {
	kind, err := parseKind(c, false)
	if err != nil {
		return nil, err
	}

	if c.NArg() < 1 {
		if !c.IsSet("name") {
			cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
		}
		return &spritegen.Entity{
			ID:      c.String("name"),
			Kind:    kind,
			Name:    c.String("name"),
			Level:   c.Int("level"),
			Notable: c.Bool("notable"),
		}, nil
	}

	e, err := g.Lookup(kind, c.Args().First())
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("no %s matching %q", kind, c.Args().First())
	}
	return e, nil
}

func verify(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	chunks, err := png.ReadChunks(f)
	if err != nil {
		return err
	}

	h, err := png.DecodeHeader(chunks[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %dx%d, depth %d, color type %d, %d chunks\n", file, h.Width, h.Height, h.BitDepth, h.ColorType, len(chunks))
	for _, c := range chunks {
		fmt.Printf("  %s %6d %08x\n", c.Name(), len(c.Data), c.CRC)
	}
	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "spritegen"
	app.Usage = "Procedural entity sprite generator"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SPRITEGEN_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	renderFlags := []cli.Flag{
		&cli.IntFlag{
			Name:    "size",
			EnvVars: []string{"SPRITEGEN_SIZE"},
			Value:   sprite.DefaultSize,
			Usage:   "sprite width and height in pixels",
		},
		&cli.BoolFlag{
			Name:  "by-identity",
			Usage: "select the sprite shape from the identity rather than the name",
		},
	}

	entityFlags := append([]cli.Flag{
		&cli.StringFlag{
			Name:  "kind",
			Value: spritegen.KindCreature.String(),
			Usage: "entity kind (creature, item or zone)",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "render an ad hoc entity with this name instead of a catalogue entry",
		},
		&cli.IntFlag{
			Name:  "level",
			Usage: "level of the ad hoc entity",
		},
		&cli.BoolFlag{
			Name:  "notable",
			Usage: "mark the ad hoc entity as notable",
		},
	}, renderFlags...)

	app.Commands = []*cli.Command{
		{
			Name:        "import",
			Usage:       "Import entity records from JSON",
			Description: "Replaces every entity of the given kind with the records in each FILE.",
			ArgsUsage:   "FILE...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kind",
					Value: spritegen.KindCreature.String(),
					Usage: "entity kind (creature, item or zone)",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				kind, err := parseKind(c, false)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				logger := newLogger(c)

				db, err := spritegen.NewEntityDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				for _, file := range c.Args().Slice() {
					n, err := db.ImportJSON(file, kind)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					logger.Printf("Imported %d %s records from \"%s\"\n", n, kind, file)
				}

				return nil
			},
		},
		{
			Name:        "generate",
			Usage:       "Write a sprite for every entity",
			Description: "Sprites are written to DIRECTORY/<kind>/<id>.png; unchanged files are skipped.",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "kind",
					Usage: "only generate this kind of entity",
				},
				&cli.IntFlag{
					Name:    "workers",
					EnvVars: []string{"SPRITEGEN_WORKERS"},
					Value:   spritegen.DefaultWorkers,
					Usage:   "number of sprites written concurrently",
				},
			}, renderFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				kind, err := parseKind(c, true)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				g, db, err := newGenerator(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()

				report, err := g.Generate(ctx, c.Args().First(), kind)
				if report != nil {
					fmt.Printf("%d written, %d unchanged, %d failed\n", report.Written, report.Unchanged, len(report.Failures))
				}
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if len(report.Failures) > 0 {
					return cli.NewExitError(fmt.Sprintf("%d sprites could not be written", len(report.Failures)), 2)
				}

				return nil
			},
		},
		{
			Name:      "show",
			Usage:     "Preview a sprite in the terminal",
			ArgsUsage: "[ID|NAME]",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "enlarge the sprite by this factor",
				},
				&cli.StringFlag{
					Name:  "mode",
					Value: "auto",
					Usage: "output mode (auto, truecolor, 256 or none)",
				},
			}, entityFlags...),
			Action: func(c *cli.Context) error {
				mode, err := preview.ParseMode(c.String("mode"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				g, db, err := newGenerator(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				e, err := entity(c, g)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				_, variant := g.Describe(*e)
				newLogger(c).Printf("%s \"%s\" level %d: %s\n", e.Key(), e.Name, e.Level, variant)

				if err := preview.Print(os.Stdout, preview.Scale(g.Image(*e), c.Int("scale")), mode); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "url",
			Usage:     "Print a sprite as a data URL",
			ArgsUsage: "[ID|NAME]",
			Flags:     entityFlags,
			Action: func(c *cli.Context) error {
				g, db, err := newGenerator(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				e, err := entity(c, g)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				u, err := g.DataURL(*e)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Println(u)

				return nil
			},
		},
		{
			Name:      "verify",
			Usage:     "Check the chunk checksums of PNG files",
			ArgsUsage: "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				var failed int
				for _, file := range c.Args().Slice() {
					if err := verify(file); err != nil {
						fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
						failed++
					}
				}
				if failed > 0 {
					return cli.NewExitError(fmt.Sprintf("%d files failed verification", failed), 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
