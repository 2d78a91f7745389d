package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/bodgit/psptex"
	"github.com/bodgit/psptex/config"
	"github.com/bodgit/psptex/preview"
	"github.com/bodgit/psptex/texfile"
	"github.com/bodgit/psptex/tile"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

type command struct {
	cfg    config.Config
	logger *log.Logger
}

func (a *command) before(c *cli.Context) error {
	if file := c.String("config"); file != "" {
		cfg, err := config.Load(file)
		if err != nil {
			return cli.Exit(err, 1)
		}
		a.cfg = cfg
	}

	a.cfg.Resolve(config.Flags{
		Root:    c.String("root"),
		Pack:    c.String("pack"),
		Verbose: c.Bool("verbose"),
	})

	a.logger = log.New(ioutil.Discard, "", 0)
	if a.cfg.Verbose {
		a.logger.SetOutput(os.Stderr)
	}

	return nil
}

// server returns a Server reading from the asset pack if one is configured,
// otherwise from the root directory.
func (a *command) server() (*psptex.Server, func() error, error) {
	if a.cfg.Pack == "" {
		return psptex.NewDir(a.cfg.Root, a.logger), func() error { return nil }, nil
	}

	db, err := psptex.NewPackDB(a.cfg.Pack, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return psptex.New(db, a.logger), db.Close, nil
}

func (a *command) pack(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	if a.cfg.Pack == "" {
		return cli.Exit("no asset pack configured, use --pack", 1)
	}

	db, err := psptex.NewPackDB(a.cfg.Pack, a.logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	var n int
	for _, arg := range c.Args().Slice() {
		info, err := os.Stat(arg)
		if err != nil {
			return cli.Exit(err, 1)
		}
		if info.IsDir() {
			i, err := db.ImportDir(arg)
			if err != nil {
				return cli.Exit(err, 1)
			}
			n += i
			continue
		}
		if _, err := db.ImportFile(arg); err != nil {
			return cli.Exit(err, 1)
		}
		n++
	}

	fmt.Fprintf(c.App.Writer, "Imported %d images\n", n)

	return nil
}

func (a *command) list(c *cli.Context) error {
	if a.cfg.Pack == "" {
		return cli.Exit("no asset pack configured, use --pack", 1)
	}

	db, err := psptex.NewPackDB(a.cfg.Pack, a.logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	entries, err := db.Entries()
	if err != nil {
		return cli.Exit(err, 1)
	}
	for _, e := range entries {
		fmt.Fprintf(c.App.Writer, "%s\t%dx%d\t%d\t%s\n", e.Name, e.Width, e.Height, e.Size, e.SHA1)
	}

	return nil
}

func (a *command) inspect(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	s, closer, err := a.server()
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	var failed bool
	for _, arg := range c.Args().Slice() {
		h, err := s.Add(arg)
		if err != nil {
			fmt.Fprintln(c.App.ErrWriter, err)
			failed = true
			continue
		}
		strong, weak, _ := s.ReferenceCounts(arg)
		cols, rows := tile.Grid(h.Pitch(), h.Height())
		fmt.Fprintf(c.App.Writer, "%s\t%dx%d\tpitch %d\t%dx%d tiles\t%d bytes\trefs %d/%d\n", h.Name(), h.Width(), h.Height(), h.Pitch(), cols, rows, len(h.Bytes()), strong, weak)
		h.Release()
	}

	fmt.Fprintf(c.App.Writer, "%d textures, %d bytes resident\n", s.Size(), s.Bytes())
	s.Sweep()

	if failed {
		return cli.Exit("", 1)
	}

	return nil
}

func (a *command) convert(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	s, closer, err := a.server()
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	h, err := s.Add(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer h.Release()

	b, err := texfile.New(h.Texture()).MarshalBinary()
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := ioutil.WriteFile(c.Args().Get(1), b, 0o644); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func (a *command) preview(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	a.cfg.Resolve(config.Flags{
		Scale:  c.Int("scale"),
		Format: c.String("format"),
	})

	output := c.Args().Get(1)
	name := a.cfg.Preview.Format
	if name == "" {
		name = output
	}
	format, err := preview.ParseFormat(name)
	if err != nil {
		return cli.Exit(err, 1)
	}

	s, closer, err := a.server()
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	h, err := s.Add(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer h.Release()

	m, err := preview.Image(h.Texture())
	if err != nil {
		return cli.Exit(err, 1)
	}

	f, err := os.Create(output)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	if err := preview.Encode(f, preview.Scale(m, a.cfg.Preview.Scale), format); err != nil {
		return cli.Exit(err, 1)
	}

	return f.Close()
}

func newApp() *cli.App {
	a := new(command)

	app := cli.NewApp()

	app.Name = "psptex"
	app.Usage = "PSP GE texture conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"PSPTEX_CONFIG"},
			Usage:   "path to TOML configuration file",
		},
		&cli.StringFlag{
			Name:    "root",
			EnvVars: []string{"PSPTEX_ROOT"},
			Usage:   "directory to load textures from",
		},
		&cli.StringFlag{
			Name:    "pack",
			EnvVars: []string{"PSPTEX_PACK"},
			Usage:   "path to asset pack database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Before = a.before

	app.Commands = []*cli.Command{
		{
			Name:      "pack",
			Usage:     "Import images into the asset pack",
			ArgsUsage: "FILE|DIRECTORY...",
			Action:    a.pack,
		},
		{
			Name:   "list",
			Usage:  "List the images in the asset pack",
			Action: a.list,
		},
		{
			Name:      "inspect",
			Usage:     "Load textures and report their layout",
			ArgsUsage: "FILE...",
			Action:    a.inspect,
		},
		{
			Name:      "convert",
			Usage:     "Write a swizzled texture file",
			ArgsUsage: "FILE OUTPUT",
			Action:    a.convert,
		},
		{
			Name:      "preview",
			Usage:     "Render a texture back to an image via the swizzled form",
			ArgsUsage: "FILE OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Usage: "integer magnification",
				},
				&cli.StringFlag{
					Name:  "format",
					Usage: "png, gif or webp (default from OUTPUT)",
				},
			},
			Action: a.preview,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
