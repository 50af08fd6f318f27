// Package core contains the main struct of the software.
package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/bluenviron/mp4ttml/internal/conf"
	"github.com/bluenviron/mp4ttml/internal/logger"
)

var version = "v0.0.0"

var defaultConfPaths = []string{
	"mp4ttml.yml",
	"/usr/local/etc/mp4ttml.yml",
	"/usr/etc/mp4ttml.yml",
	"/etc/mp4ttml/mp4ttml.yml",
}

type cliModel struct {
	Version  kong.VersionFlag `help:"print version"`
	Confpath string           `help:"path to a config file" placeholder:"PATH"`

	Extract extractCmd `cmd:"" help:"extract cues from an initialization segment and a sequence of media segments"`
	Watch   watchCmd   `cmd:"" help:"extract cues from media segments as they are written into a directory"`
	Boxes   boxesCmd   `cmd:"" help:"print the box tree of an MP4 file"`
}

// Core is an instance of mp4ttml.
type Core struct {
	ctx       context.Context
	ctxCancel func()
	confPath  string
	conf      *conf.Conf
	logger    *logger.Logger
	kctx      *kong.Context
	stdout    io.Writer

	err error

	// out
	done chan struct{}
}

// New allocates a Core.
func New(args []string) (*Core, bool) {
	var cli cliModel

	parser, err := kong.New(&cli,
		kong.Name("mp4ttml"),
		kong.Description("mp4ttml "+version+": TTML subtitles extractor for fragmented MP4"),
		kong.UsageOnError(),
		kong.Vars{"version": version})
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	ctx, ctxCancel := context.WithCancel(context.Background())

	p := &Core{
		ctx:       ctx,
		ctxCancel: ctxCancel,
		kctx:      kctx,
		stdout:    os.Stdout,
		done:      make(chan struct{}),
	}

	p.conf, p.confPath, err = conf.Load(cli.Confpath, defaultConfPaths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		ctxCancel()
		return nil, false
	}

	p.logger = &logger.Logger{
		Level:        logger.Level(p.conf.LogLevel),
		Destinations: p.conf.LogDestinations,
		Structured:   p.conf.LogStructured,
		File:         p.conf.LogFile,
	}
	err = p.logger.Initialize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		ctxCancel()
		return nil, false
	}

	p.Log(logger.Debug, "mp4ttml %s", version)
	if p.confPath != "" {
		p.Log(logger.Debug, "configuration loaded from %s", p.confPath)
	}

	go p.run()

	return p, true
}

// Close closes Core and waits for all goroutines to return.
func (p *Core) Close() {
	p.ctxCancel()
	<-p.done
}

// Wait waits for the Core to exit and returns the error of the command, if any.
func (p *Core) Wait() error {
	<-p.done
	return p.err
}

// Log implements logger.Writer.
func (p *Core) Log(level logger.Level, format string, args ...any) {
	p.logger.Log(level, format, args...)
}

func (p *Core) run() {
	defer close(p.done)
	defer p.logger.Close()

	p.err = p.kctx.Run(p)
	if p.err != nil {
		p.Log(logger.Error, "%s", p.err)
	}

	p.ctxCancel()
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

func (p *Core) openOutput(fpath string) (io.WriteCloser, error) {
	if fpath == "" {
		return nopWriteCloser{p.stdout}, nil
	}

	f, err := os.Create(fpath)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// closeOutput closes an output and reports the error
// unless another one occurred before.
func closeOutput(c io.Closer, err *error) {
	cerr := c.Close()
	if cerr != nil && *err == nil {
		*err = cerr
	}
}
