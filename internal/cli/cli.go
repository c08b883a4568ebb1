// Package cli implements the skein command-line interface.
//
// The commands work on encoded documents without a schema: they convert
// between the JSON and YAML renderings, report node statistics, and
// compute shape digests for comparing documents written in different
// sessions.
//
// # Commands
//
//   - convert: Re-render a document in another format
//   - shape: Renumber the node keys of a document from zero
//   - digest: Print the shape digest of a document
//   - inspect: Count full nodes, back-references and types
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/skein/config.toml (or the file
// named by --config):
//
//	log_level = "debug"
//	format    = "yaml"
//	indent    = "  "
//
// Flags override the file. --verbose forces debug logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/zoobzio/skein"
)

const appName = "skein"

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information shown by --version.
func SetVersion(v, c, d string) {
	version, commit, date = v, c, d
}

// CLI holds the state shared by all commands.
type CLI struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg Config
}

// New creates a CLI reading documents from in, writing results to out and
// logs to errOut.
func New(in io.Reader, out, errOut io.Writer) *CLI {
	return &CLI{in: in, out: out, errOut: errOut, cfg: defaultConfig()}
}

// Execute runs the CLI on the process streams.
func Execute(ctx context.Context) error {
	return New(os.Stdin, os.Stdout, os.Stderr).RootCommand().ExecuteContext(ctx)
}

// RootCommand builds the root cobra command with every subcommand.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configFile string
	)

	root := &cobra.Command{
		Use:           appName,
		Short:         "skein inspects and converts graph documents",
		Long:          `skein works on documents written by the skein entity codec: it converts them between JSON and YAML, renumbers their keys, and reports their node shape.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			c.cfg = cfg

			level, err := cfg.level()
			if err != nil {
				return err
			}
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(c.errOut, level)
			logger.Debug("configuration loaded", "format", cfg.Format, "level", level)
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
	}

	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\ncommit: %s\nbuilt: %s\n", appName, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/skein/config.toml)")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.shapeCommand())
	root.AddCommand(c.digestCommand())
	root.AddCommand(c.inspectCommand())

	return root
}

// document is a parsed input with the format it was read as.
type document struct {
	value  skein.Value
	format string
	size   int
}

// read loads the document named by args, or stdin when args is empty or
// "-". from overrides format detection.
func (c *CLI) read(ctx context.Context, args []string, from string) (*document, error) {
	logger := loggerFromContext(ctx)

	path := "-"
	if len(args) > 0 {
		path = args[0]
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(c.in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	format := from
	if format == "" {
		format = detectFormat(path, c.cfg.Format)
	}
	codec, err := codecFor(format, "")
	if err != nil {
		return nil, err
	}

	v, err := codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s as %s: %w", path, format, err)
	}
	logger.Debug("document read", "path", path, "format", format, "bytes", len(data))
	return &document{value: v, format: format, size: len(data)}, nil
}

// write renders v in format to the output file, or to c.out when output
// is empty or "-".
func (c *CLI) write(ctx context.Context, v skein.Value, format, output string) error {
	codec, err := codecFor(format, c.cfg.Indent)
	if err != nil {
		return err
	}
	data, err := codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	if output == "" || output == "-" {
		_, err = c.out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	loggerFromContext(ctx).Info("document written", "path", output, "format", format, "bytes", len(data))
	return nil
}
