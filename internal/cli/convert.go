package cli

import (
	"github.com/spf13/cobra"
	"github.com/zoobzio/skein"
)

type convertOpts struct {
	from   string
	to     string
	output string
}

func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Re-render a document in another format",
		Long: `Convert parses a document and renders it in another format. Node keys,
member order and number literals are preserved.`,
		Example: `  skein convert graph.json --to yaml
  cat graph.yaml | skein convert --from yaml --to json -o graph.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args, opts, false)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "input format: json or yaml (default from extension)")
	cmd.Flags().StringVar(&opts.to, "to", "", "output format: json or yaml (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) shapeCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "shape [file]",
		Short: "Renumber node keys from zero",
		Long: `Shape rewrites every Key in order of first appearance, so documents of
the same graph written in different sessions become identical.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args, opts, true)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "input format: json or yaml (default from extension)")
	cmd.Flags().StringVar(&opts.to, "to", "", "output format (default: input format)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, args []string, opts convertOpts, shape bool) error {
	ctx := cmd.Context()
	prog := newProgress(loggerFromContext(ctx))

	doc, err := c.read(ctx, args, opts.from)
	if err != nil {
		return err
	}

	to := opts.to
	if to == "" {
		if shape {
			to = doc.format
		} else {
			to = c.cfg.Format
		}
	}

	v := doc.value
	if shape {
		v = skein.Shape(v)
	}
	if err := c.write(ctx, v, to, opts.output); err != nil {
		return err
	}
	prog.done("converted", "from", doc.format, "to", to)
	return nil
}
