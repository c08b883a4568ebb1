package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/zoobzio/skein"
)

func (c *CLI) digestCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "digest [file...]",
		Short: "Print the shape digest of documents",
		Long: `Digest prints the BLAKE2b-256 hash of each document's shape. Documents
describing the same graph share a digest whatever session or format they
were written in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				args = []string{"-"}
			}
			for _, path := range args {
				doc, err := c.read(ctx, []string{path}, from)
				if err != nil {
					return err
				}
				sum, err := skein.Digest(doc.value)
				if err != nil {
					return fmt.Errorf("digest %s: %w", path, err)
				}
				fmt.Fprintf(c.out, "%s  %s\n", sum, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format: json or yaml (default from extension)")
	return cmd
}

func (c *CLI) inspectCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Report node statistics of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := c.read(ctx, args, from)
			if err != nil {
				return err
			}
			st := skein.Inspect(doc.value)
			loggerFromContext(ctx).Debug("inspected", "full", st.Full, "backrefs", st.Backrefs)

			rows := [][]string{
				{"format", doc.format},
				{"bytes", strconv.Itoa(doc.size)},
				{"full nodes", strconv.Itoa(st.Full)},
				{"back-references", strconv.Itoa(st.Backrefs)},
				{"max depth", strconv.Itoa(st.MaxDepth)},
			}
			for _, name := range st.TypeNames() {
				rows = append(rows, []string{"type " + name, strconv.Itoa(st.Types[name])})
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("metric", "value").
				Rows(rows...)
			_, err = fmt.Fprintln(c.out, t.Render())
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format: json or yaml (default from extension)")
	return cmd
}
