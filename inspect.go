package main

import (
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/btree-query-bench/intmap/intmap"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// buildMap assigns "v<key>" to every key in order, then deletes the keys in
// del.
func buildMap(keys, del []int64) *intmap.Map[string] {
	m := intmap.New[string]()
	for _, k := range keys {
		m.Assign(k, "v"+strconv.FormatInt(k, 10))
	}
	for _, k := range del {
		m.Delete(k)
	}
	return m
}

func newDumpCommand(stdout io.Writer) *cobra.Command {
	var keys, del []int64
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Build a map from --keys and print its entries in key order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := buildMap(keys, del)
			defer m.Destroy()
			return errors.Wrap(m.Dump(stdout), "dump")
		},
	}
	cmd.Flags().Int64SliceVar(&keys, "keys", nil, "keys to assign, in order")
	cmd.Flags().Int64SliceVar(&del, "delete", nil, "keys to delete afterwards")
	return cmd
}

func newDOTCommand(stdout io.Writer) *cobra.Command {
	var (
		keys, del []int64
		out, png  string
	)
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Build a map from --keys and write its tree shape as Graphviz DOT.",
		Long: `Build a map from --keys and write its tree shape as Graphviz DOT.

With --png the DOT output is also rendered through the Graphviz "dot"
binary, which must be on PATH; --out is then required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if png != "" && out == "" {
				return errors.New("--png needs --out")
			}
			m := buildMap(keys, del)
			defer m.Destroy()

			if out == "" {
				return errors.Wrap(m.ExportDOT(stdout), "export dot")
			}
			if err := writeDOT(m, out); err != nil {
				return err
			}
			if png == "" {
				return nil
			}
			c := exec.Command("dot", "-Tpng", out, "-o", png)
			c.Stderr = cmd.ErrOrStderr()
			if err := c.Run(); err != nil {
				return errors.Wrap(err, "graphviz (is 'dot' installed?)")
			}
			cmd.Printf("Tree exported to %s\n", png)
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&keys, "keys", nil, "keys to assign, in order")
	cmd.Flags().Int64SliceVar(&del, "delete", nil, "keys to delete afterwards")
	cmd.Flags().StringVarP(&out, "out", "o", "", "DOT file (default: stdout)")
	cmd.Flags().StringVar(&png, "png", "", "render a PNG to this path")
	return cmd
}

func writeDOT(m *intmap.Map[string], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating dot file")
	}
	if err := m.ExportDOT(f); err != nil {
		f.Close()
		return errors.Wrap(err, "export dot")
	}
	return errors.Wrap(f.Close(), "closing dot file")
}
