package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/protocol"
	"github.com/vango-dev/vpatch/pkg/treefile"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Output formats for diff and replay.
const (
	formatText   = "text"
	formatJSON   = "json"
	formatBinary = "binary"
)

func diffCmd(g *globals) *cobra.Command {
	var (
		format string
		out    string
		seq    uint64
	)

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Print the patch set between two tree documents",
		Long: `Diff two tree documents and print the patch set.

The text format lists patches by position in the old tree. The json
format prints the wire structure, and binary writes an encoded frame
that replay can read back.

Examples:
  vpatch diff before.yaml after.yaml
  vpatch diff before.yaml after.yaml --format=json
  vpatch diff before.yaml after.yaml --format=binary -o frame.vpf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return errors.New("E180").WithDetailf("creating %s", out).Wrap(err)
				}
				defer f.Close()
				w = f
			}
			return runDiff(w, args[0], args[1], format, seq)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or binary")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().Uint64Var(&seq, "seq", 1, "Sequence number stamped on the frame")

	return cmd
}

func runDiff(w io.Writer, oldPath, newPath, format string, seq uint64) error {
	ps, err := diffFiles(oldPath, newPath)
	if err != nil {
		return err
	}
	return writeFrame(w, protocol.FrameFromPatchSet(seq, ps), format)
}

func diffFiles(oldPath, newPath string) (*vdom.PatchSet, error) {
	prev, err := treefile.Load(oldPath)
	if err != nil {
		return nil, err
	}
	next, err := treefile.Load(newPath)
	if err != nil {
		return nil, err
	}
	ps, err := vdom.Diff(prev, next)
	if err != nil {
		return nil, errors.FromError(err, "E101")
	}
	return ps, nil
}

func writeFrame(w io.Writer, pf *protocol.PatchesFrame, format string) error {
	switch format {
	case formatText:
		_, err := fmt.Fprint(w, pf.String())
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pf)
	case formatBinary:
		return protocol.WriteFrame(w, protocol.NewPatchesFrame(pf))
	default:
		return errors.New("E180").
			WithDetailf("unknown format %q", format).
			WithSuggestion("Use text, json or binary")
	}
}
