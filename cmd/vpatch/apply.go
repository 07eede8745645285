package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/config"
	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/dom"
	"github.com/vango-dev/vpatch/pkg/native"
	"github.com/vango-dev/vpatch/pkg/native/memdom"
	"github.com/vango-dev/vpatch/pkg/render"
	"github.com/vango-dev/vpatch/pkg/snapshot"
	"github.com/vango-dev/vpatch/pkg/tree"
	"github.com/vango-dev/vpatch/pkg/treefile"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

type applyOptions struct {
	pretty   bool
	showDiff bool
	check    bool
	record   bool
}

func applyCmd(g *globals) *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply <old> <new>",
		Short: "Patch a tree built from one document into another",
		Long: `Build a live tree from the old document, update it to the new one
and print the patched tree as HTML.

With --check the patched tree is compared against a tree built directly
from the new document, and any difference is an error. With --record the
cycle's patch frame is written to the configured snapshot store.

Examples:
  vpatch apply before.yaml after.yaml --pretty
  vpatch apply before.yaml after.yaml --show-diff
  vpatch apply before.yaml after.yaml --check --record`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return runApply(cmd.Context(), g, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the printed HTML")
	cmd.Flags().BoolVar(&opts.showDiff, "show-diff", false, "Print a line diff of the HTML before and after")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Verify the patched tree matches a fresh build")
	cmd.Flags().BoolVar(&opts.record, "record", false, "Write the patch frame to the snapshot store")

	return cmd
}

func runApply(ctx context.Context, g *globals, cfg *config.Config, stdout, stderr io.Writer, oldPath, newPath string, opts applyOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	prev, err := treefile.Load(oldPath)
	if err != nil {
		return err
	}
	next, err := treefile.Load(newPath)
	if err != nil {
		return err
	}

	logger, err := g.logger(cfg, stderr)
	if err != nil {
		return err
	}

	treeOpts := []tree.Option{
		tree.WithLogger(logger),
		tree.WithPolicy(cfg.Policy()),
	}
	if opts.record {
		if !cfg.SnapshotsEnabled() {
			return errors.New("E180").
				WithDetail("--record needs a snapshot store").
				WithSuggestion(`Set "snapshots.driver" in vpatch.json`)
		}
		store, err := snapshot.Open(cfg.SnapshotOptions())
		if err != nil {
			return err
		}
		treeOpts = append(treeOpts, tree.WithRecorder(snapshot.NewRecorder(store)))
	}

	doc := memdom.New()
	t, err := tree.Mount(doc, prev, treeOpts...)
	if err != nil {
		return err
	}

	rcfg := render.RendererConfig{Pretty: opts.pretty || opts.showDiff}
	before := htmlOf(t, rcfg)

	report, err := t.Update(ctx, next)
	if err != nil {
		return err
	}
	after := htmlOf(t, rcfg)

	if opts.check {
		built, err := dom.Create(memdom.New(), next, dom.WithPolicy(cfg.Policy()))
		if err != nil {
			return err
		}
		fresh, _ := built.(*memdom.Node)
		var live *memdom.Node
		t.View(func(root native.Node, _ vdom.Node) {
			live, _ = root.(*memdom.Node)
		})
		if !memdom.Equal(live, fresh) {
			return errors.New("E104").
				WithDetailf("patched tree differs from a fresh build: %s", memdom.Mismatch(live, fresh))
		}
	}

	if opts.showDiff {
		writeLineDiff(stdout, before, after)
	} else {
		fmt.Fprint(stdout, after)
		if !opts.pretty {
			fmt.Fprintln(stdout)
		}
	}

	fmt.Fprintf(stderr, "%s\n", summarize(report))
	if opts.check {
		success(stderr, "Patched tree matches a fresh build")
	}
	if opts.record {
		info(stderr, "Recorded %s", snapshot.FrameKey(snapshot.DefaultPrefix, report.Seq))
	}
	return nil
}

func htmlOf(t *tree.Tree, cfg render.RendererConfig) string {
	var out string
	t.View(func(root native.Node, _ vdom.Node) {
		if n, ok := root.(*memdom.Node); ok {
			out = render.HTML(n, cfg)
		}
	})
	return out
}

// summarize formats a report as one line, e.g.
// "cycle 1: 3 patches (ORDER=1 PROPS=2) in 42µs".
func summarize(r *tree.Report) string {
	total := 0
	parts := make([]string, 0, len(r.Summary))
	for _, op := range sortedOps(r.Summary) {
		total += r.Summary[op]
		parts = append(parts, fmt.Sprintf("%s=%d", op, r.Summary[op]))
	}
	s := fmt.Sprintf("cycle %d: %d patches", r.Seq, total)
	if len(parts) > 0 {
		s += " (" + strings.Join(parts, " ") + ")"
	}
	if r.RootReplaced {
		s += ", root replaced"
	}
	if len(r.Skipped) > 0 {
		s += fmt.Sprintf(", %d skipped", len(r.Skipped))
	}
	return s + " in " + r.Duration.String()
}

func sortedOps(m map[vdom.PatchOp]int) []vdom.PatchOp {
	ops := make([]vdom.PatchOp, 0, len(m))
	for op := range m {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// writeLineDiff prints a colored line diff of two renderings.
func writeLineDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(w, green("+ "+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(w, red("- "+line))
			default:
				fmt.Fprintln(w, "  "+line)
			}
		}
	}
}
