package lint

import (
	"strconv"
	"strings"

	"github.com/eolymp/latex-playground"
)

// TabularColumns checks column specification of tabular-like environments and
// reports rows with more cells than declared columns.
type TabularColumns struct{}

var tabulars = map[string]bool{
	"tabular": true, "tabular*": true, "tabularx": true, "array": true, "longtable": true,
}

func (TabularColumns) Name() string {
	return "tabular-column-count"
}

func (TabularColumns) Check(ctx *Context, root *latex.Root) {
	latex.Walk(root, func(node latex.Node, _ latex.Context) bool {
		var env []latex.Node
		var args []*latex.Argument

		switch n := node.(type) {
		case *latex.Environment:
			env, args = n.Env, n.Args
		case *latex.MathEnv:
			env, args = n.Env, n.Args
		default:
			return true
		}

		if !tabulars[latex.EnvName(env)] {
			return true
		}

		spec := columnArgument(args)
		if spec == nil {
			ctx.Report(node.Pos(), "column specification of %s is missing", latex.EnvName(env))
			return true
		}

		columns, err := latex.ColumnSpecs(latex.PrintRaw(spec.Content...))
		if err != nil {
			ctx.Error(spec.Position, "invalid column specification: %v", err)
			return true
		}

		for _, row := range rows(latex.Content(node)) {
			if cells := countCells(row); cells > len(columns) {
				ctx.Report(span(row[0], row[len(row)-1]), "row has %d cells, but %d columns are declared", cells, len(columns))
			}
		}

		return true
	})
}

// columnArgument returns the last braced argument, which is a column spec in all supported environments
func columnArgument(args []*latex.Argument) *latex.Argument {
	for i := len(args) - 1; i >= 0; i-- {
		if args[i].OpenMark == "{" {
			return args[i]
		}
	}

	return nil
}

// rows splits environment content by \\, rows without content are skipped
func rows(content []latex.Node) (rows [][]latex.Node) {
	var row []latex.Node

	add := func() {
		for _, n := range row {
			if !latex.IsSpace(n) && !latex.IsMacro(n, "hline", "cline", "toprule", "midrule", "bottomrule") {
				if _, ok := n.(*latex.Comment); !ok {
					rows = append(rows, row)
					break
				}
			}
		}

		row = nil
	}

	for _, n := range content {
		if m, ok := n.(*latex.Macro); ok && m.EscapeToken == "\\" && m.Content == "\\" {
			add()
			continue
		}

		row = append(row, n)
	}

	add()

	return
}

func countCells(row []latex.Node) int {
	cells := 1
	for _, n := range row {
		switch n := n.(type) {
		case *latex.String:
			cells += strings.Count(n.Content, "&")
		case *latex.Macro:
			if n.Content != "multicolumn" || len(n.Args) == 0 {
				continue
			}

			if span, err := strconv.Atoi(strings.TrimSpace(latex.PrintRaw(n.Args[0].Content...))); err == nil && span > 1 {
				cells += span - 1
			}
		}
	}

	return cells
}
