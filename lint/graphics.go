package lint

import (
	"sort"
	"strconv"
	"strings"

	"github.com/eolymp/latex-playground"
)

// GraphicsOptions checks key-value options of \includegraphics
type GraphicsOptions struct{}

var graphicsKeys = map[string]string{
	"width":           "length",
	"height":          "length",
	"totalheight":     "length",
	"scale":           "number",
	"angle":           "number",
	"keepaspectratio": "flag",
	"clip":            "flag",
	"draft":           "flag",
	"trim":            "text",
	"viewport":        "text",
	"bb":              "text",
	"origin":          "text",
	"page":            "number",
	"type":            "text",
	"ext":             "text",
	"read":            "text",
	"command":         "text",
	"alt":             "text",
}

func (GraphicsOptions) Name() string {
	return "includegraphics-options"
}

func (GraphicsOptions) Check(ctx *Context, root *latex.Root) {
	latex.Walk(root, func(node latex.Node, _ latex.Context) bool {
		m, ok := node.(*latex.Macro)
		if !ok || m.EscapeToken != "\\" || m.Content != "includegraphics" {
			return true
		}

		for _, arg := range m.Args {
			if arg.OpenMark != "[" {
				continue
			}

			options := latex.KeyValue(latex.PrintRaw(arg.Content...))

			keys := make([]string, 0, len(options))
			for k := range options {
				keys = append(keys, k)
			}

			sort.Strings(keys)

			for _, key := range keys {
				checkGraphicsOption(ctx, arg.Position, key, options[key])
			}
		}

		return true
	})
}

func checkGraphicsOption(ctx *Context, pos *latex.Position, key, value string) {
	kind, ok := graphicsKeys[key]
	if !ok {
		ctx.Report(pos, "unknown option %q", key)
		return
	}

	switch kind {
	case "number":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			ctx.Error(pos, "option %q must be a number, got %q", key, value)
		}
	case "flag":
		if value != "" && value != "true" && value != "false" {
			ctx.Error(pos, "option %q must be true or false, got %q", key, value)
		}
	case "length":
		n, unit, err := latex.Measure(value)
		if err != nil {
			ctx.Error(pos, "option %q must be a length, got %q", key, value)
			return
		}

		if n <= 0 {
			ctx.Error(pos, "option %q must be positive, got %q", key, value)
			return
		}

		// lengths relative to other lengths (0.5\textwidth) are fine
		if strings.HasPrefix(unit, "\\") {
			return
		}

		if _, err := latex.ToPixels(n, unit); err != nil {
			ctx.Error(pos, "option %q: %v", key, err)
		}
	}
}
