package doc

import "strconv"

// Debug prints document structure: text is quoted, concatenations are printed as
// lists, groups and indents as calls, for example group(["\\[", indent([softline, "x"])]).
// The dump itself is laid out with Render to fit into width.
func Debug(d Doc, width int) string {
	return Render(debug(d), Options{Width: width, TabWidth: 2})
}

func debug(d Doc) Doc {
	switch d := d.(type) {
	case text:
		return Text(strconv.Quote(d.s))
	case line:
		switch d.kind {
		case lineSoft:
			return Text("softline")
		case lineHard:
			return Text("hardline")
		default:
			return Text("line")
		}
	case *concat:
		if len(d.parts) == 0 {
			return Text(`""`)
		}

		items := make([]Doc, len(d.parts))
		for i, p := range d.parts {
			items[i] = debug(p)
		}

		return Group(Text("["), Indent(SoftLine, Join(Concat(Text(","), Line), items)), SoftLine, Text("]"))
	case *indent:
		return call("indent", debug(d.contents))
	case *group:
		return call("group", debug(d.contents))
	default:
		panic("doc: unexpected document type")
	}
}

func call(name string, arg Doc) Doc {
	return Group(Text(name+"("), Indent(SoftLine, arg), SoftLine, Text(")"))
}
