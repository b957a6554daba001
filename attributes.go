package latex

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// cmInPixel is the number of CSS pixels in one centimeter (96 dpi)
const cmInPixel = 37.795276

var measure = regexp.MustCompile("^(-?[0-9]*(?:\\.[0-9]+)?)(%|\\\\?[a-zA-Z ]*)$")
var whitespaces = regexp.MustCompile("[ \n\t\r]+")

// KeyValue parses key-value parameters in this format: key=value, key=value, for example as used in \\includegraphics option parameter.
func KeyValue(raw string) map[string]string {
	kv := map[string]string{}

	parts := strings.Split(raw, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		n := strings.SplitN(part, "=", 2)
		if len(n) == 1 {
			kv[strings.ToLower(n[0])] = ""
			continue
		}

		kv[strings.ToLower(strings.TrimSpace(n[0]))] = strings.TrimSpace(n[1])
	}

	return kv
}

type ColumnSpec struct {
	BorderLeft  bool   // column should have left border
	BorderRight bool   // column should have right border
	Align       string // column alignment: c, l, r, p, m, b or X
	Width       string // column width for p, m and b columns
}

// ColumnSpecs parses column spec of tabular-like environments. Repeated columns
// *{n}{...} are expanded, @{...} and !{...} inserts are skipped.
func ColumnSpecs(raw string) (spec []ColumnSpec, err error) {
	raw = whitespaces.ReplaceAllString(raw, "") // remove all spaces since they don't have any meaning

	raw, err = expandColumns(raw)
	if err != nil {
		return nil, err
	}

	for pos := 0; pos < len(raw); pos++ {
		char := raw[pos]

		switch char {
		case '|':
			if n := len(spec); n > 0 && !spec[n-1].BorderRight && pos > 0 && raw[pos-1] != '|' {
				spec[n-1].BorderRight = true
			}
		case 'c', 'l', 'r', 'X':
			spec = append(spec, ColumnSpec{BorderLeft: pos > 0 && raw[pos-1] == '|', Align: string(char)})
		case 'p', 'm', 'b':
			width, end, err := braced(raw, pos+1)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", char, err)
			}

			spec = append(spec, ColumnSpec{BorderLeft: pos > 0 && raw[pos-1] == '|', Align: string(char), Width: width})
			pos = end - 1
		case '@', '!', '>', '<':
			_, end, err := braced(raw, pos+1)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", char, err)
			}

			pos = end - 1
		default:
			return nil, fmt.Errorf("unknown column type %q", char)
		}
	}

	return spec, nil
}

// expandColumns replaces *{n}{cols} with n copies of cols
func expandColumns(raw string) (string, error) {
	for {
		idx := strings.Index(raw, "*")
		if idx < 0 {
			return raw, nil
		}

		count, end, err := braced(raw, idx+1)
		if err != nil {
			return "", fmt.Errorf("repeated column: %w", err)
		}

		n, err := strconv.Atoi(count)
		if err != nil || n < 0 {
			return "", fmt.Errorf("repeated column: invalid count %q", count)
		}

		cols, end, err := braced(raw, end)
		if err != nil {
			return "", fmt.Errorf("repeated column: %w", err)
		}

		raw = raw[:idx] + strings.Repeat(cols, n) + raw[end:]
	}
}

// braced reads {...} starting at pos and returns its content and position after closing brace
func braced(raw string, pos int) (string, int, error) {
	if pos >= len(raw) || raw[pos] != '{' {
		return "", 0, errors.New("{ is expected")
	}

	depth := 0
	for i := pos; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[pos+1 : i], i + 1, nil
			}
		}
	}

	return "", 0, errors.New("} is expected")
}

// Measure parses measurement value, a number and units, for example: 5.1cm, 6em, 0.25\textwidth
func Measure(raw string) (float32, string, error) {
	match := measure.FindStringSubmatch(strings.TrimSpace(raw))
	if len(match) == 0 || match[1] == "" || match[1] == "-" {
		return 0, "", errors.New("unable to parse measurement")
	}

	number, err := strconv.ParseFloat(match[1], 32)
	if err != nil {
		return 0, "", err
	}

	return float32(number), strings.TrimSpace(match[2]), nil
}

// ToPixels converts absolute length to pixels, relative units (%, \textwidth) are not supported
func ToPixels(value float32, unit string) (float32, error) {
	switch unit {
	case "pt":
		return value * cmInPixel / 28.4527, nil
	case "bp":
		return value * cmInPixel / 28.3465, nil
	case "pc":
		return value * cmInPixel * 12 / 28.4527, nil
	case "sp":
		return value * cmInPixel / 28.4527 / 65536, nil
	case "mm":
		return value * cmInPixel / 10, nil
	case "cm":
		return value * cmInPixel, nil
	case "in":
		return value * cmInPixel * 2.54, nil
	case "ex":
		return value * cmInPixel * 0.15132, nil
	case "em":
		return value * cmInPixel * 0.35146, nil
	case "px":
		return value, nil
	default:
		return 0, fmt.Errorf("measurement unit %#v is not supported", unit)
	}
}
