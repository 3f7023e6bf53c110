package roadmap

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var markdown = goldmark.New()

// PlainText strips markdown markup (emphasis, headings, list markers, code
// spans) from a single line of model output. HTML-looking text such as
// "Vec<T>" or "<canvas>" is kept verbatim.
func PlainText(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	src := []byte(line)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.List:
			// Topic lists are never numbered past MaxTopics, so a larger
			// number belongs to the text ("1984. George Orwell").
			if t.IsOrdered() && t.Start > MaxTopics {
				sb.WriteString(strconv.Itoa(t.Start))
				sb.WriteByte(t.Marker)
				sb.WriteByte(' ')
			}
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.RawHTML:
			for i := 0; i < t.Segments.Len(); i++ {
				seg := t.Segments.At(i)
				sb.Write(seg.Value(src))
			}
		case *ast.HTMLBlock:
			writeLines(&sb, t.Lines(), src)
			if t.HasClosure() {
				sb.Write(t.ClosureLine.Value(src))
			}
		case *ast.AutoLink:
			sb.Write(t.Label(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func writeLines(sb *strings.Builder, lines *text.Segments, src []byte) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
}

// Capitalize upper-cases the first letter of s and leaves the rest alone.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

var asciiPunct = map[rune]rune{
	'‘': '\'', '’': '\'', '“': '"', '”': '"',
	'–': '-', '—': '-', '−': '-', '\u00a0': ' ',
}

// ToASCII folds s to ASCII: accents are dropped from letters, typographic
// quotes and dashes become their ASCII forms, anything else non-ASCII is removed.
func ToASCII(s string) string {
	if isASCII(s) {
		return s
	}
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if a, ok := asciiPunct[r]; ok {
				return a
			}
			return r
		}),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
