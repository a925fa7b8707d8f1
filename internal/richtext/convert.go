package richtext

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Convert transforms Markdown into structured-text blocks. The conversion is
// deterministic: the same input always yields the same blocks and keys, and
// no side effects occur. HTML blocks (including hidden keyword comments that
// seed biography generation) are dropped rather than rendered.
func Convert(markdown string) []Block {
	source := []byte(markdown)
	parser := goldmark.New().Parser()
	root := parser.Parse(text.NewReader(source))

	conv := &converter{source: source}
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		conv.walkBlock(node, "", 0)
	}
	return conv.blocks
}

type converter struct {
	source []byte
	blocks []Block
}

func (c *converter) walkBlock(node ast.Node, listItem string, level int) {
	switch typed := node.(type) {
	case *ast.Heading:
		c.emit(fmt.Sprintf("h%d", typed.Level), listItem, level, c.inlineSpans(typed, nil))
	case *ast.Paragraph:
		c.emit(StyleNormal, listItem, level, c.inlineSpans(typed, nil))
	case *ast.TextBlock:
		c.emit(StyleNormal, listItem, level, c.inlineSpans(typed, nil))
	case *ast.Blockquote:
		for child := typed.FirstChild(); child != nil; child = child.NextSibling() {
			c.emitQuoted(child, listItem, level)
		}
	case *ast.List:
		kind := ListBullet
		if typed.IsOrdered() {
			kind = ListNumber
		}
		for item := typed.FirstChild(); item != nil; item = item.NextSibling() {
			for child := item.FirstChild(); child != nil; child = child.NextSibling() {
				c.walkBlock(child, kind, level+1)
			}
		}
	case *ast.FencedCodeBlock:
		c.emitCode(typed.BaseBlock)
	case *ast.CodeBlock:
		c.emitCode(typed.BaseBlock)
	case *ast.ThematicBreak, *ast.HTMLBlock:
		// Not representable; dropped.
	}
}

func (c *converter) emitQuoted(node ast.Node, listItem string, level int) {
	switch node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		c.emit(StyleBlockquote, listItem, level, c.inlineSpans(node, nil))
	default:
		c.walkBlock(node, listItem, level)
	}
}

func (c *converter) emitCode(block ast.BaseBlock) {
	var builder strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		builder.Write(segment.Value(c.source))
	}
	content := strings.TrimRight(builder.String(), "\n")
	if content == "" {
		return
	}
	key := fmt.Sprintf("b%d", len(c.blocks))
	c.blocks = append(c.blocks, Block{
		Key:   key,
		Style: StyleCode,
		Spans: []Span{{Key: key + "s0", Text: content, Marks: []string{MarkCode}}},
	})
}

func (c *converter) emit(style, listItem string, level int, spans []Span) {
	if len(spans) == 0 {
		return
	}
	key := fmt.Sprintf("b%d", len(c.blocks))
	for i := range spans {
		spans[i].Key = fmt.Sprintf("%ss%d", key, i)
	}
	c.blocks = append(c.blocks, Block{
		Key:      key,
		Style:    style,
		ListItem: listItem,
		Level:    level,
		Spans:    spans,
	})
}

func (c *converter) inlineSpans(node ast.Node, marks []string) []Span {
	var spans []Span
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		spans = append(spans, c.inlineNode(child, marks)...)
	}
	return mergeSpans(spans)
}

func (c *converter) inlineNode(node ast.Node, marks []string) []Span {
	switch typed := node.(type) {
	case *ast.Text:
		content := string(typed.Segment.Value(c.source))
		if content == "" {
			return nil
		}
		span := Span{Text: content, Marks: cloneMarks(marks)}
		if typed.SoftLineBreak() || typed.HardLineBreak() {
			span.Text += " "
		}
		return []Span{span}
	case *ast.String:
		if len(typed.Value) == 0 {
			return nil
		}
		return []Span{{Text: string(typed.Value), Marks: cloneMarks(marks)}}
	case *ast.Emphasis:
		mark := MarkEmphasis
		if typed.Level >= 2 {
			mark = MarkStrong
		}
		return c.inlineSpans(typed, appendMark(marks, mark))
	case *ast.CodeSpan:
		return c.inlineSpans(typed, appendMark(marks, MarkCode))
	case *ast.Link:
		return c.inlineSpans(typed, appendMark(marks, MarkLink))
	case *ast.AutoLink:
		url := string(typed.URL(c.source))
		if url == "" {
			return nil
		}
		return []Span{{Text: url, Marks: appendMark(cloneMarks(marks), MarkLink)}}
	case *ast.Image, *ast.RawHTML:
		return nil
	default:
		return c.inlineSpans(node, marks)
	}
}

func mergeSpans(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}
	merged := spans[:1]
	for _, span := range spans[1:] {
		last := &merged[len(merged)-1]
		if sameMarks(last.Marks, span.Marks) {
			last.Text += span.Text
			continue
		}
		merged = append(merged, span)
	}
	return merged
}

func sameMarks(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneMarks(marks []string) []string {
	if len(marks) == 0 {
		return nil
	}
	cp := make([]string, len(marks))
	copy(cp, marks)
	return cp
}

func appendMark(marks []string, mark string) []string {
	for _, existing := range marks {
		if existing == mark {
			return marks
		}
	}
	out := make([]string, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, mark)
}
