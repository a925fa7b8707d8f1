package richtext

// Span is a run of text inside a block with uniform decoration marks.
type Span struct {
	Key   string   `json:"key"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// Block is one structured-text block: a paragraph, heading, quote, list
// item, or code block. Keys are deterministic per document position so the
// conversion is pure.
type Block struct {
	Key      string `json:"key"`
	Style    string `json:"style"`
	ListItem string `json:"listItem,omitempty"`
	Level    int    `json:"level,omitempty"`
	Spans    []Span `json:"spans"`
}

// Mark and style values emitted by Convert.
const (
	StyleNormal     = "normal"
	StyleBlockquote = "blockquote"
	StyleCode       = "code"

	ListBullet = "bullet"
	ListNumber = "number"

	MarkEmphasis = "em"
	MarkStrong   = "strong"
	MarkCode     = "code"
	MarkLink     = "link"
)

// PlainText flattens blocks back into their raw text, one line per block.
func PlainText(blocks []Block) string {
	var out []byte
	for i, block := range blocks {
		if i > 0 {
			out = append(out, '\n')
		}
		for _, span := range block.Spans {
			out = append(out, span.Text...)
		}
	}
	return string(out)
}
