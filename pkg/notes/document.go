package notes

import (
	"strings"
	"unicode"
)

// SectionKind identifies one of the fixed headings of a notes document.
type SectionKind string

const (
	SectionUnknown   SectionKind = ""
	SectionTitle     SectionKind = "title"
	SectionSummary   SectionKind = "summary"
	SectionTakeaways SectionKind = "key_takeaways"
	SectionMnemonics SectionKind = "mnemonics"
	SectionQuiz      SectionKind = "quiz"
)

// sectionPrefixes maps normalized heading labels to kinds. Order matters: first match wins.
var sectionPrefixes = []struct {
	prefix string
	kind   SectionKind
}{
	{"title", SectionTitle},
	{"summary", SectionSummary},
	{"key takeaway", SectionTakeaways},
	{"takeaway", SectionTakeaways},
	{"mnemonic", SectionMnemonics},
	{"quiz", SectionQuiz},
}

// Block is a fenced region of the document.
type Block struct {
	Tag     string // lower-cased first word of the info string
	Content string
	Line    int // 0-based line of the opening fence
}

// Section is a level-2 heading and the text it owns, up to the next level-2 heading.
type Section struct {
	Heading string
	Kind    SectionKind
	Body    string
	Line    int
	Blocks  []Block
}

// Document is the parsed form of a generated notes document.
// Parsing never fails: anything outside the grammar is plain body text.
type Document struct {
	Raw      string
	Preamble string
	Sections []Section
	Blocks   []Block
}

type fence struct {
	char  byte
	width int
}

// Parse reads headings ("## label") and fences ("```tag" ... "```") out of raw text.
func Parse(raw string) Document {
	doc := Document{Raw: raw}
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var (
		current   *Section
		body      []string
		open      *fence
		block     Block
		blockBody []string
	)

	flushBody := func() {
		text := strings.Trim(strings.Join(body, "\n"), "\n")
		if current == nil {
			doc.Preamble = text
		} else {
			current.Body = text
			doc.Sections = append(doc.Sections, *current)
		}
		body = nil
	}

	closeBlock := func() {
		block.Content = strings.Join(blockBody, "\n")
		doc.Blocks = append(doc.Blocks, block)
		if current != nil {
			current.Blocks = append(current.Blocks, block)
		}
		open = nil
		blockBody = nil
	}

	for i, line := range lines {
		if open != nil {
			if tail, hasTail, ok := closingFence(line, *open); ok {
				if hasTail {
					blockBody = append(blockBody, tail)
				}
				closeBlock()
			} else {
				blockBody = append(blockBody, line)
			}
			body = append(body, line)
			continue
		}

		if o, ok := openingFence(line); ok {
			block = Block{Tag: o.tag, Line: i}
			body = append(body, line)
			if o.inline != nil {
				blockBody = []string{*o.inline}
				closeBlock()
				continue
			}
			if o.lead != "" {
				blockBody = []string{o.lead}
			}
			open = &o.fence
			continue
		}

		if label, ok := headingLabel(line); ok {
			flushBody()
			current = &Section{Heading: label, Kind: classify(label), Line: i}
			continue
		}

		body = append(body, line)
	}

	if open != nil {
		closeBlock()
	}
	flushBody()

	return doc
}

// Section returns the first section of the given kind.
func (d Document) Section(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// FirstBlock returns the first fenced block, in document order, with the given tag.
func (d Document) FirstBlock(tag string) (Block, bool) {
	tag = strings.ToLower(tag)
	for _, b := range d.Blocks {
		if b.Tag == tag {
			return b, true
		}
	}
	return Block{}, false
}

// WithoutQuiz returns the raw text that precedes the quiz heading.
func (d Document) WithoutQuiz() string {
	quiz, ok := d.Section(SectionQuiz)
	if !ok {
		return strings.TrimSpace(d.Raw)
	}
	lines := strings.Split(strings.ReplaceAll(d.Raw, "\r\n", "\n"), "\n")
	return strings.TrimSpace(strings.Join(lines[:quiz.Line], "\n"))
}

const maxExcerptRunes = 500

// SummaryExcerpt returns the first prose paragraph of the summary section,
// skipping fenced flowcharts. It is empty when the section is missing or has no prose.
func (d Document) SummaryExcerpt() string {
	summary, ok := d.Section(SectionSummary)
	if !ok {
		return ""
	}

	var (
		paragraph []string
		inFence   *fence
	)
	for _, line := range strings.Split(summary.Body, "\n") {
		if inFence != nil {
			if _, _, ok := closingFence(line, *inFence); ok {
				inFence = nil
			}
			continue
		}
		if o, ok := openingFence(line); ok {
			if len(paragraph) > 0 {
				break
			}
			if o.inline == nil {
				inFence = &o.fence
			}
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(paragraph) > 0 {
				break
			}
			continue
		}
		paragraph = append(paragraph, trimmed)
	}

	excerpt := strings.Join(paragraph, " ")
	if r := []rune(excerpt); len(r) > maxExcerptRunes {
		excerpt = strings.TrimSpace(string(r[:maxExcerptRunes]))
	}
	return excerpt
}

func headingLabel(line string) (string, bool) {
	indent := len(line) - len(strings.TrimLeft(line, " "))
	if indent > 3 {
		return "", false
	}
	rest := line[indent:]
	if !strings.HasPrefix(rest, "##") || strings.HasPrefix(rest, "###") {
		return "", false
	}
	label := strings.TrimRight(strings.TrimSpace(rest[2:]), "#")
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false
	}
	return label, true
}

type fenceOpen struct {
	fence
	tag string
	// inline is the content of a fence opened and closed on one line.
	inline *string
	// lead is content following the tag on the opening line, as in "```json [".
	lead string
}

func openingFence(line string) (fenceOpen, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return fenceOpen{}, false
	}
	char := trimmed[0]
	if char != '`' && char != '~' {
		return fenceOpen{}, false
	}
	width := 0
	for width < len(trimmed) && trimmed[width] == char {
		width++
	}
	if width < 3 {
		return fenceOpen{}, false
	}
	o := fenceOpen{fence: fence{char: char, width: width}}
	info := strings.TrimSpace(trimmed[width:])

	// One-line form: ```json [ ... ] ```
	closing := strings.Repeat(string(char), width)
	if idx := strings.Index(info, closing); idx >= 0 {
		tag, content := splitInfo(strings.TrimSpace(info[:idx]))
		o.tag, o.inline = tag, &content
		return o, true
	}

	if char == '`' && strings.Contains(info, "`") {
		return fenceOpen{}, false
	}
	o.tag, o.lead = splitInfo(info)
	return o, true
}

// splitInfo separates the language tag from anything after it. An info string
// starting with JSON has no tag.
func splitInfo(info string) (string, string) {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", ""
	}
	if strings.ContainsAny(fields[0][:1], "[{") {
		return "", info
	}
	tag := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(info, fields[0]))
	return tag, rest
}

// closingFence reports whether line closes open. A fence run at the end of a
// content line ("}]```") also closes; the text before it comes back as tail.
func closingFence(line string, open fence) (tail string, hasTail bool, ok bool) {
	trimmed := strings.TrimRight(line, " \t")
	run := 0
	for run < len(trimmed) && trimmed[len(trimmed)-1-run] == open.char {
		run++
	}
	if run < open.width {
		return "", false, false
	}
	head := trimmed[:len(trimmed)-run]
	if strings.TrimSpace(head) == "" {
		return "", false, true
	}
	return head, true, true
}

func classify(label string) SectionKind {
	normalized := strings.TrimLeft(normalizeLabel(label), "0123456789 ")
	for _, p := range sectionPrefixes {
		if strings.HasPrefix(normalized, p.prefix) {
			return p.kind
		}
	}
	return SectionUnknown
}

// normalizeLabel lower-cases and keeps letters and digits, collapsing everything else to single spaces.
func normalizeLabel(label string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	return b.String()
}
