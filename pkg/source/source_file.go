package source

// File represents a source document, typically an XMILE file loaded from
// disk. Content is retained as runes, so spans are rune offsets that line
// up with slice indices even in the presence of multi-byte UTF-8
// identifiers.
type File struct {
	// name is the file name for reporting purposes.
	name string
	// text is the full contents of the file.
	text []rune
}

// NewFile constructs a new source file from raw bytes.
func NewFile(name string, contents []byte) *File {
	return &File{name, []rune(string(contents))}
}

// Name returns the file name associated with this source file.
func (f *File) Name() string { return f.name }

// Text returns the full contents of this source file.
func (f *File) Text() []rune { return f.text }

// Slice returns the substring covered by a given span.
func (f *File) Slice(span Span) string {
	return string(f.text[span.Start():span.End()])
}

// Line describes one physical line within a source file, used to render
// diagnostic source lines and caret underlines.
type Line struct {
	text   []rune
	span   Span
	number int
}

// String returns the textual content of this line.
func (l Line) String() string { return string(l.text[l.span.Start():l.span.End()]) }

// Number returns the 1-based line number.
func (l Line) Number() int { return l.number }

// Start returns the rune offset of the first character of this line.
func (l Line) Start() int { return l.span.Start() }

// FindEnclosingLine determines the physical line containing the start of a
// given span. If the span lies beyond the end of the file, the last line is
// returned.
func (f *File) FindEnclosingLine(span Span) Line {
	index := span.Start()
	num := 1
	start := 0

	for i := 0; i < len(f.text); i++ {
		if i == index {
			end := findEndOfLine(index, f.text)
			return Line{f.text, Span{start, end}, num}
		} else if f.text[i] == '\n' {
			num++
			start = i + 1
		}
	}

	return Line{f.text, Span{start, len(f.text)}, num}
}

func findEndOfLine(index int, text []rune) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}

	return len(text)
}
