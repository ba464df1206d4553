// Package chunker splits document content into ordered text segments.
// Splitting is a pure function of the input: identical input always
// produces identical chunk sequences.
package chunker

import "strings"

const (
	defaultChunkSize      = 2000
	defaultChunkOverlap   = 300
	defaultMinSectionSize = 200
	defaultMaxSectionSize = 2000
)

type Config struct {
	// ChunkSize and ChunkOverlap drive plain-text splitting: a sliding
	// rune window with a fixed overlap between consecutive chunks.
	ChunkSize    int
	ChunkOverlap int

	// MinSectionSize and MaxSectionSize bound section-based splitting of
	// structured input. Small sections are merged up to at least the
	// minimum; oversized sections are split further.
	MinSectionSize int
	MaxSectionSize int
}

// Section is one item of flat JSON input: a heading with its content.
type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Chunk is one ordered segment of a document. Heading is set when the
// segment derives from structured input.
type Chunk struct {
	Text    string
	Heading string
}

type Chunker struct {
	cfg Config
}

func New(cfg Config) *Chunker {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = cfg.ChunkSize / 2
	}
	if cfg.MinSectionSize <= 0 {
		cfg.MinSectionSize = defaultMinSectionSize
	}
	if cfg.MaxSectionSize < cfg.MinSectionSize {
		cfg.MaxSectionSize = defaultMaxSectionSize
	}
	return &Chunker{cfg: cfg}
}

// SplitText splits plain text into chunks of at most ChunkSize runes with
// ChunkOverlap runes shared between consecutive chunks. Empty input yields
// no chunks.
func (c *Chunker) SplitText(content string) []Chunk {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	var chunks []Chunk
	runes := []rune(content)
	size := c.cfg.ChunkSize
	step := size - c.cfg.ChunkOverlap
	for i := 0; i < len(runes); {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{Text: string(runes[i:end])})
		if end == len(runes) {
			break
		}
		i += step
	}
	return chunks
}

// SplitSections splits structured input. Each section keeps its heading
// with its content; sections below the minimum size are merged with the
// following ones, and a section above the maximum is split further into
// maximum-sized pieces, every piece labeled with the section heading.
// Merging never produces a chunk above the maximum size.
func (c *Chunker) SplitSections(sections []Section) []Chunk {
	var chunks []Chunk
	var pending []Section
	pendingLen := 0

	flush := func() {
		if len(pending) == 0 {
			return
		}
		parts := make([]string, 0, len(pending))
		for _, s := range pending {
			parts = append(parts, renderSection(s))
		}
		chunks = append(chunks, Chunk{
			Text:    strings.Join(parts, "\n\n"),
			Heading: pending[0].Heading,
		})
		pending = nil
		pendingLen = 0
	}

	for _, section := range sections {
		text := renderSection(section)
		if text == "" {
			continue
		}

		textLen := len([]rune(text))
		if textLen > c.cfg.MaxSectionSize {
			// Oversized atomic section: emit what is buffered, then
			// split this one on its own.
			flush()
			for _, piece := range splitRunes(text, c.cfg.MaxSectionSize) {
				chunks = append(chunks, Chunk{Text: piece, Heading: section.Heading})
			}
			continue
		}

		// The separator between merged sections counts toward the cap.
		sep := 0
		if len(pending) > 0 {
			sep = len("\n\n")
		}
		if pendingLen+sep+textLen > c.cfg.MaxSectionSize {
			flush()
			sep = 0
		}

		pending = append(pending, section)
		pendingLen += sep + textLen
		if pendingLen >= c.cfg.MinSectionSize {
			flush()
		}
	}
	flush()

	return chunks
}

func renderSection(s Section) string {
	heading := strings.TrimSpace(s.Heading)
	content := strings.TrimSpace(s.Content)
	switch {
	case heading == "" && content == "":
		return ""
	case heading == "":
		return content
	case content == "":
		return heading
	default:
		return heading + "\n" + content
	}
}

func splitRunes(text string, size int) []string {
	runes := []rune(text)
	var parts []string
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[i:end]))
	}
	return parts
}
