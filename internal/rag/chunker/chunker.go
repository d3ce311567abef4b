package chunker

import (
	"regexp"
	"strings"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
)

// Options controls how a document body is segmented. Zero values are not
// usable; callers normally start from DefaultOptions.
type Options struct {
	MaxChunkSize       int
	MinChunkSize       int
	OverlapSize        int
	PreserveParagraphs bool
	PreserveSentences  bool
}

func DefaultOptions() Options {
	return Options{
		MaxChunkSize:       config.MaxChunkSize,
		MinChunkSize:       config.MinChunkSize,
		OverlapSize:        config.OverlapSize,
		PreserveParagraphs: true,
		PreserveSentences:  true,
	}
}

var (
	blankLineSplitter = regexp.MustCompile(`\n[ \t]*\n`)

	// A sentence is anything up to terminal punctuation; the terminator group
	// stays attached to its own sentence.
	sentenceSplitter = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// Split segments content into ordered, size-bounded, overlapping pieces.
//
// The tiers are tried in order - paragraph packing, sentence packing,
// character windowing - and the first one that yields more than one segment
// wins. A document that already fits MaxChunkSize is returned as-is without
// touching any boundary logic.
func Split(content string, opts Options) []string {
	if len(content) <= opts.MaxChunkSize {
		return []string{content}
	}

	if opts.PreserveParagraphs {
		if parts := splitByParagraphs(content, opts); len(parts) > 1 {
			return injectOverlap(parts, opts.OverlapSize)
		}
	}
	if opts.PreserveSentences {
		if parts := splitBySentences(content, opts); len(parts) > 1 {
			return injectOverlap(parts, opts.OverlapSize)
		}
	}
	return splitByCharacters(content, opts)
}

// ChunkDocument runs Split over a document body and wraps the segments with
// deterministic ids, contiguous indices and a value-copy of the document
// metadata.
func ChunkDocument(doc ragModel.Document, opts Options) []ragModel.Chunk {
	pieces := Split(doc.Content, opts)

	chunks := make([]ragModel.Chunk, len(pieces))
	for i, text := range pieces {
		chunks[i] = ragModel.Chunk{
			Id:          ragModel.ChunkId(doc.Id, i),
			Content:     text,
			ChunkIndex:  i,
			TotalChunks: len(pieces),
			Metadata:    doc.Metadata,
		}
	}
	return chunks
}

// splitByParagraphs packs consecutive paragraphs greedily up to MaxChunkSize.
// The running buffer is flushed once the next paragraph would overflow it,
// but only when the buffer already meets MinChunkSize; undersized buffers
// keep packing and tolerate the overflow. A single paragraph that exceeds
// MaxChunkSize on its own is delegated to the sentence splitter, untrimmed,
// so edge characters survive the fall-through to character windowing.
func splitByParagraphs(content string, opts Options) []string {
	paragraphs := blankLineSplitter.Split(content, -1)

	var chunks []string
	var buf strings.Builder
	for _, p := range paragraphs {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}

		if len(trimmed) > opts.MaxChunkSize {
			if buf.Len() > 0 {
				chunks = append(chunks, buf.String())
				buf.Reset()
			}
			chunks = append(chunks, splitBySentences(p, opts)...)
			continue
		}

		overflows := buf.Len() > 0 && buf.Len()+2+len(trimmed) > opts.MaxChunkSize
		if overflows && buf.Len() >= opts.MinChunkSize {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}

		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(trimmed)
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}

// splitBySentences packs sentences the same way paragraphs are packed. Each
// sentence keeps its own terminal punctuation. An oversized single sentence
// falls through to character windowing; the raw slice is delegated untrimmed
// so a terminator-free document keeps its edge characters.
func splitBySentences(content string, opts Options) []string {
	sentences := sentenceSplitter.FindAllString(content, -1)

	var chunks []string
	var buf strings.Builder
	for _, s := range sentences {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}

		if len(trimmed) > opts.MaxChunkSize {
			if buf.Len() > 0 {
				chunks = append(chunks, buf.String())
				buf.Reset()
			}
			chunks = append(chunks, splitByCharacters(s, opts)...)
			continue
		}

		overflows := buf.Len() > 0 && buf.Len()+1+len(trimmed) > opts.MaxChunkSize
		if overflows && buf.Len() >= opts.MinChunkSize {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}

		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(trimmed)
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}

// splitByCharacters is the last resort: a sliding window of MaxChunkSize
// characters. A cut that lands strictly inside a word is backed off to the
// nearest preceding space. Slices below MinChunkSize are dropped unless they
// are the final slice of the document. The window start advances to
// end-OverlapSize, bounded below by start+1 so progress is guaranteed.
func splitByCharacters(content string, opts Options) []string {
	var chunks []string

	start := 0
	for start < len(content) {
		end := start + opts.MaxChunkSize
		if end >= len(content) {
			end = len(content)
		} else if content[end] != ' ' && content[end-1] != ' ' {
			if sp := strings.LastIndexByte(content[start:end], ' '); sp > 0 {
				end = start + sp
			}
		}

		isLast := end == len(content)
		if slice := content[start:end]; len(slice) >= opts.MinChunkSize || isLast {
			chunks = append(chunks, slice)
		}
		if isLast {
			break
		}

		next := end - opts.OverlapSize
		if next <= start {
			next = start + 1
		}
		start = next
	}

	if len(chunks) == 0 {
		chunks = []string{content}
	}
	return chunks
}

// injectOverlap prepends the trailing OverlapSize characters of each chunk's
// predecessor, skipping chunks that already start with that exact text so a
// re-chunked merge never doubles up.
func injectOverlap(chunks []string, overlap int) []string {
	if overlap <= 0 || len(chunks) < 2 {
		return chunks
	}

	out := make([]string, len(chunks))
	out[0] = chunks[0]
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev
		if len(prev) > overlap {
			tail = prev[len(prev)-overlap:]
		}
		if strings.HasPrefix(chunks[i], tail) {
			out[i] = chunks[i]
			continue
		}
		out[i] = tail + chunks[i]
	}
	return out
}
