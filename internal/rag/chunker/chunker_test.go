package chunker

import (
	"strings"
	"testing"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
)

func testOptions() Options {
	return Options{
		MaxChunkSize:       1000,
		MinChunkSize:       200,
		OverlapSize:        100,
		PreserveParagraphs: true,
		PreserveSentences:  true,
	}
}

func TestSplit_SingleChunkFastPath(t *testing.T) {
	opts := testOptions()
	content := "Short document.\n\nWith a paragraph break that must not trigger splitting."

	chunks := Split(content, opts)

	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != content {
		t.Errorf("fast path must return content unmodified, got %q", chunks[0])
	}
}

func TestSplit_LongWordStreamScenario(t *testing.T) {
	// 12000 characters, maxChunkSize=1000, overlapSize=100, minChunkSize=200.
	opts := testOptions()
	content := strings.Repeat("lorem ipsum dolor sit amet ", 445)[:12000]

	chunks := Split(content, opts)

	if len(chunks) < 12 || len(chunks) > 14 {
		t.Fatalf("expected 12-14 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > opts.MaxChunkSize+opts.OverlapSize {
			t.Errorf("chunk %d exceeds max+overlap tolerance: %d chars", i, len(c))
		}
	}
	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1][len(chunks[i-1])-opts.OverlapSize:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not begin with the tail of its predecessor", i)
		}
	}

	// Stripping the positional overlap must reconstruct the document exactly.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(c[opts.OverlapSize:])
	}
	if rebuilt.String() != content {
		t.Error("concatenating chunks minus overlap did not reconstruct the original content")
	}
}

func TestSplit_CharacterSplitKeepsEdgeCharacters(t *testing.T) {
	// A terminator-free document reaches the character splitter through the
	// sentence tier; its leading and trailing whitespace must survive the
	// trip or reconstruction comes up short.
	opts := testOptions()
	opts.OverlapSize = 0

	content := " " + strings.Repeat("word ", 500) // 2501 chars, ends with a space

	chunks := Split(content, opts)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if rebuilt := strings.Join(chunks, ""); rebuilt != content {
		t.Errorf("rebuilt %d chars, want %d; edge characters were dropped", len(rebuilt), len(content))
	}
}

func TestSplit_ParagraphPacking(t *testing.T) {
	opts := testOptions()
	para := strings.Repeat("Packed paragraph sentence here. ", 10) // ~320 chars
	content := strings.TrimSpace(strings.Repeat(para+"\n\n", 12))  // ~3800 chars

	chunks := Split(content, opts)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > opts.MaxChunkSize+opts.OverlapSize {
			t.Errorf("chunk %d exceeds max+overlap tolerance: %d chars", i, len(c))
		}
	}
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-opts.OverlapSize:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d missing injected overlap prefix", i)
		}
	}
}

func TestSplit_SentenceTerminatorsKept(t *testing.T) {
	// Each sentence keeps its own terminator; splitting must never smear
	// one sentence's punctuation onto another.
	opts := testOptions()
	opts.MaxChunkSize = 60
	opts.MinChunkSize = 10
	opts.OverlapSize = 0
	opts.PreserveParagraphs = false

	content := "Is this a question? Yes it is! And this one simply ends with a period. Another statement follows here."
	chunks := Split(content, opts)

	joined := strings.Join(chunks, " ")
	for _, want := range []string{"question?", "is!", "period."} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q to survive sentence splitting, got %q", want, joined)
		}
	}
}

func TestSplit_OversizedParagraphDelegates(t *testing.T) {
	opts := testOptions()
	opts.MaxChunkSize = 100
	opts.MinChunkSize = 20
	opts.OverlapSize = 10

	big := strings.Repeat("A sentence of modest length sits here. ", 10) // one paragraph, ~390 chars
	content := "Small intro paragraph.\n\n" + big

	chunks := Split(content, opts)
	if len(chunks) < 3 {
		t.Fatalf("expected oversized paragraph to be sentence-split, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > opts.MaxChunkSize+opts.OverlapSize {
			t.Errorf("chunk %d over budget: %d chars", i, len(c))
		}
	}
}

func TestSplit_DegenerateInput(t *testing.T) {
	opts := testOptions()

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace_small", "   \n\t  "},
		{"whitespace_large", strings.Repeat(" ", 1500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.content, opts)
			if len(chunks) == 0 {
				t.Error("degenerate input must yield at least one chunk")
			}
		})
	}
}

func TestSplit_NoDuplicateOverlap(t *testing.T) {
	got := injectOverlap([]string{"alpha beta", "beta gamma"}, 4)
	if got[1] != "beta gamma" {
		t.Errorf("overlap already present must not be doubled, got %q", got[1])
	}

	got = injectOverlap([]string{"alpha beta", "gamma delta"}, 4)
	if got[1] != "betagamma delta" {
		t.Errorf("expected injected tail prefix, got %q", got[1])
	}
}

func TestChunkDocument_IndexContiguity(t *testing.T) {
	doc := ragModel.Document{
		Id:      "doc-77",
		Content: strings.Repeat("lorem ipsum dolor sit amet ", 445)[:12000],
		Metadata: ragModel.DocumentMetadata{
			Domain: ragModel.DomainTrading,
			Source: "unit-test",
		},
	}

	chunks := ChunkDocument(doc, testOptions())

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	seen := make(map[int]bool, len(chunks))
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if seen[c.ChunkIndex] {
			t.Errorf("duplicate chunk index %d", c.ChunkIndex)
		}
		seen[c.ChunkIndex] = true
		if c.TotalChunks != len(chunks) {
			t.Errorf("chunk %d reports totalChunks=%d, want %d", i, c.TotalChunks, len(chunks))
		}
		if want := ragModel.ChunkId(doc.Id, i); c.Id != want {
			t.Errorf("chunk id %q, want %q", c.Id, want)
		}
		if c.Metadata.Domain != ragModel.DomainTrading || c.Metadata.Source != "unit-test" {
			t.Errorf("chunk %d did not inherit document metadata: %+v", i, c.Metadata)
		}
	}
}

func TestChunkDocument_SmallDocument(t *testing.T) {
	doc := ragModel.Document{Id: "tiny", Content: "Just one small note."}
	chunks := ChunkDocument(doc, testOptions())

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Id != "tiny_chunk_0" || chunks[0].TotalChunks != 1 {
		t.Errorf("unexpected chunk envelope: %+v", chunks[0])
	}
	if chunks[0].Content != doc.Content {
		t.Error("single-chunk content must equal the document content")
	}
}
