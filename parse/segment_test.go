package parse

import "testing"

func TestSegment_SplitsAtQuestionLines(t *testing.T) {
	text := "Question 1\nstem one\n\nQuestion 2\nstem two\n"

	blocks := segment(text)

	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].label != "1" || blocks[0].text != "stem one" {
		t.Errorf("block 0 = {%q, %q}, want {\"1\", \"stem one\"}", blocks[0].label, blocks[0].text)
	}
	if blocks[1].label != "2" || blocks[1].text != "stem two" {
		t.Errorf("block 1 = {%q, %q}, want {\"2\", \"stem two\"}", blocks[1].label, blocks[1].text)
	}
}

func TestSegment_DiscardsFrontMatter(t *testing.T) {
	text := "title page junk\nmore junk\nQuestion 1\nreal stem\n"

	blocks := segment(text)

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].text != "real stem" {
		t.Errorf("block text = %q, want %q", blocks[0].text, "real stem")
	}
}

func TestSegment_UnnumberedBoundary(t *testing.T) {
	blocks := segment("Question\nstem only\n")

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].label != "" {
		t.Errorf("label = %q, want empty", blocks[0].label)
	}
}

func TestSegment_DropsWhitespaceOnlyBlocks(t *testing.T) {
	text := "Question 1\n   \n\nQuestion 2\nsurvivor\n"

	blocks := segment(text)

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].text != "survivor" {
		t.Errorf("block text = %q, want %q", blocks[0].text, "survivor")
	}
}

func TestSegment_BackToBackBoundaries(t *testing.T) {
	// The first boundary's newline is consumed by its own match; the
	// second boundary must still be found immediately after it.
	blocks := segment("Question 1\nQuestion 2\nstem\n")

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].label != "2" || blocks[0].text != "stem" {
		t.Errorf("block = {%q, %q}, want {\"2\", \"stem\"}", blocks[0].label, blocks[0].text)
	}
}

func TestSegment_PageFromFirstMarker(t *testing.T) {
	text := "Question 7\n--- PAGE 4 ---\nstem text\n--- PAGE 5 ---\ntail\n"

	blocks := segment(text)

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].page != 4 {
		t.Errorf("page = %d, want 4", blocks[0].page)
	}
	if blocks[0].text != "stem text\n\ntail" {
		t.Errorf("markers not stripped: %q", blocks[0].text)
	}
}

func TestSegment_DefaultPageOne(t *testing.T) {
	blocks := segment("Question 1\nno markers here\n")

	if len(blocks) != 1 || blocks[0].page != 1 {
		t.Fatalf("blocks = %+v, want one block on page 1", blocks)
	}
}

func TestSegment_MidLineQuestionIsNotABoundary(t *testing.T) {
	text := "Question 1\nRefer to Question 9 for context\nmore stem\n"

	blocks := segment(text)

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
}
