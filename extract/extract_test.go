package extract

import "testing"

func TestPageMarker(t *testing.T) {
	if got := PageMarker(1); got != "--- PAGE 1 ---" {
		t.Errorf("PageMarker(1) = %q, want %q", got, "--- PAGE 1 ---")
	}
	if got := PageMarker(42); got != "--- PAGE 42 ---" {
		t.Errorf("PageMarker(42) = %q, want %q", got, "--- PAGE 42 ---")
	}
}

func TestFirstPage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"single marker", "--- PAGE 7 ---\nsome text", 7},
		{"first of several", "intro\n--- PAGE 3 ---\nbody\n--- PAGE 4 ---\n", 3},
		{"no marker defaults to one", "plain text without markers", 1},
		{"empty", "", 1},
		{"marker mid text", "stem line\n--- PAGE 12 ---\ntail", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstPage(tt.text); got != tt.want {
				t.Errorf("FirstPage(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestStripPageMarkers(t *testing.T) {
	in := "head\n--- PAGE 1 ---\nbody\n--- PAGE 2 ---\ntail"
	want := "head\n\nbody\n\ntail"
	if got := StripPageMarkers(in); got != want {
		t.Errorf("StripPageMarkers(%q) = %q, want %q", in, got, want)
	}
}

func TestImageFileName(t *testing.T) {
	tests := []struct {
		name   string
		source string
		page   int
		kind   string
		seq    int
		ext    string
		want   string
	}{
		{"xobject", "az104-dump", 3, "img", 1, "png", "az104-dump_page3_img1.png"},
		{"thumbnail", "az104-dump", 3, "thumb", 2, "jpg", "az104-dump_page3_thumb2.jpg"},
		{"later page", "exam", 120, "img", 14, "tiff", "exam_page120_img14.tiff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImageFileName(tt.source, tt.page, tt.kind, tt.seq, tt.ext)
			if got != tt.want {
				t.Errorf("ImageFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageFileName_RoundTripsThroughPageMap(t *testing.T) {
	// Filenames built by ImageFileName must be recognized by the mapper,
	// whatever the kind token.
	names := []string{
		ImageFileName("src", 2, "img", 1, "png"),
		ImageFileName("src", 2, "thumb", 1, "jpg"),
		ImageFileName("src", 5, "img", 3, "png"),
	}

	byPage := MapImagesToPages(names)
	if len(byPage[2]) != 2 {
		t.Errorf("page 2: got %d images, want 2", len(byPage[2]))
	}
	if len(byPage[5]) != 1 {
		t.Errorf("page 5: got %d images, want 1", len(byPage[5]))
	}
}
