package parse

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractChoices_LetterDotAndParen(t *testing.T) {
	choices := extractChoices("A. first option\nB) second option\n")

	if got := choices.Letters(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("letters = %v, want [A B]", got)
	}
	if text, _ := choices.Get("A"); text != "first option" {
		t.Errorf("A = %q, want %q", text, "first option")
	}
	if text, _ := choices.Get("B"); text != "second option" {
		t.Errorf("B = %q, want %q", text, "second option")
	}
}

func TestExtractChoices_LastSpanCappedAtAnswerSection(t *testing.T) {
	choices := extractChoices("A. one\nB. two\nSuggested Answer: A\n")

	if choices.Len() != 2 {
		t.Fatalf("got %d choices, want 2", choices.Len())
	}
	if text, _ := choices.Get("B"); text != "two" {
		t.Errorf("B = %q, want %q", text, "two")
	}
}

func TestExtractChoices_DuplicateLetterLastWriteWins(t *testing.T) {
	choices := extractChoices("A. first text\nA. second text\n")

	if choices.Len() != 1 {
		t.Fatalf("got %d choices, want 1", choices.Len())
	}
	if text, _ := choices.Get("A"); text != "second text" {
		t.Errorf("A = %q, want %q", text, "second text")
	}
}

func TestExtractChoices_DigitsSurvive(t *testing.T) {
	choices := extractChoices("A. 3\nB. 4\nC. 5\nSuggested Answer: B\n")

	want := map[string]string{"A": "3", "B": "4", "C": "5"}
	for letter, wantText := range want {
		if text, ok := choices.Get(letter); !ok || text != wantText {
			t.Errorf("%s = %q, want %q", letter, text, wantText)
		}
	}
}

func TestCleanChoice_ColonIntroducedExplanation(t *testing.T) {
	got := cleanChoice("Use a shared access signature: This grants time-limited access.")
	want := "Use a shared access signature"
	if got != want {
		t.Errorf("cleanChoice() = %q, want %q", got, want)
	}
}

func TestCleanChoice_OnsetTruncation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "transition word",
			in:   "Enable RBAC because it limits access",
			want: "Enable RBAC",
		},
		{
			name: "new sentence commentary",
			in:   "Azure Firewall. This protects the network",
			want: "Azure Firewall",
		},
		{
			name: "dash aside",
			in:   "Standard tier - includes SLA guarantees",
			want: "Standard tier",
		},
		{
			name: "action word",
			in:   "Premium SSD recommends itself for IO heavy loads",
			want: "Premium SSD",
		},
		{
			name: "community phrase mid text",
			in:   "Managed identity the community prefers this one",
			want: "Managed identity",
		},
		{
			name: "earliest match wins across rules",
			in:   "Blob storage: cheap because durable",
			want: "Blob storage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanChoice(tt.in); got != tt.want {
				t.Errorf("cleanChoice(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanChoice_EmptyResultFallsBackToRawSpan(t *testing.T) {
	// The whole span reads as commentary; rather than emit an empty
	// option, the raw text is kept.
	raw := "The majority agrees"
	if got := cleanChoice(raw); got != raw {
		t.Errorf("cleanChoice(%q) = %q, want the raw span back", raw, got)
	}
}

func TestCleanChoice_TrailingFooterTail(t *testing.T) {
	got := cleanChoice("Availability zone microsoft certified footer junk")
	if got != "Availability zone" {
		t.Errorf("cleanChoice() = %q, want %q", got, "Availability zone")
	}
}

func TestCleanChoice_TrailingArtifactPeriod(t *testing.T) {
	if got := cleanChoice("Enable soft delete."); got != "Enable soft delete" {
		t.Errorf("cleanChoice() = %q, want %q", got, "Enable soft delete")
	}
}

func TestCleanChoice_LongTextCutAtFirstSentence(t *testing.T) {
	in := "Enable diagnostics on the storage account. " + strings.Repeat("word ", 45)
	got := cleanChoice(in)
	want := "Enable diagnostics on the storage account."
	if got != want {
		t.Errorf("cleanChoice(long) = %q, want %q", got, want)
	}
}

func TestCleanChoice_ShortColonFormKept(t *testing.T) {
	// A trailing colon with nothing after it is an artifact, not an
	// explanation.
	if got := cleanChoice("Pool A:"); got != "Pool A" {
		t.Errorf("cleanChoice() = %q, want %q", got, "Pool A")
	}
}

func TestOnsetRules_ColonBeforeTransitionWord(t *testing.T) {
	// Precedence is positional: the colon at offset 12 beats the
	// transition word later in the text.
	got := truncateAtOnset("Blob storage: cheap because durable")
	if got != "Blob storage" {
		t.Errorf("truncateAtOnset() = %q, want %q", got, "Blob storage")
	}
}

func TestOnsetRules_NamedAndOrdered(t *testing.T) {
	// The rule table is the audit trail for cleaning decisions: every
	// rule carries a name and the community rules outrank the rest on
	// position ties.
	seen := make(map[string]bool)
	for _, rule := range onsetRules {
		if rule.name == "" {
			t.Fatal("onset rule without a name")
		}
		if seen[rule.name] {
			t.Fatalf("duplicate onset rule name %q", rule.name)
		}
		seen[rule.name] = true
	}
	if onsetRules[0].name != "community-lead" {
		t.Errorf("first rule = %q, want community-lead", onsetRules[0].name)
	}
}
