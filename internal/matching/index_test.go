package matching

import (
	"testing"
)

func TestScoreEntryExactName(t *testing.T) {
	entry := Entry{Text: "tomatoes", Field: FieldName, CanonicalName: "Tomatoes", Category: "vegetables"}

	score, ok := scoreEntry("tomatoes", entry)
	if !ok {
		t.Fatalf("exact name should clear the threshold")
	}
	if score != scaledScore(0, weightName) {
		t.Fatalf("unexpected exact name score %v", score)
	}
}

func TestScoreEntryFieldOrdering(t *testing.T) {
	name := Entry{Text: "beets", Field: FieldName, CanonicalName: "Beets"}
	synonym := Entry{Text: "beets", Field: FieldSynonym, CanonicalName: "Beetroot"}

	nameScore, _ := scoreEntry("beets", name)
	synScore, _ := scoreEntry("beets", synonym)
	if nameScore >= synScore {
		t.Fatalf("name hit (%v) should rank ahead of synonym hit (%v)", nameScore, synScore)
	}
}

func TestScoreEntryCategoryHit(t *testing.T) {
	entry := Entry{Text: "tomatoes", Field: FieldName, CanonicalName: "Tomatoes", Category: "vegetables"}

	score, ok := scoreEntry("vegetables", entry)
	if !ok {
		t.Fatalf("category match should clear the threshold")
	}
	if score != scaledScore(0, weightCategory) {
		t.Fatalf("unexpected category score %v", score)
	}

	nameScore, _ := scoreEntry("tomatoes", entry)
	if nameScore >= score {
		t.Fatalf("name hit (%v) should rank ahead of category hit (%v)", nameScore, score)
	}
}

func TestScoreEntryToleratesTypos(t *testing.T) {
	entry := Entry{Text: "tomatoes", Field: FieldName, CanonicalName: "Tomatoes"}

	if _, ok := scoreEntry("tomatos", entry); !ok {
		t.Fatalf("single-letter typo should still match")
	}
	if _, ok := scoreEntry("tomatoe", entry); !ok {
		t.Fatalf("truncated form should still match")
	}
}

func TestScoreEntryRejectsUnrelated(t *testing.T) {
	entry := Entry{Text: "tomatoes", Field: FieldName, CanonicalName: "Tomatoes", Category: "vegetables"}

	if score, ok := scoreEntry("chicken", entry); ok {
		t.Fatalf("unrelated query should fall below threshold, got %v", score)
	}
}

func TestScoreEntryShortQuery(t *testing.T) {
	entry := Entry{Text: "tomatoes", Field: FieldName, CanonicalName: "Tomatoes"}

	if _, ok := scoreEntry("t", entry); ok {
		t.Fatalf("single-rune query must never match")
	}
}

func TestTextScoreTokenReordering(t *testing.T) {
	if got := textScore("tomatoes cherry", "cherry tomatoes"); got != 0 {
		t.Fatalf("reordered tokens should score 0, got %v", got)
	}
}

func TestExactTitleBeatsLongerVariant(t *testing.T) {
	exact := Entry{Text: "cherry tomatoes", Field: FieldName, CanonicalName: "Cherry tomatoes"}
	variant := Entry{Text: "cherry tomatoes premium", Field: FieldName, CanonicalName: "Cherry tomatoes premium"}

	exactScore, ok := scoreEntry("cherry tomatoes", exact)
	if !ok {
		t.Fatalf("exact title must match")
	}
	variantScore, ok := scoreEntry("cherry tomatoes", variant)
	if !ok {
		t.Fatalf("longer variant should still match")
	}
	if exactScore >= variantScore {
		t.Fatalf("exact title (%v) should rank ahead of its longer variant (%v)", exactScore, variantScore)
	}
}

func TestTokenAlignmentPartialQuery(t *testing.T) {
	entry := Entry{Text: "cherry tomatoes", Field: FieldName, CanonicalName: "Cherry tomatoes"}

	if _, ok := scoreEntry("tomato", entry); !ok {
		t.Fatalf("single-token query should align against the best title token")
	}
}
