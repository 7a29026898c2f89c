package textmatch

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Grilled   Chicken ", "grilled chicken"},
		{"Mac & Cheese,", "mac cheese"},
		{"Sautéed Zucchini", "sauteed zucchini"},
		{"Jalapeño Corn Bread", "jalapeno corn bread"},
		{"BEEF, GROUND (80/20)", "beef ground 80 20"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSimilarityExactAndCase(t *testing.T) {
	if got := Similarity("Grilled Chicken", "grilled chicken"); got != 1 {
		t.Fatalf("expected 1.0 for case-insensitive equality, got %v", got)
	}
}

func TestSimilarityAccentInsensitive(t *testing.T) {
	// The same dish with and without diacritics must compare equal.
	if got := Similarity("Sautéed Zucchini", "Sauteed Zucchini"); got != 1 {
		t.Fatalf("expected 1.0 across accented/ASCII spellings, got %v", got)
	}
}

func TestSimilarityTokenOverlap(t *testing.T) {
	// 2 shared tokens of 3 distinct -> 2/3
	got := Similarity("Grilled Chicken", "Chicken, Grilled, Roasted")
	if got < 0.66 || got > 0.67 {
		t.Fatalf("expected ~0.667 token overlap, got %v", got)
	}
}

func TestSimilarityDisjoint(t *testing.T) {
	if got := Similarity("Grilled Chicken", "Orange Juice"); got != 0 {
		t.Fatalf("expected 0 for disjoint names, got %v", got)
	}
}

func TestSimilaritySingleTokenEditDistance(t *testing.T) {
	got := Similarity("bananas", "banana")
	if got <= 0.8 {
		t.Fatalf("expected edit-distance ratio > 0.8 for banana/bananas, got %v", got)
	}
}

func TestSimilarityEmpty(t *testing.T) {
	if got := Similarity("", "chicken"); got != 0 {
		t.Fatalf("expected 0 for empty query, got %v", got)
	}
}

func TestSimilarityOrderIndependent(t *testing.T) {
	a := Similarity("green beans with almonds", "beans green")
	b := Similarity("beans green", "green beans with almonds")
	if a != b {
		t.Fatalf("similarity is not symmetric: %v vs %v", a, b)
	}
}
