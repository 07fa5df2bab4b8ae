package cert

import (
	"strings"
	"testing"
)

func TestContentHashDeterministic(t *testing.T) {
	a := ContentHash("Jane Doe", "Algorithms", "2024-01-01", "Tech U", "Org")
	b := ContentHash("Jane Doe", "Algorithms", "2024-01-01", "Tech U", "Org")
	if a != b {
		t.Fatalf("hash not deterministic: %s != %s", a, b)
	}
	if !strings.HasPrefix(a, "0x") || len(a) != 66 {
		t.Fatalf("unexpected hash shape: %q", a)
	}
}

func TestContentHashIgnoresSurroundingSpace(t *testing.T) {
	a := ContentHash("Jane Doe", "Algorithms", "2024-01-01", "Tech U", "Org")
	b := ContentHash("  Jane Doe ", "Algorithms", " 2024-01-01", "Tech U ", " Org")
	if a != b {
		t.Fatal("hash must canonicalize surrounding whitespace")
	}
}

func TestContentHashFieldBoundaries(t *testing.T) {
	// Field separator must prevent adjacent fields from bleeding into each
	// other: ("ab","c") and ("a","bc") must not collide.
	a := ContentHash("ab", "c", "2024-01-01", "x", "y")
	b := ContentHash("a", "bc", "2024-01-01", "x", "y")
	if a == b {
		t.Fatal("field boundary collision")
	}
}

func TestContentHashSensitiveToEveryField(t *testing.T) {
	base := ContentHash("Jane", "Algo", "2024-01-01", "Iss", "Org")
	variants := []string{
		ContentHash("Janet", "Algo", "2024-01-01", "Iss", "Org"),
		ContentHash("Jane", "Algos", "2024-01-01", "Iss", "Org"),
		ContentHash("Jane", "Algo", "2024-01-02", "Iss", "Org"),
		ContentHash("Jane", "Algo", "2024-01-01", "Issuer", "Org"),
		ContentHash("Jane", "Algo", "2024-01-01", "Iss", "Org2"),
	}
	for i, v := range variants {
		if v == base {
			t.Fatalf("variant %d did not change the hash", i)
		}
	}
}
