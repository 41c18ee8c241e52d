package matching

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Tomatoes  ", "tomatoes"},
		{"Cherry   Tomatoes", "cherry tomatoes"},
		{"OLIVE\tOIL", "olive oil"},
		{"свёкла", "свекла"},
		{"Свёкла Молодая", "свекла молодая"},
		{"  a   b   c  ", "a b c"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"Cherry Tomatoes", "свёкла", "  mixed   Case  "}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
