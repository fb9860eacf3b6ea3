package labeling

import "testing"

func TestResolveSymbology(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  Symbology
	}{
		{"13 digits", "4006381333931", SymbologyEAN13},
		{"13 digits all zeros", "0000000000000", SymbologyEAN13},
		{"12 digits", "400638133393", SymbologyCode128},
		{"14 digits", "40063813339310", SymbologyCode128},
		{"alphanumeric", "SN-001-ABC", SymbologyCode128},
		{"13 chars with letter", "400638133393X", SymbologyCode128},
		{"empty", "", SymbologyCode128},
		{"digits with space", "4006381 33931", SymbologyCode128},
		{"unicode digits rejected", "４００６３８１３３３９３１", SymbologyCode128},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveSymbology(tc.value); got != tc.want {
				t.Fatalf("ResolveSymbology(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}
