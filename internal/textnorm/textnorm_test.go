package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases",
			input: "Show Me UC Davis Courses",
			want:  "show me uc davis courses",
		},
		{
			name:  "usb typo becomes berkeley",
			input: "I want to transfer to USB",
			want:  "i want to transfer to uc berkeley",
		},
		{
			name:  "ucb abbreviation",
			input: "requirements for UCB please",
			want:  "requirements for uc berkeley please",
		},
		{
			name:  "berkley misspelling",
			input: "berkley cs courses",
			want:  "berkeley cs courses",
		},
		{
			name:  "ucsd abbreviation",
			input: "UCSD and UCB",
			want:  "uc san diego and uc berkeley",
		},
		{
			name:  "uc sd with space",
			input: "what about uc sd",
			want:  "what about uc san diego",
		},
		{
			name:  "typographic quotes folded",
			input: `category:“major preparation”`,
			want:  `category:"major preparation"`,
		},
		{
			name:  "curly apostrophe folded",
			input: "I’m done",
			want:  "i'm done",
		},
		{
			name:  "no false positives inside words",
			input: "subscribe",
			want:  "subscribe",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"USB and UCSD",
		"berkley “quotes”",
		"plain text already normalized",
		"uc berkeley",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
