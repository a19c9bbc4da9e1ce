package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "Engineered a distributed pipeline",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "Python",
			limit:  10,
			expect: "Python",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "Distributed Systems",
			limit:  11,
			expect: "Distributed...",
		},
		{
			name:   "counts runes not bytes",
			input:  "• Developed",
			limit:  3,
			expect: "• D...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
