package domain

import "testing"

func TestOptions_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"absent", 0, DefaultExtractLength},
		{"negative", -3, DefaultExtractLength},
		{"set", 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Options{ExtractLength: tt.in}.Normalized()
			if got.ExtractLength != tt.want {
				t.Errorf("ExtractLength = %d, want %d", got.ExtractLength, tt.want)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"in TIT", " in TIT"},
		{" in TIT", " in TIT"},
	}
	for _, tt := range tests {
		if got := Location(tt.in); got != tt.want {
			t.Errorf("Location(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{" ", true},
		{" \t ", true},
		{" a ", false},
		{"\u200b", false},
	}
	for _, tt := range tests {
		if got := IsWhitespace(tt.in); got != tt.want {
			t.Errorf("IsWhitespace(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRuneIndex(t *testing.T) {
	if got := RuneIndex("αβ\u200bγ", ZeroWidthSpace); got != 2 {
		t.Errorf("RuneIndex = %d, want 2", got)
	}
	if got := RuneIndex("abc", ZeroWidthSpace); got != -1 {
		t.Errorf("RuneIndex = %d, want -1", got)
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		index  int
		length int
		want   string
	}{
		{"start of short text", "abc", 0, 10, "abc"},
		{"middle of long text", "abcdefghijklmnopqrstuvwxyz", 13, 10, "…ijklmnopqr…"},
		{"end of long text", "abcdefghijklmnopqrstuvwxyz", 25, 4, "…xyz"},
		{"visible markers", "a b\u200bc", 3, 10, "a␣b‼c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text, tt.index, tt.length); got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}
