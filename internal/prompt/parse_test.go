package prompt

import (
	"errors"
	"testing"
)

func TestParseNameDescription(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantName string
		wantDesc string
		wantErr  bool
	}{
		{
			name:     "simple reply",
			reply:    "Eldoria|A realm of drowned cities.",
			wantName: "Eldoria",
			wantDesc: "A realm of drowned cities.",
		},
		{
			name:     "extra pipes fold into description",
			reply:    "Eldoria|A realm | of two halves.",
			wantName: "Eldoria",
			wantDesc: "A realm | of two halves.",
		},
		{
			name:     "leading whitespace trimmed",
			reply:    " Eldoria | \n A realm of drowned cities.",
			wantName: "Eldoria",
			wantDesc: "A realm of drowned cities.",
		},
		{
			name:     "incomplete trailing sentence cut",
			reply:    "Eldoria|A realm of drowned cities. It was founded by",
			wantName: "Eldoria",
			wantDesc: "A realm of drowned cities.",
		},
		{
			name:    "missing separator",
			reply:   "Eldoria, a realm of drowned cities.",
			wantErr: true,
		},
		{
			name:    "empty name",
			reply:   "  |A realm.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, desc, err := ParseNameDescription(tt.reply)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingSeparator) {
					t.Fatalf("expected ErrMissingSeparator, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.wantName || desc != tt.wantDesc {
				t.Fatalf("got (%q, %q), want (%q, %q)", name, desc, tt.wantName, tt.wantDesc)
			}
		})
	}
}

func TestParsePair(t *testing.T) {
	ab, ba, err := ParsePair("Mira trusts Tobias completely.|Tobias resents the debt he owes Mira.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ab != "Mira trusts Tobias completely." || ba != "Tobias resents the debt he owes Mira." {
		t.Fatalf("unexpected pair: %q / %q", ab, ba)
	}

	if _, _, err := ParsePair("one sided only"); !errors.Is(err, ErrMissingSeparator) {
		t.Fatalf("expected ErrMissingSeparator, got %v", err)
	}
}

func TestSanitizers(t *testing.T) {
	t.Run("strip non ascii", func(t *testing.T) {
		if got := StripNonASCII("café of wönders"); got != "caf of wnders" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("collapse double newlines", func(t *testing.T) {
		if got := CollapseDoubleNewlines("first \n\nsecond\n\nthird"); got != "firstsecondthird" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("incomplete sentence without any period", func(t *testing.T) {
		if got := TrimIncompleteSentence("no full stop here"); got != "no full stop here." {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("collapse whitespace", func(t *testing.T) {
		if got := CollapseWhitespace(" The Shattered\tIsles \n"); got != "TheShatteredIsles" {
			t.Fatalf("got %q", got)
		}
	})
}
