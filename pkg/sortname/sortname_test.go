package sortname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "the", in: "The Beatles", want: "Beatles, The"},
		{name: "a", in: "A Perfect Circle", want: "Perfect Circle, A"},
		{name: "an", in: "An Horse", want: "Horse, An"},
		{name: "lowercase article", in: "the national", want: "national, the"},
		{name: "no article", in: "Radiohead", want: "Radiohead"},
		{name: "article mid-name", in: "Rage Against the Machine", want: "Rage Against the Machine"},
		{name: "article is the whole name", in: "The", want: "The"},
		{name: "article prefix of word", in: "Therapy?", want: "Therapy?"},
		{name: "whitespace", in: "  The Kinks  ", want: "Kinks, The"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForName(tt.in))
		})
	}
}
