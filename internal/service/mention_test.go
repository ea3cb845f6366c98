package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMentions(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two mentions",
			text: "Hello students! @studentagnes@gmail.com @studentmiche@gmail.com",
			want: []string{"studentagnes@gmail.com", "studentmiche@gmail.com"},
		},
		{
			name: "no mentions",
			text: "Hey everybody",
			want: []string{},
		},
		{
			name: "repeated mention",
			text: "@a@x.com and again @a@x.com then @b@x.com",
			want: []string{"a@x.com", "b@x.com"},
		},
		{
			name: "bare email is not a mention",
			text: "write to a@x.com or @not-an-email",
			want: []string{},
		},
		{
			name: "punctuation after mention",
			text: "Well done @studentbob@gmail.com, see you",
			want: []string{"studentbob@gmail.com"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractMentions(tc.text))
		})
	}
}
