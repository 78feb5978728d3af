package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no tags",
			text: "finished the report",
			want: nil,
		},
		{
			name: "single tag",
			text: "finished the report #work",
			want: []string{"#work"},
		},
		{
			name: "multiple tags first-seen order",
			text: "#gym then #work then more #gym",
			want: []string{"#gym", "#work"},
		},
		{
			name: "tag with digits and underscore",
			text: "ran 5k #run_2024",
			want: []string{"#run_2024"},
		},
		{
			name: "bare hash is not a tag",
			text: "just a # sign",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractTags(tt.text))
		})
	}
}
