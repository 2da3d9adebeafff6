package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/gosvelte/pkg/diff"
	"github.com/walteh/gosvelte/pkg/position"
)

type node struct {
	Name     string
	Span     position.Span
	internal int
}

func TestExported(t *testing.T) {
	tests := []struct {
		name    string
		want    node
		got     node
		changed bool
	}{
		{
			name: "equal",
			want: node{Name: "div", Span: position.NewSpan(0, 5)},
			got:  node{Name: "div", Span: position.NewSpan(0, 5)},
		},
		{
			name: "unexported_fields_ignored",
			want: node{Name: "div", internal: 1},
			got:  node{Name: "div", internal: 2},
		},
		{
			name:    "exported_field_differs",
			want:    node{Name: "div"},
			got:     node{Name: "span"},
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diff.Exported(tt.want, tt.got)
			if !tt.changed {
				assert.Empty(t, d)
				return
			}
			assert.Contains(t, d, "-")
			assert.Contains(t, d, "span")
			assert.Contains(t, d, "div")
		})
	}
}
