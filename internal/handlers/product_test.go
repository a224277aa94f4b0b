package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		slug string
		from string
		want string
	}{
		{name: "explicit_slug_wins", slug: "My-Slug", from: "Other Name", want: "my-slug"},
		{name: "from_name", slug: "", from: "Espresso Machine Deluxe", want: "espresso-machine-deluxe"},
		{name: "collapses_whitespace", slug: "", from: "  too   many   spaces ", want: "too-many-spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.slug, tt.from))
		})
	}
}

func TestFinalPrice(t *testing.T) {
	assert.Equal(t, 100.00, finalPrice(100, 0))
	assert.Equal(t, 90.00, finalPrice(100, 10))
	assert.Equal(t, 66.66, finalPrice(99.99, 33.333))
	assert.Equal(t, 100.00, finalPrice(100, -5))
}
