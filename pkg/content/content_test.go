package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagesOrder(t *testing.T) {
	got := Pages()
	require.Len(t, got, len(pageOrder))
	for i, p := range got {
		assert.Equal(t, pageOrder[i], p.Slug)
		assert.NotEmpty(t, p.Title)
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup(" Pricing ")
	require.NoError(t, err)
	assert.Equal(t, "Coming Soon", p.Sections[0].Heading)

	_, err = Lookup("investors")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestPostBySlug(t *testing.T) {
	p, err := PostBySlug("revolutionizing-indian-edtech")
	require.NoError(t, err)
	assert.Equal(t, "Revolutionizing the Indian EdTech Space", p.Title)

	_, err = PostBySlug("missing")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestListsAreCopies(t *testing.T) {
	f := FAQs()
	f[0].Question = "changed"
	assert.Equal(t, "What is Tuitionly?", FAQs()[0].Question)
	assert.Len(t, Team(), 3)
}
