package testsuite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Array(t *testing.T) {
	defs, err := Parse([]byte(`["7.images-alt", " 7.color-only ", "", "7.images-alt", 42]`))
	require.NoError(t, err)
	assert.Equal(t, []Definition{{Name: "7.images-alt"}, {Name: "7.color-only"}}, defs)
}

func TestParse_ObjectWithTests(t *testing.T) {
	defs, err := Parse([]byte(`{
		"tests": [
			{"name": "11.page-title", "description": "Page has a descriptive title"},
			{"name": "1.keyboard-trap"},
			{"description": "no name"},
			"1.focus-order"
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, []Definition{
		{Name: "11.page-title", Description: "Page has a descriptive title"},
		{Name: "1.keyboard-trap"},
		{Name: "1.focus-order"},
	}, defs)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`["unterminated`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = Parse([]byte(`{"other": []}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`"just a string"`))
	assert.Error(t, err)
}

func TestItems(t *testing.T) {
	items := Items([]Definition{{Name: "a", Description: "b"}})
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "b", items[0].Description)
}
