package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wildsl/internal/model"
)

func withCategory(id, category string) model.Entry {
	return model.Entry{ID: model.ID(id), Category: category}
}

func TestCategories(t *testing.T) {
	input := []model.Entry{
		withCategory("1", "Workshop"),
		withCategory("2", "Exhibition"),
		withCategory("3", "workshop"),
		withCategory("4", ""),
		withCategory("5", "Conservation"),
	}
	assert.Equal(t, []string{"All", "Workshop", "Exhibition", "Conservation"}, Categories(input))
	assert.Equal(t, []string{"All"}, Categories(nil))
}

func TestFilterCategory(t *testing.T) {
	input := []model.Entry{
		withCategory("1", "Workshop"),
		withCategory("2", "Exhibition"),
		withCategory("3", "WORKSHOP"),
	}

	assert.Equal(t, []string{"1", "3"}, ids(FilterCategory(input, "workshop")))
	assert.Equal(t, []string{"1", "2", "3"}, ids(FilterCategory(input, "All")))
	assert.Equal(t, []string{"1", "2", "3"}, ids(FilterCategory(input, "all")))
	assert.Equal(t, []string{"1", "2", "3"}, ids(FilterCategory(input, "")))
	assert.Empty(t, FilterCategory(input, "Talks"))
}

func TestFilterCategory_ReturnsFreshSlice(t *testing.T) {
	input := []model.Entry{withCategory("1", "Workshop")}
	out := FilterCategory(input, "")
	out[0].Category = "changed"
	assert.Equal(t, "Workshop", input[0].Category)
}
