package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryIsLight(t *testing.T) {
	tests := []struct {
		color string
		light bool
	}{
		{"#00E676", true},
		{"#FF5252", true},
		{"#7B61FF", false},
		{"#121212", false},
		{"FFFFFF", true},
		{"#FFF", false},
		{"not-a-color", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			assert.Equal(t, tt.light, Category{Color: tt.color}.IsLight())
		})
	}
}

func TestCategoryIndexMatchesRawName(t *testing.T) {
	index := NewCategoryIndex([]Category{
		{ID: "1", Name: "Food", Type: Expense, Color: "#FF5252"},
		{ID: "2", Name: "Food", Type: Income, Color: "#00E676"},
		{ID: "3", Name: "Salary", Type: Income},
	})

	c, ok := index.Lookup("Food")
	assert.True(t, ok)
	assert.Equal(t, "1", c.ID, "first registered category wins")

	_, ok = index.Lookup("food")
	assert.False(t, ok, "lookup is case-sensitive")

	_, ok = index.Lookup("Food ")
	assert.False(t, ok, "lookup does not trim")

	_, ok = index.Lookup("Rent")
	assert.False(t, ok)
}
