package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("Sweets").Valid())
	assert.False(t, Category("vegetables").Valid(), "categories are case-sensitive")
}

func TestInStock(t *testing.T) {
	p := Product{Quantity: 10}
	assert.True(t, p.InStock(10))
	assert.True(t, p.InStock(1))
	assert.False(t, p.InStock(11))
}
