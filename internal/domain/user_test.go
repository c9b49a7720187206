package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressComplete(t *testing.T) {
	assert.True(t, Address{Street: "1 Main St", City: "Springfield"}.Complete())
	assert.False(t, Address{Street: "1 Main St"}.Complete())
	assert.False(t, Address{City: "Springfield"}.Complete())
	assert.False(t, Address{}.Complete())
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"user", "admin"} {
		got, ok := ParseRole(s)
		assert.True(t, ok, s)
		assert.Equal(t, Role(s), got)
	}

	for _, s := range []string{"", "owner", "Admin"} {
		_, ok := ParseRole(s)
		assert.False(t, ok, s)
	}
}
