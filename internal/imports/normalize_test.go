package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "a-1", normalizeKey(" A-1 "))
	assert.Equal(t, "dell xps", normalizeKey("Dell XPS"))
	assert.Equal(t, "", normalizeKey("   "))
}

func TestSerialValueSentinels(t *testing.T) {
	assert.Nil(t, serialValue(""))
	assert.Nil(t, serialValue("  "))
	assert.Nil(t, serialValue("-"))
	assert.Nil(t, serialValue("n/a"))
	assert.Nil(t, serialValue("N/A"))

	got := serialValue(" SN-123 ")
	assert.NotNil(t, got)
	assert.Equal(t, "SN-123", *got)
}

func TestOptionalValue(t *testing.T) {
	assert.Nil(t, optionalValue("  "))

	got := optionalValue(" good ")
	assert.NotNil(t, got)
	assert.Equal(t, "good", *got)
}
