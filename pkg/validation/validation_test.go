package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("USER@EXAMPLE.COM"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("user@"))
	assert.False(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Str0ng!pass"))
	assert.False(t, ValidatePassword("short1!"))
	assert.False(t, ValidatePassword("alllowercase1!"))
	assert.False(t, ValidatePassword("NOUPPER?no1"))
	assert.False(t, ValidatePassword("NoSpecial123"))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("anime_fan-42"))
	assert.False(t, ValidateUsername("ab"))
	assert.False(t, ValidateUsername(strings.Repeat("a", 31)))
	assert.False(t, ValidateUsername("bad name"))
}

func TestValidateDescription(t *testing.T) {
	assert.True(t, ValidateDescription("A red scarf"))
	assert.False(t, ValidateDescription(""))
	assert.False(t, ValidateDescription("   "))
	assert.True(t, ValidateDescription(strings.Repeat("x", MaxDescriptionLength)))
	assert.False(t, ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)))
}

func TestValidateOptionalDescription(t *testing.T) {
	assert.True(t, ValidateOptionalDescription(nil))

	short := "glows in the dark"
	assert.True(t, ValidateOptionalDescription(&short))

	long := strings.Repeat("x", MaxDescriptionLength+1)
	assert.False(t, ValidateOptionalDescription(&long))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
}
