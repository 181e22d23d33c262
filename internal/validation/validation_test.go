package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestValidTenantSlug(t *testing.T) {
	for _, s := range []string{"a", "trattoria", "la-trattoria", "bar-22", strings.Repeat("a", 64)} {
		assert.True(t, ValidTenantSlug(s), s)
	}
	for _, s := range []string{"", "-lead", "trail-", "Upper", "with space", "semi;colon", "dot.ted", strings.Repeat("a", 65)} {
		assert.False(t, ValidTenantSlug(s), s)
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("ana@pos.test"))
	assert.False(t, ValidEmail("ana"))
	assert.False(t, ValidEmail("ana@pos"))
	assert.False(t, ValidEmail("a na@pos.test"))
}

func TestMaskIdentifier(t *testing.T) {
	assert.Equal(t, "a…@t….com", MaskIdentifier("Ana.Perez@Trattoria.com"))
	assert.Equal(t, "c…1", MaskIdentifier("cajero01"))
	assert.Equal(t, "***", MaskIdentifier("bo"))
	assert.Equal(t, "", MaskIdentifier("  "))
}

func TestMaskIdentifier_MultiByte(t *testing.T) {
	for in, want := range map[string]string{
		"ñandu@x.com":      "ñ…@x.com",
		"ana@ñandú.com.ar": "a…@ñ….com.ar",
		"ñoño":             "ñ…o",
		"éè@ü.de":          "é…@ü.de",
		"josé":             "j…é",
	} {
		got := MaskIdentifier(in)
		assert.True(t, utf8.ValidString(got), in)
		assert.Equal(t, want, got, in)
	}
}
