package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LocaleMatching(t *testing.T) {
	tests := []struct {
		name     string
		locale   string
		expected string
	}{
		{name: "empty selects default", locale: "", expected: "en"},
		{name: "exact", locale: "de", expected: "de"},
		{name: "regional variant", locale: "fr-CA", expected: "fr"},
		{name: "extension style underscore", locale: "es_MX", expected: "es"},
		{name: "accept-language list", locale: "ja;q=0.9, it;q=0.8", expected: "it"},
		{name: "unknown falls back to default", locale: "ja", expected: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.locale)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.Locale())
		})
	}
}

func TestLookup(t *testing.T) {
	en, err := New("en")
	require.NoError(t, err)
	assert.Equal(t, "No overlay has been found on this website.", en.Lookup(NoOverlayAlertMessage))

	de, err := New("de")
	require.NoError(t, err)
	assert.Equal(t, "Auf dieser Webseite wurde kein Overlay gefunden.", de.Lookup(NoOverlayAlertMessage))
	assert.Equal(t, "Overlay Remover", de.Lookup(ExtensionName))

	assert.Equal(t, "missingMessage", de.Lookup("missingMessage"))
}

func TestLocales(t *testing.T) {
	locales, err := Locales()
	require.NoError(t, err)
	require.NotEmpty(t, locales)
	assert.Equal(t, DefaultLocale, locales[0])
	assert.ElementsMatch(t, []string{"en", "de", "es", "fr", "it"}, locales)

	// Every locale carries the alert message.
	for _, name := range locales {
		c, err := New(name)
		require.NoError(t, err)
		assert.NotEqual(t, NoOverlayAlertMessage, c.Lookup(NoOverlayAlertMessage), name)
	}
}
