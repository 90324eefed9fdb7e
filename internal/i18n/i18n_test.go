package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestEmbeddedCatalogsCoverBaseLocale(t *testing.T) {
	bundle := Default()
	require.NotNil(t, bundle)
	assert.Equal(t, []string{"en-US", "fr-FR"}, bundle.Locales())
	for _, locale := range bundle.Locales() {
		assert.Empty(t, bundle.MissingKeys(locale), "locale %s is missing keys", locale)
	}
}

func TestLabelTranslates(t *testing.T) {
	en := Printer(language.MustParse("en-US"))
	fr := Printer(language.MustParse("fr-FR"))
	assert.Equal(t, "Validate", Label(en, "action.validated"))
	assert.Equal(t, "Valider", Label(fr, "action.validated"))
	assert.Equal(t, "Brouillon", Label(fr, "status.draft"))
	assert.Equal(t, "Validate", Label(nil, "action.validated"))
}

func TestLabelFallsBackToKey(t *testing.T) {
	en := Printer(DefaultTag())
	assert.Equal(t, "Send reminder", Label(en, "Send reminder"))
	assert.Equal(t, "Pay 10% deposit", Label(en, "Pay 10% deposit"))
	assert.Equal(t, "100%", Label(Printer(language.MustParse("fr-FR")), "100%"))
}

func TestBaseLanguageResolves(t *testing.T) {
	fr := Printer(language.French)
	assert.Equal(t, "Archiver", Label(fr, "action.archive"))
}

func TestMatchLocale(t *testing.T) {
	cases := map[string]string{
		"":                "en-US",
		"fr":              "fr-FR",
		"fr-CA":           "fr-FR",
		"en-GB":           "en-US",
		"de-DE":           "en-US",
		"fr-FR,en;q=0.5":  "fr-FR",
		"not a real lang": "en-US",
	}
	for input, want := range cases {
		assert.Equal(t, want, MatchLocale(input).String(), "MatchLocale(%q)", input)
	}
}

func TestParseTag(t *testing.T) {
	tag, ok := ParseTag("fr-FR")
	assert.True(t, ok)
	assert.Equal(t, "fr-FR", tag.String())
	_, ok = ParseTag("de")
	assert.False(t, ok)
	_, ok = ParseTag("%%")
	assert.False(t, ok)
}

func TestMessageFallsBackToBase(t *testing.T) {
	bundle, err := LoadFromFS(fstest.MapFS{
		"locales/en-US/core.yaml": {Data: []byte("locale: en-US\nnamespace: core\nmessages:\n  a: \"A\"\n  b: \"B\"\n")},
		"locales/fr-FR/core.yaml": {Data: []byte("locale: fr-FR\nnamespace: core\nmessages:\n  a: \"À\"\n")},
	})
	require.NoError(t, err)
	value, ok := bundle.Message("fr-FR", "b")
	assert.True(t, ok)
	assert.Equal(t, "B", value)
	assert.Equal(t, []string{"b"}, bundle.MissingKeys("fr-FR"))
}

func TestLoadFromFSValidatesLayout(t *testing.T) {
	_, err := LoadFromFS(fstest.MapFS{
		"locales/en-US/core.yaml": {Data: []byte("locale: fr-FR\nnamespace: core\nmessages:\n  a: \"A\"\n")},
	})
	assert.Error(t, err)

	_, err = LoadFromFS(fstest.MapFS{
		"locales/fr-FR/core.yaml": {Data: []byte("locale: fr-FR\nnamespace: core\nmessages:\n  a: \"A\"\n")},
	})
	assert.Error(t, err, "base locale must be present")

	_, err = LoadFromFS(fstest.MapFS{
		"locales/en-US/core.yaml":    {Data: []byte("locale: en-US\nnamespace: core\nmessages:\n  a: \"A\"\n")},
		"locales/en-US/actions.yaml": {Data: []byte("locale: en-US\nnamespace: actions\nmessages:\n  a: \"again\"\n")},
	})
	assert.Error(t, err, "duplicate keys across namespaces")
}
