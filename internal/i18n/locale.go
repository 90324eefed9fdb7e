package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supportedTags = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("fr-FR"),
}

var matcher = language.NewMatcher(supportedTags)

// Supported returns the locales the embedded catalogs cover, base locale first.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supportedTags...)
}

// DefaultTag returns the base locale tag.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// ParseTag parses a locale string and reports whether it is supported exactly.
func ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Und, false
	}
	for _, candidate := range supportedTags {
		if candidate == tag {
			return candidate, true
		}
	}
	return tag, false
}

// MatchLocale returns the closest supported locale for value. Blank or
// unparsable input yields the base locale.
func MatchLocale(value string) language.Tag {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag()
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return DefaultTag()
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[idx]
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Label renders a catalog key. Text that is not a catalog key is returned
// unchanged, which lets configured actions carry literal labels.
func Label(p *message.Printer, key string) string {
	key = strings.TrimSpace(key)
	if _, ok := Default().Message(BaseLocale, key); !ok {
		return key
	}
	if p == nil {
		p = Printer(DefaultTag())
	}
	return p.Sprintf(key)
}
