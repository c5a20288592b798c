// Package i18n loads the translations used for localized error messages.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// NewBundle creates a bundle whose default language is defaultLang and loads
// every *.toml file of dir into it. Files are named <anything>.<lang>.toml,
// e.g. active.es.toml. An empty dir yields a bundle with no translations.
func NewBundle(defaultLang, dir string) (*i18n.Bundle, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parsing default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if dir == "" {
		return bundle, nil
	}

	if err := loadDir(bundle, dir); err != nil {
		return nil, err
	}

	return bundle, nil
}

func loadDir(bundle *i18n.Bundle, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading translations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		if _, err := bundle.LoadMessageFile(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("loading translations %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// Languages returns the languages with loaded translations, default first.
func Languages(bundle *i18n.Bundle) []string {
	tags := bundle.LanguageTags()

	langs := make([]string, 0, len(tags))
	for _, tag := range tags {
		langs = append(langs, tag.String())
	}

	return langs
}
