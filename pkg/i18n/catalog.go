// Package i18n provides the user-facing strings of the overlay remover.
//
// Messages are stored in the browser-extension messages.json layout, one
// directory per locale, and embedded in the binary. A Catalog resolves a
// message id for the best locale match, falling back to English and then
// to the id itself.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Message identifiers.
const (
	ExtensionName         = "extensionName"
	RunActionTitle        = "runActionTitle"
	NoOverlayAlertMessage = "noOverlayAlertMessage"
)

// DefaultLocale is used when no requested locale matches.
const DefaultLocale = "en"

//go:embed locales/*/messages.json
var localeFS embed.FS

// entry is one record of a messages.json file.
type entry struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

var (
	bundleOnce sync.Once
	bundle     map[string]map[string]entry
	bundleErr  error
	tags       []language.Tag
	tagNames   []string
)

// loadBundle reads every embedded locale once. The default locale is kept
// first so the matcher falls back to it.
func loadBundle() error {
	bundleOnce.Do(func() {
		dirs, err := localeFS.ReadDir("locales")
		if err != nil {
			bundleErr = fmt.Errorf("failed to list locales: %w", err)
			return
		}

		bundle = make(map[string]map[string]entry, len(dirs))
		names := make([]string, 0, len(dirs))
		for _, d := range dirs {
			if !d.IsDir() {
				continue
			}
			data, err := localeFS.ReadFile(path.Join("locales", d.Name(), "messages.json"))
			if err != nil {
				bundleErr = fmt.Errorf("failed to read locale %s: %w", d.Name(), err)
				return
			}
			messages := make(map[string]entry)
			if err := json.Unmarshal(data, &messages); err != nil {
				bundleErr = fmt.Errorf("failed to decode locale %s: %w", d.Name(), err)
				return
			}
			bundle[d.Name()] = messages
			names = append(names, d.Name())
		}

		sort.Slice(names, func(i, j int) bool {
			if names[i] == DefaultLocale || names[j] == DefaultLocale {
				return names[i] == DefaultLocale
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			tags = append(tags, language.Make(strings.ReplaceAll(name, "_", "-")))
		}
		tagNames = names
	})
	return bundleErr
}

// Catalog resolves messages for one locale.
type Catalog struct {
	locale   string
	messages map[string]entry
	fallback map[string]entry
}

// New returns a catalog for the locale that best matches the requested
// one ("de", "fr-CA", "pt_BR", an Accept-Language list). An empty or
// unknown locale selects English.
func New(locale string) (*Catalog, error) {
	if err := loadBundle(); err != nil {
		return nil, err
	}

	chosen := DefaultLocale
	if locale != "" {
		matcher := language.NewMatcher(tags)
		_, index := language.MatchStrings(matcher, strings.ReplaceAll(locale, "_", "-"))
		chosen = tagNames[index]
	}

	return &Catalog{
		locale:   chosen,
		messages: bundle[chosen],
		fallback: bundle[DefaultLocale],
	}, nil
}

// Locale returns the locale directory the catalog resolved to.
func (c *Catalog) Locale() string {
	return c.locale
}

// Lookup returns the message for id.
func (c *Catalog) Lookup(id string) string {
	if e, ok := c.messages[id]; ok && e.Message != "" {
		return e.Message
	}
	if e, ok := c.fallback[id]; ok && e.Message != "" {
		return e.Message
	}
	return id
}

// Locales returns the embedded locale names, default first.
func Locales() ([]string, error) {
	if err := loadBundle(); err != nil {
		return nil, err
	}
	out := make([]string, len(tagNames))
	copy(out, tagNames)
	return out, nil
}
