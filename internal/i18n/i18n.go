// Package i18n translates the mock UI chrome and the CLI summaries.
//
// Usage:
//
//	i18n.Init(i18n.ResolveLocale(cfg.Language))                 // at startup
//	i18n.T("ui.chat.subtitle", "AI Chat")                       // simple string
//	i18n.Tf("cmd.render.wrote", "Wrote %s", path)               // with fmt args
//	i18n.Tn("cmd.render.frames", "{{.Count}} frame", "{{.Count}} frames", n) // plural
package i18n

import (
	"embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	mu        sync.RWMutex
)

// Init loads the embedded locales and selects lang, falling back to
// English for missing languages and messages. Safe to call again.
func Init(lang string) {
	mu.Lock()
	defer mu.Unlock()

	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, _ := localeFS.ReadDir("locales")
	for _, e := range entries {
		_, _ = bundle.LoadMessageFileFS(localeFS, "locales/"+e.Name())
	}

	localizer = i18n.NewLocalizer(bundle, lang, "en")
}

// Available returns the language tags of the embedded locales, sorted.
func Available() []string {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil
	}
	var tags []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".toml"); ok {
			tags = append(tags, name)
		}
	}
	slices.Sort(tags)
	return tags
}

// T returns the localized string for id. defaultMsg is the English text
// and the fallback.
func T(id string, defaultMsg string) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	if l == nil {
		return defaultMsg
	}

	s, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			Other: defaultMsg,
		},
	})
	if err != nil {
		return defaultMsg
	}
	return s
}

// Tf returns the localized string with fmt.Sprintf-style formatting.
func Tf(id string, defaultMsg string, args ...any) string {
	return fmt.Sprintf(T(id, defaultMsg), args...)
}

// Tn returns the localized string with pluralization.
// one/other use go template syntax with {{.Count}}.
func Tn(id string, one string, other string, count int) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	data := map[string]int{"Count": count}
	if l == nil {
		return fallbackPlural(one, other, count)
	}

	s, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			One:   one,
			Other: other,
		},
		PluralCount:  count,
		TemplateData: data,
	})
	if err != nil {
		return fallbackPlural(one, other, count)
	}
	return s
}

func fallbackPlural(one, other string, count int) string {
	msg := other
	if count == 1 {
		msg = one
	}
	return strings.ReplaceAll(msg, "{{.Count}}", fmt.Sprint(count))
}

// ResolveLocale determines the active locale.
// Priority: DEMOREEL_LANG > configLang > LC_ALL > LANG > "en"
func ResolveLocale(configLang string) string {
	if v := os.Getenv("DEMOREEL_LANG"); v != "" {
		return v
	}
	if configLang != "" {
		return configLang
	}
	if v := os.Getenv("LC_ALL"); v != "" {
		return normalizeLocale(v)
	}
	if v := os.Getenv("LANG"); v != "" {
		return normalizeLocale(v)
	}
	return "en"
}

// normalizeLocale converts POSIX locale format to BCP 47.
// e.g., "de_DE.UTF-8" -> "de-DE"
func normalizeLocale(posix string) string {
	posix, _, _ = strings.Cut(posix, ".")
	return strings.ReplaceAll(posix, "_", "-")
}
