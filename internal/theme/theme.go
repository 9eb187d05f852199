// Package theme provides the colour themes used to paint demo frames.
package theme

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wethinkt/go-demoreel/internal/config"
)

//go:embed themes/*.json
var embeddedThemes embed.FS

// ErrInvalidColor is returned for colour strings that are not #rgb or #rrggbb.
var ErrInvalidColor = errors.New("invalid hex color")

// Theme defines every colour used by the frame renderer, as hex strings.
type Theme struct {
	// Metadata
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// Figure and panels
	Background      string `json:"background,omitempty"`
	SheetBackground string `json:"sheet_background,omitempty"`
	PanelFill       string `json:"panel_fill,omitempty"`
	PanelBorder     string `json:"panel_border,omitempty"`
	HeaderFill      string `json:"header_fill,omitempty"`
	TitleText       string `json:"title_text,omitempty"`
	SubtitleText    string `json:"subtitle_text,omitempty"`
	InputFill       string `json:"input_fill,omitempty"`
	InputBorder     string `json:"input_border,omitempty"`
	Accent          string `json:"accent,omitempty"` // send button, brand label, attachment name
	AccentText      string `json:"accent_text,omitempty"`

	// Chat bubbles
	Text             string `json:"text,omitempty"`
	UserBubble       string `json:"user_bubble,omitempty"`
	UserBubbleBorder string `json:"user_bubble_border,omitempty"`
	BotBubble        string `json:"bot_bubble,omitempty"`

	// Attachment pill
	AttachmentFill   string `json:"attachment_fill,omitempty"`
	AttachmentBorder string `json:"attachment_border,omitempty"`
	AttachmentLabel  string `json:"attachment_label,omitempty"`

	// Spreadsheet
	GridHeader       string `json:"grid_header,omitempty"`
	GridHeaderBorder string `json:"grid_header_border,omitempty"`
	GridLine         string `json:"grid_line,omitempty"`
	ColumnDivider    string `json:"column_divider,omitempty"`
	CellBackground   string `json:"cell_background,omitempty"`
	YearHeader       string `json:"year_header,omitempty"`
	YearHeaderText   string `json:"year_header_text,omitempty"`
	InputValue       string `json:"input_value,omitempty"` // assumption values
}

// ThemeMeta holds metadata about an available theme.
type ThemeMeta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`     // File path (empty for embedded)
	Embedded    bool   `json:"embedded"` // True if this is a built-in theme
}

// DefaultTheme returns the default light theme (embedded fallback).
func DefaultTheme() Theme {
	theme, _ := LoadEmbedded("light")
	return theme
}

// LoadEmbedded loads a theme from the embedded themes.
func LoadEmbedded(name string) (Theme, error) {
	data, err := embeddedThemes.ReadFile("themes/" + name + ".json")
	if err != nil {
		return Theme{}, fmt.Errorf("theme %q: %w", name, err)
	}

	var theme Theme
	if err := json.Unmarshal(data, &theme); err != nil {
		return Theme{}, err
	}

	return theme, nil
}

// ListEmbedded returns the names of all embedded themes.
func ListEmbedded() []string {
	entries, err := embeddedThemes.ReadDir("themes")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return names
}

// ThemesDir returns the path to the user themes directory.
func ThemesDir() (string, error) {
	configDir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "themes"), nil
}

// ListAvailable returns all available themes (embedded + user themes).
func ListAvailable() ([]ThemeMeta, error) {
	var themes []ThemeMeta

	for _, name := range ListEmbedded() {
		theme, err := LoadEmbedded(name)
		if err != nil {
			continue
		}
		themes = append(themes, ThemeMeta{
			Name:        name,
			Description: theme.Description,
			Embedded:    true,
		})
	}

	themesDir, err := ThemesDir()
	if err != nil {
		return themes, nil
	}
	entries, err := os.ReadDir(themesDir)
	if err != nil {
		return themes, nil
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		path := filepath.Join(themesDir, entry.Name())

		description := "User theme"
		if data, err := os.ReadFile(path); err == nil {
			var t Theme
			if json.Unmarshal(data, &t) == nil && t.Description != "" {
				description = t.Description
			}
		}

		themes = append(themes, ThemeMeta{
			Name:        name,
			Description: description,
			Path:        path,
		})
	}

	return themes, nil
}

// LoadByName loads a theme by name, checking user themes first, then embedded.
// User themes start from the default theme so they may override a subset of colours.
func LoadByName(name string) (Theme, error) {
	themesDir, err := ThemesDir()
	if err == nil {
		userPath := filepath.Join(themesDir, name+".json")
		if data, err := os.ReadFile(userPath); err == nil {
			theme := DefaultTheme()
			if err := json.Unmarshal(data, &theme); err != nil {
				return Theme{}, fmt.Errorf("theme %s: %w", userPath, err)
			}
			theme.Name = name
			return theme, nil
		}
	}

	return LoadEmbedded(name)
}

// Save writes a theme to the user themes directory.
func Save(name string, theme Theme) error {
	themesDir, err := ThemesDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(themesDir, 0755); err != nil {
		return err
	}

	theme.Name = name
	data, err := json.MarshalIndent(theme, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(themesDir, name+".json"), data, 0644)
}

// ParseHex parses "#rgb" or "#rrggbb" into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
