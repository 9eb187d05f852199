package scenario

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed presets/*.toml
var presetFS embed.FS

// ErrUnknownScenario is returned when a preset name does not exist.
var ErrUnknownScenario = errors.New("unknown scenario")

// Presets returns the names of the embedded scenarios, sorted.
func Presets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
		}
	}
	slices.Sort(names)
	return names
}

// PresetSource returns the raw TOML of an embedded scenario.
func PresetSource(name string) ([]byte, error) {
	data, err := presetFS.ReadFile("presets/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScenario, name, strings.Join(Presets(), ", "))
	}
	return data, nil
}

// LoadPreset decodes and validates an embedded scenario.
func LoadPreset(name string) (Scenario, error) {
	data, err := PresetSource(name)
	if err != nil {
		return Scenario{}, err
	}
	sc, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("preset %s: %w", name, err)
	}
	return sc, nil
}

// Load decodes and validates a scenario file. Relative attachment icon paths
// resolve against the file's directory.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := parse(data, filepath.Dir(path))
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	if sc.Name == Default().Name {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Resolve loads a preset by name, or a file when ref looks like a path.
func Resolve(ref string) (Scenario, error) {
	if strings.HasSuffix(ref, ".toml") || strings.ContainsRune(ref, os.PathSeparator) {
		return Load(ref)
	}
	return LoadPreset(ref)
}

// Parse decodes TOML over the defaults and validates the result. Relative
// attachment icon paths are checked against the working directory.
func Parse(data []byte) (Scenario, error) {
	return parse(data, "")
}

// parse rebases a relative attachment icon onto dir before validating.
func parse(data []byte, dir string) (Scenario, error) {
	sc := Default()
	md, err := toml.Decode(string(data), &sc)
	if err != nil {
		return Scenario{}, fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Scenario{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}

	// Tables and arrays of tables replace the defaults instead of merging
	// into them.
	if md.IsDefined("sheet", "reference_colors") || md.IsDefined("sheet", "assumptions") {
		var probe struct {
			Sheet struct {
				ReferenceColors map[string]string `toml:"reference_colors"`
				Assumptions     []Row             `toml:"assumptions"`
			} `toml:"sheet"`
		}
		if _, err := toml.Decode(string(data), &probe); err != nil {
			return Scenario{}, fmt.Errorf("decode: %w", err)
		}
		if md.IsDefined("sheet", "reference_colors") {
			sc.Sheet.ReferenceColors = probe.Sheet.ReferenceColors
		}
		if md.IsDefined("sheet", "assumptions") {
			sc.Sheet.Assumptions = probe.Sheet.Assumptions
		}
	}

	if dir != "" && sc.Chat.AttachmentIcon != "" && !filepath.IsAbs(sc.Chat.AttachmentIcon) {
		sc.Chat.AttachmentIcon = filepath.Join(dir, sc.Chat.AttachmentIcon)
	}

	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Encode renders the scenario back to TOML.
func (s Scenario) Encode() ([]byte, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(s); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
