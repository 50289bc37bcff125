package tableau

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("tableau: invalid config")

// Config holds the composer settings loaded from a YAML file.
type Config struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// Islands is the island selector order, by name.
	Islands   []string `yaml:"islands"`
	Container string   `yaml:"container"`

	// BackgroundStyle is applied when a background is set without a style.
	BackgroundStyle map[string]string `yaml:"background_style"`

	FadeDuration  float64 `yaml:"fade_duration"`   // seconds
	EditOpacity   float64 `yaml:"edit_opacity"`    // 0..1
	ItemMaxHeight float64 `yaml:"item_max_height"` // vh
	DragDeadZone  float64 `yaml:"drag_dead_zone"`  // pixels

	ExportDir     string `yaml:"export_dir"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	islands := make([]string, 0, len(islandNames))
	for _, k := range IslandKinds() {
		islands = append(islands, k.String())
	}
	return Config{
		Title:           "tableau",
		Width:           1280,
		Height:          720,
		Islands:         islands,
		Container:       DefaultContainer,
		BackgroundStyle: DefaultBackgroundStyle(),
		FadeDuration:    defaultFadeDuration,
		EditOpacity:     defaultEditOpacity,
		ItemMaxHeight:   DefaultMaxHeight,
		DragDeadZone:    0,
		ExportDir:       ".",
		ScreenshotDir:   "screenshots",
	}
}

// LoadConfig reads a YAML config file. Omitted fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if len(c.Islands) == 0 {
		return fmt.Errorf("%w: no islands", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Islands))
	for _, name := range c.Islands {
		if _, err := ParseIslandKind(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if seen[name] {
			return fmt.Errorf("%w: island %q listed twice", ErrInvalidConfig, name)
		}
		seen[name] = true
	}
	style := BackgroundStyle{}
	for prop, v := range c.BackgroundStyle {
		if err := style.Set(prop, v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if c.FadeDuration < 0 {
		return fmt.Errorf("%w: negative fade_duration", ErrInvalidConfig)
	}
	if c.EditOpacity <= 0 || c.EditOpacity > 1 {
		return fmt.Errorf("%w: edit_opacity %v outside (0, 1]", ErrInvalidConfig, c.EditOpacity)
	}
	if c.ItemMaxHeight < 0 {
		return fmt.Errorf("%w: negative item_max_height", ErrInvalidConfig)
	}
	if c.DragDeadZone < 0 {
		return fmt.Errorf("%w: negative drag_dead_zone", ErrInvalidConfig)
	}
	return nil
}

// IslandOrder returns the configured island kinds. Unknown names are skipped.
func (c Config) IslandOrder() []IslandKind {
	out := make([]IslandKind, 0, len(c.Islands))
	for _, name := range c.Islands {
		if k, err := ParseIslandKind(name); err == nil {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return IslandKinds()
	}
	return out
}

// DefaultStyle returns a copy of the configured default background style.
func (c Config) DefaultStyle() BackgroundStyle {
	if len(c.BackgroundStyle) == 0 {
		return DefaultBackgroundStyle()
	}
	return BackgroundStyle(c.BackgroundStyle).Clone()
}

func (c Config) itemOptions() ItemOptions {
	fade := float32(c.FadeDuration)
	if c.FadeDuration == 0 {
		fade = -1
	}
	maxH := c.ItemMaxHeight
	if maxH == 0 {
		maxH = -1
	}
	return ItemOptions{
		Container:    c.Container,
		MaxHeight:    maxH,
		FadeDuration: fade,
		EditOpacity:  c.EditOpacity,
	}
}
