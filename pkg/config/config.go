package config

// Config is Nexus's on-disk configuration: theme, tick interval, and
// terminal-size overrides. Config loading is a named Non-goal collaborator
// of the shell/agent/layout modules — this stays deliberately small and
// never carries shell or command semantics (spec AMBIENT STACK
// "Configuration").
type Config struct {
	General GeneralConfig `toml:"general"`
	Theme   ThemeConfig   `toml:"theme"`
	Layout  LayoutConfig  `toml:"layout"`
	Shell   ShellConfig   `toml:"shell"`
	Image   ImageConfig   `toml:"image"`
}

// GeneralConfig holds process-wide ambient settings.
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`
	TickEvery Duration `toml:"tick_every"`
}

// ThemeConfig selects the active color theme by name (pkg/theme.Get).
type ThemeConfig struct {
	Name string `toml:"name"`
}

// LayoutConfig selects the named panel split preset (see presets.go) and
// an optional fixed terminal size override, used for headless/CI runs
// where no real tty is attached.
type LayoutConfig struct {
	Preset       string `toml:"preset"`
	WidthOverride  int  `toml:"width_override"`
	HeightOverride int  `toml:"height_override"`
}

// ShellConfig holds the shell widget's ambient settings.
type ShellConfig struct {
	DefaultShell string `toml:"default_shell"`
	ScrollbackBlocks int `toml:"scrollback_blocks"`
}

// ImageConfig configures pkg/image.Renderer's protocol selection and cache
// sizing for rendering Value::Media content into the pipeline's image atlas.
type ImageConfig struct {
	// Protocol overrides auto-detection ("kitty", "sixel", "iterm2"). Empty
	// or "auto" lets terminal.SelectProtocolWithOverride decide.
	Protocol string `toml:"protocol"`
	// MaxCacheSizeMB bounds the in-memory and on-disk image caches.
	MaxCacheSizeMB int `toml:"max_cache_size_mb"`
	// CacheDir is the on-disk directory pkg/image.Renderer persists rendered
	// escape sequences to via pkg/cache.Store, so a re-rendered image
	// (different process, same terminal/size/content) skips re-encoding.
	// Empty disables the disk layer and keeps only the in-memory cache.
	CacheDir string `toml:"cache_dir"`
}
