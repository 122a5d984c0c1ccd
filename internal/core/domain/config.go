package domain

// SourceSettings maps each ingestor to the path it discovers from.
type SourceSettings struct {
	// Claude is the directory holding Claude JSON exports.
	Claude string `toml:"claude"`

	// ChatGPT is the directory holding ChatGPT JSON exports.
	ChatGPT string `toml:"chatgpt"`

	// Discord is the root of a Discord data export.
	Discord string `toml:"discord"`

	// Markdown is a markdown file or directory of existing notes.
	Markdown string `toml:"markdown"`
}

// LinkingSettings tunes the fragment linking stage.
type LinkingSettings struct {
	// TemporalWindowHours bounds temporal links.
	TemporalWindowHours int `toml:"temporal_window_hours"`

	// ThreadMinFragments is the minimum cluster size for a thread.
	ThreadMinFragments int `toml:"thread_min_fragments"`

	// EddyMinFragments is the minimum cluster size for an eddy.
	EddyMinFragments int `toml:"eddy_min_fragments"`
}

// ClassificationSettings tunes the classifier stage.
type ClassificationSettings struct {
	// ConfidenceThreshold is the minimum confidence to accept a label
	// without review.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`

	// AutoClassifySources lists ingestor names classified automatically.
	AutoClassifySources []string `toml:"auto_classify_sources"`
}

// RedactionSettings tunes the sensitive-data scanner.
type RedactionSettings struct {
	// Enabled gates the scan stage of the pipeline.
	Enabled bool `toml:"enabled"`

	// DryRun reports findings without rewriting files.
	DryRun bool `toml:"dry_run"`

	// CustomPatterns maps pattern names to regular expressions. A name
	// colliding with a built-in pattern overrides it.
	CustomPatterns map[string]string `toml:"custom_patterns"`

	// FalsePositiveAllowlist lists exact strings to never flag.
	FalsePositiveAllowlist []string `toml:"false_positive_allowlist"`
}

// Config holds all application configuration.
type Config struct {
	// VaultPath is the root of the markdown vault.
	VaultPath string `toml:"vault_path"`

	// Timezone is the canonical IANA zone for fragment timestamps.
	Timezone string `toml:"timezone"`

	// Sources configures where each ingestor discovers from.
	Sources SourceSettings `toml:"sources"`

	// Linking tunes the linking stage.
	Linking LinkingSettings `toml:"linking"`

	// Classification tunes the classifier stage.
	Classification ClassificationSettings `toml:"classification"`

	// Redaction tunes the sensitive-data scanner.
	Redaction RedactionSettings `toml:"redaction"`
}

// DefaultConfig returns configuration with sensible defaults.
// Source paths are left empty; users set them via config init.
func DefaultConfig() Config {
	return Config{
		Timezone: "America/Los_Angeles",
		Linking: LinkingSettings{
			TemporalWindowHours: 168,
			ThreadMinFragments:  3,
			EddyMinFragments:    5,
		},
		Classification: ClassificationSettings{
			ConfidenceThreshold: 0.7,
			AutoClassifySources: []string{"chatgpt", "claude", "markdown"},
		},
		Redaction: RedactionSettings{
			Enabled: true,
			DryRun:  true,
		},
	}
}

// SourcePaths returns the configured ingestor paths keyed by ingestor
// name, omitting empty entries.
func (c Config) SourcePaths() map[string]string {
	paths := make(map[string]string, 4)
	for name, p := range map[string]string{
		"claude":   c.Sources.Claude,
		"chatgpt":  c.Sources.ChatGPT,
		"discord":  c.Sources.Discord,
		"markdown": c.Sources.Markdown,
	} {
		if p != "" {
			paths[name] = p
		}
	}
	return paths
}
