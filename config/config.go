// Package config provides configuration structures for the conformance CLI.
package config

type Config struct {
	// Path is the local directory holding golden snapshots.
	Path       string    `json:"path" yaml:"path" mapstructure:"path"`
	ProxyURL   string    `json:"proxyUrl" yaml:"proxyUrl" mapstructure:"proxyUrl"`
	APIKey     string    `json:"apiKey" yaml:"apiKey" mapstructure:"apiKey"`
	Debug      bool      `json:"debug" yaml:"debug" mapstructure:"debug"`
	ConfigPath string    `json:"configPath" yaml:"configPath" mapstructure:"configPath"`
	Validate   Validate  `json:"validate" yaml:"validate" mapstructure:"validate"`
	Anonymize  Anonymize `json:"anonymize" yaml:"anonymize" mapstructure:"anonymize"`
}

type Validate struct {
	Formats []string `json:"formats" yaml:"formats" mapstructure:"formats"`
	Cases   []string `json:"cases" yaml:"cases" mapstructure:"cases"`
	// Providers maps a provider alias to the canonical model name
	// substituted into provider-agnostic payloads.
	Providers         map[string]string `json:"providers" yaml:"providers" mapstructure:"providers"`
	SelectedProviders []string          `json:"selectedProviders" yaml:"selectedProviders" mapstructure:"selectedProviders"`
	DefaultCases      []string          `json:"defaultCases" yaml:"defaultCases" mapstructure:"defaultCases"`
	All               bool              `json:"all" yaml:"all" mapstructure:"all"`
	Stream            bool              `json:"stream" yaml:"stream" mapstructure:"stream"`
	Verbose           bool              `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	// BatchSize bounds how many (case, provider) pairs run concurrently;
	// batches execute strictly in sequence.
	BatchSize int `json:"batchSize" yaml:"batchSize" mapstructure:"batchSize"`
	// APITimeout caps one executor round trip, in seconds.
	APITimeout uint64 `json:"apiTimeout" yaml:"apiTimeout" mapstructure:"apiTimeout"`
	// CollectionsPath points to a yaml file mapping collection names to
	// case lists.
	CollectionsPath string `json:"collectionsPath" yaml:"collectionsPath" mapstructure:"collectionsPath"`
	// Collection selects one named case list from the collections file.
	Collection string `json:"collection" yaml:"collection" mapstructure:"collection"`
	// MaxShownDiffs caps the diff rows printed per failing pair unless
	// verbose output is requested.
	MaxShownDiffs int `json:"maxShownDiffs" yaml:"maxShownDiffs" mapstructure:"maxShownDiffs"`
	// VolatileFields extends the classifier's known-volatile allow-list.
	VolatileFields []string `json:"volatileFields" yaml:"volatileFields" mapstructure:"volatileFields"`
}

type Anonymize struct {
	AllStrings   bool     `json:"allStrings" yaml:"allStrings" mapstructure:"allStrings"`
	PreserveKeys []string `json:"preserveKeys" yaml:"preserveKeys" mapstructure:"preserveKeys"`
	Prefix       string   `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
	Output       string   `json:"output" yaml:"output" mapstructure:"output"`
}
