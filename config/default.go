package config

import (
	"fmt"

	yaml3 "gopkg.in/yaml.v3"
)

var defaultConfig = `
path: "./snapshots"
proxyUrl: ""
apiKey: ""
debug: false
configPath: "."
validate:
  formats: []
  cases: []
  providers:
    openai: gpt-4o
    anthropic: claude-sonnet-4-20250514
    gemini: gemini-2.0-flash
    deepseek: deepseek-chat
  selectedProviders:
    - openai
    - anthropic
  defaultCases:
    - simple-chat
    - multi-turn
    - tool-call
  all: false
  stream: false
  verbose: false
  batchSize: 10
  apiTimeout: 30
  collectionsPath: "./collections.yml"
  collection: ""
  maxShownDiffs: 5
  volatileFields: []
anonymize:
  allStrings: false
  preserveKeys:
    - role
    - type
  prefix: anon
  output: ""
`

// New returns the default configuration.
func New() (*Config, error) {
	cfg := &Config{}
	if err := yaml3.Unmarshal([]byte(defaultConfig), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the default config: %v", err)
	}
	return cfg, nil
}
