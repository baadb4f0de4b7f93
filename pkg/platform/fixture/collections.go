package fixture

import (
	"fmt"
	"os"

	yaml3 "gopkg.in/yaml.v3"
)

// LoadCollections reads a yaml file mapping collection names to case lists:
//
//	smoke:
//	  - simple-chat
//	regressions:
//	  - multi-turn
//	  - tool-call
func LoadCollections(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the collections file %s: %v", path, err)
	}
	collections := map[string][]string{}
	if err := yaml3.Unmarshal(data, &collections); err != nil {
		return nil, fmt.Errorf("collections file %s is not valid yaml: %v", path, err)
	}
	return collections, nil
}
