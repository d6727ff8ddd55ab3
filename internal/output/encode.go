package output

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/procman-io/procman/pkg/model"
)

// ToJSON renders the listing as indented JSON.
func ToJSON(procs []model.Process) (string, error) {
	data, err := json.MarshalIndent(procs, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToYAML renders the listing as YAML.
func ToYAML(procs []model.Process) (string, error) {
	data, err := yaml.Marshal(procs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
