package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/axiomlogic/axiom/internal/model"
)

// Playbook is a YAML file of additional scenario specs:
//
//	scenarios:
//	  - name: Acquisition during cliff
//	    description: Company is acquired before the vesting cliff
//	    trigger_event: Company is acquired twelve months into the vesting schedule
//	    expected_behavior: Vesting accelerates on change of control
//	    red_flags:
//	      - no acceleration
type playbook struct {
	Scenarios []model.ScenarioSpec `yaml:"scenarios"`
}

// LoadPlaybook reads scenario specs from a YAML playbook file. Loaded
// specs are treated as templates.
func LoadPlaybook(path string) ([]model.ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playbook: %w", err)
	}

	var pb playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, fmt.Errorf("parse playbook %s: %w", path, err)
	}

	for i := range pb.Scenarios {
		s := &pb.Scenarios[i]
		if s.Name == "" || s.TriggerEvent == "" {
			return nil, fmt.Errorf("playbook %s: scenario %d missing name or trigger_event", path, i+1)
		}
		s.Source = model.SourceTemplate
	}
	return pb.Scenarios, nil
}
