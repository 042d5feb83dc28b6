package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CondaSpec is a conda environment file, either the declared spec or the
// output of `conda env export`.
type CondaSpec struct {
	Name         string            `yaml:"name"`
	Channels     []string          `yaml:"channels,omitempty"`
	Dependencies []CondaDependency `yaml:"dependencies"`
	Prefix       string            `yaml:"prefix,omitempty"`
}

// CondaDependency is either a plain conda package string or a nested pip
// block.
type CondaDependency struct {
	Package string
	Pip     []string
}

func (d *CondaDependency) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&d.Package)
	case yaml.MappingNode:
		var block struct {
			Pip []string `yaml:"pip"`
		}
		if err := node.Decode(&block); err != nil {
			return err
		}
		d.Pip = block.Pip
		return nil
	default:
		return fmt.Errorf("unsupported conda dependency at line %d", node.Line)
	}
}

func (d CondaDependency) MarshalYAML() (interface{}, error) {
	if d.Pip != nil {
		return map[string][]string{"pip": d.Pip}, nil
	}
	return d.Package, nil
}

type CondaEnvList struct {
	Envs []string `json:"envs"`
}

type PackageIssue struct {
	Source  PackageSource
	Package string
	Reason  string
}
