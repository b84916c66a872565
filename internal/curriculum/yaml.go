package curriculum

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlDocument is the YAML form of a curriculum:
//
//	units:
//	  - id: MAT101
//	    label: Cálculo I
//	    group: Semestre 1
//	    unlocks: MAT102, FIS101
//
// unlocks may also be written as a sequence.
type yamlDocument struct {
	Units []yamlUnit `yaml:"units"`
}

type yamlUnit struct {
	ID      string      `yaml:"id"`
	Label   string      `yaml:"label"`
	Group   string      `yaml:"group"`
	Unlocks unlockField `yaml:"unlocks"`
}

// unlockField accepts either a comma-separated string or a list of IDs.
type unlockField string

func (u *unlockField) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*u = unlockField(node.Value)
		return nil
	case yaml.SequenceNode:
		var ids []string
		if err := node.Decode(&ids); err != nil {
			return err
		}
		*u = unlockField(strings.Join(ids, ","))
		return nil
	default:
		return fmt.Errorf("line %d: unlocks must be a string or a list", node.Line)
	}
}

// ParseYAML reads unit declarations from a YAML document.
func ParseYAML(r io.Reader) ([]Declaration, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	decls := make([]Declaration, 0, len(doc.Units))
	for i, u := range doc.Units {
		id := strings.TrimSpace(u.ID)
		if id == "" {
			return nil, fmt.Errorf("unit %d: missing id", i)
		}
		decls = append(decls, Declaration{
			ID:      id,
			Label:   strings.TrimSpace(u.Label),
			Group:   strings.TrimSpace(u.Group),
			Unlocks: string(u.Unlocks),
		})
	}
	return decls, nil
}
