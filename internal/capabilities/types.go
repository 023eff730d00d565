package capabilities

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"eventdesk/internal/domain/services"
)

// FunctionSchema describes one callable function offered to the model
type FunctionSchema = services.FunctionSchema

// AssistantConfig holds the system prompt and default sampling parameters
type AssistantConfig struct {
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
	SystemPrompt string  `yaml:"system_prompt"`
}

// FunctionCatalog is the ordered list of functions in functions.yaml
type FunctionCatalog struct {
	Functions []FunctionSchema `yaml:"-"`
}

// UnmarshalYAML keeps the functions in file order
func (c *FunctionCatalog) UnmarshalYAML(node *yaml.Node) error {
	var m struct {
		Functions map[string]FunctionSchema `yaml:"functions"`
	}
	if err := node.Decode(&m); err != nil {
		return err
	}

	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value != "functions" {
			continue
		}
		fnNode := node.Content[i+1]
		// key, value, key, value...
		for j := 0; j < len(fnNode.Content); j += 2 {
			name := fnNode.Content[j].Value
			fn, ok := m.Functions[name]
			if !ok {
				return fmt.Errorf("function %q: bad definition", name)
			}
			fn.Name = name
			if fn.Parameters == nil {
				fn.Parameters = map[string]any{"type": "object", "properties": map[string]any{}}
			}
			c.Functions = append(c.Functions, fn)
		}
		break
	}
	return nil
}
