package capabilities

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry serves the function catalog and assistant settings embedded in the binary.
// It is read-only after NewRegistry returns.
type Registry struct {
	functions []FunctionSchema
	byName    map[string]int
	assistant AssistantConfig
}

// NewRegistry loads the embedded YAML files
func NewRegistry() (*Registry, error) {
	var catalog FunctionCatalog
	if err := loadFile("config/functions.yaml", &catalog); err != nil {
		return nil, fmt.Errorf("failed to load function catalog: %w", err)
	}

	var assistant AssistantConfig
	if err := loadFile("config/assistant.yaml", &assistant); err != nil {
		return nil, fmt.Errorf("failed to load assistant config: %w", err)
	}
	assistant.SystemPrompt = strings.TrimSpace(assistant.SystemPrompt)

	r := &Registry{
		functions: catalog.Functions,
		byName:    make(map[string]int, len(catalog.Functions)),
		assistant: assistant,
	}
	for i, fn := range catalog.Functions {
		if _, dup := r.byName[fn.Name]; dup {
			return nil, fmt.Errorf("duplicate function %q", fn.Name)
		}
		r.byName[fn.Name] = i
	}
	return r, nil
}

func loadFile(name string, out any) error {
	data, err := configFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return nil
}

// Functions returns every schema in catalog order
func (r *Registry) Functions() []FunctionSchema {
	out := make([]FunctionSchema, len(r.functions))
	copy(out, r.functions)
	return out
}

// Function looks up one schema by name
func (r *Registry) Function(name string) (FunctionSchema, bool) {
	i, ok := r.byName[name]
	if !ok {
		return FunctionSchema{}, false
	}
	return r.functions[i], true
}

// SystemPrompt returns the assistant instructions
func (r *Registry) SystemPrompt() string {
	return r.assistant.SystemPrompt
}

// Assistant returns the assistant defaults
func (r *Registry) Assistant() AssistantConfig {
	return r.assistant
}
