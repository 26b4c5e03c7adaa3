package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"activities-api/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed default_activities.json
var defaultActivities []byte

// LoadRegistry reads and validates the seed catalogue at path.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed catalogue %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOrDefault loads path, or the embedded catalogue when path is empty.
func LoadOrDefault(path string) (*ActivityRegistry, error) {
	if path == "" {
		return Default()
	}
	return LoadRegistry(path)
}

// Default returns the embedded seed catalogue.
func Default() (*ActivityRegistry, error) {
	return Parse(defaultActivities)
}

// Parse validates data against the seed schema and decodes it.
func Parse(data []byte) (*ActivityRegistry, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}

	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode seed catalogue: %w", err)
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// ValidateDocument checks raw JSON against the seed schema.
func ValidateDocument(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(documentSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("seed catalogue validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate enforces the rules the schema cannot express: unique names.
func (r *ActivityRegistry) Validate() error {
	seen := make(map[string]struct{}, len(r.Activities))
	for _, a := range r.Activities {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("seed catalogue contains an activity with an empty name")
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("seed catalogue contains duplicate activity %q", a.Name)
		}
		seen[a.Name] = struct{}{}
	}
	return nil
}

// ToMap converts the catalogue into the name-keyed form the store is seeded with.
func (r *ActivityRegistry) ToMap() map[string]models.Activity {
	out := make(map[string]models.Activity, len(r.Activities))
	for _, a := range r.Activities {
		out[a.Name] = a.ToModel()
	}
	return out
}

// Find returns the entry called name.
func (r *ActivityRegistry) Find(name string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.Name == name {
			return a, true
		}
	}
	return Activity{}, false
}

// Add appends a new entry, rejecting duplicate names.
func (r *ActivityRegistry) Add(a Activity) error {
	if _, exists := r.Find(a.Name); exists {
		return fmt.Errorf("activity %q already exists", a.Name)
	}
	if a.Participants == nil {
		a.Participants = []string{}
	}
	r.Activities = append(r.Activities, a)
	return r.Validate()
}

// Save writes the catalogue as indented JSON.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode seed catalogue: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write seed catalogue %s: %w", path, err)
	}
	return nil
}
