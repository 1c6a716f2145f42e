package schema

import "sort"

// Field describes one named argument: its type, whether it must be present,
// and the value it takes when absent.
type Field struct {
	Type        Type
	Description string
	Required    bool
	Default     any
}

// Schema is a map of argument names to their field definitions.
// Example: {"item_name": {Type: String(), Required: true}, "quantity": {Type: Int(), Default: 1}}
type Schema map[string]Field

// Validate checks if args conform to the schema.
// Required fields must be present; present fields must match their type.
// Returns an error aggregating all failures found.
func Validate(schema Schema, args map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	var errs []error

	for _, name := range sortedKeys(schema) {
		field := schema[name]

		value, exists := args[name]
		if !exists {
			if field.Required {
				errs = append(errs, &ValidationError{
					Key:    name,
					Reason: "required",
					Value:  nil,
				})
			}
			continue
		}

		if err := field.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// Apply returns a copy of args with schema defaults filled in for absent
// optional fields. The input map is never mutated.
func Apply(schema Schema, args map[string]any) map[string]any {
	out := make(map[string]any, len(args)+len(schema))
	for k, v := range args {
		out[k] = v
	}
	for name, field := range schema {
		if _, exists := out[name]; !exists && field.Default != nil {
			out[name] = field.Default
		}
	}
	return out
}

// JSONSchema renders the schema as a JSON Schema object document, suitable
// for handing to a function-calling language model.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s))
	required := []string{}
	for _, name := range sortedKeys(s) {
		field := s[name]
		frag := field.Type.JSONSchema()
		if field.Description != "" {
			// Copy before annotating so shared Type values stay clean.
			annotated := make(map[string]any, len(frag)+1)
			for k, v := range frag {
				annotated[k] = v
			}
			annotated["description"] = field.Description
			frag = annotated
		}
		props[name] = frag
		if field.Required {
			required = append(required, name)
		}
	}

	doc := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func sortedKeys(s Schema) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
