// Package schema declares the argument types an intent accepts and validates
// classified argument maps against them.
//
// Each conversation node publishes a set of callable functions to the upstream
// language model; the parameter shape of those functions is expressed as a
// Schema. The same Schema drives two things: runtime validation of the
// argument map the classifier sends back, and the JSON Schema document handed
// to the classifier so it knows what to emit.
//
// Basic usage:
//
//	params := schema.Schema{
//	    "item_name": {Type: schema.String(), Required: true},
//	    "quantity":  {Type: schema.Int(), Default: 1},
//	    "modifiers": {Type: schema.Slice(schema.String())},
//	}
//
//	if err := schema.Validate(params, args); err != nil {
//	    // Missing required argument or type mismatch.
//	}
//	args = schema.Apply(params, args) // fill defaults
//
// The package has no dependencies beyond the standard library so the domain
// layer can use it freely.
package schema
