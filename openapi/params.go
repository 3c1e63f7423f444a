package openapi

// ParamType selects the schema of a path or query parameter.
type ParamType string

// Supported parameter types.
const (
	ParamUUID    ParamType = "uuid"
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamNumber  ParamType = "number"
)

// Parameter locations.
//
// See: https://spec.openapis.org/oas/v3.1.0#parameter-locations
const (
	InPath  = "path"
	InQuery = "query"
)

// paramSchema maps a parameter type to its schema. Unknown types are
// treated as plain strings.
func paramSchema(typ ParamType) Property {
	switch typ {
	case ParamUUID:
		return &StringProperty{Format: FormatUUID}
	case ParamInteger:
		return &IntegerProperty{}
	case ParamNumber:
		return &NumberProperty{}
	default:
		return &StringProperty{}
	}
}

// PathParam returns a path parameter. Path parameters are always required.
//
// See: https://spec.openapis.org/oas/v3.1.0#fixed-fields-9 (required)
func PathParam(name string, typ ParamType, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          InPath,
		Description: description,
		Required:    true,
		Schema:      paramSchema(typ),
	}
}

// QueryParam returns an optional query parameter.
func QueryParam(name string, typ ParamType, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          InQuery,
		Description: description,
		Schema:      paramSchema(typ),
	}
}

// mergeParameters combines path-level and operation-level parameters.
// Operation parameters with the same name and location override the
// path-level ones.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object (parameters)
func mergeParameters(shared, own []*Parameter) []*Parameter {
	if len(shared) == 0 && len(own) == 0 {
		return nil
	}

	overrides := make(map[[2]string]struct{}, len(own))
	for _, p := range own {
		overrides[[2]string{p.Name, p.In}] = struct{}{}
	}

	var merged []*Parameter
	for _, p := range shared {
		if _, ok := overrides[[2]string{p.Name, p.In}]; !ok {
			merged = append(merged, p)
		}
	}

	return append(merged, own...)
}
