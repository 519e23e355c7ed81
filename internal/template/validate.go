package template

// ValidationResult reports which required parameters a caller left out.
type ValidationResult struct {
	Valid   bool
	Missing []string
}

// Validate checks that every required parameter of t is present in params.
// A key holding an explicit zero value (0, false, "") counts as provided;
// a missing key or a nil value does not.
func Validate(t *Template, params Params) ValidationResult {
	missing := []string{}
	if t == nil {
		return ValidationResult{Valid: true, Missing: missing}
	}
	for _, p := range t.Parameters {
		if !p.Required {
			continue
		}
		if v, ok := params[p.Name]; !ok || v == nil {
			missing = append(missing, p.Name)
		}
	}
	return ValidationResult{Valid: len(missing) == 0, Missing: missing}
}

// ApplyDefaults returns a copy of params with the template's default values
// filled in for parameters the caller did not set.
func ApplyDefaults(t *Template, params Params) Params {
	out := make(Params, len(params))
	for k, v := range params {
		out[k] = v
	}
	if t == nil {
		return out
	}
	for _, p := range t.Parameters {
		if p.DefaultValue == nil {
			continue
		}
		if v, ok := out[p.Name]; !ok || v == nil {
			out[p.Name] = p.DefaultValue
		}
	}
	return out
}
