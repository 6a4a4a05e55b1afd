package filter

// Interpretation is the structured reading of a query produced by the
// LLM boundary. Every field is untrusted: values may be missing, carry
// the wrong type, or contain invalid enum members, so they are declared
// as loose `any` fields and coerced during resolution.
type Interpretation struct {
	Intent     string              `json:"intent"`
	Parameters InterpretParameters `json:"parameters"`
	Filters    InterpretFilters    `json:"filters"`
}

// Recognized intents.
const (
	IntentFindRequirements     = "find_requirements"
	IntentFindEquivalentCourse = "find_equivalent_course"
)

// InterpretParameters carries campus and target-course parameters.
type InterpretParameters struct {
	Campus            any `json:"campus"`
	Campuses          any `json:"campuses"`
	TargetCourseCode  any `json:"target_course_code"`
	TargetInstitution any `json:"target_institution"`
}

// InterpretFilters carries the filter fields of the interpretation.
type InterpretFilters struct {
	FocusOnly        any `json:"focus_only"`
	RequiredOnly     any `json:"required_only"`
	DomainsCompleted any `json:"domains_completed"`
	CompletedCourses any `json:"completed_courses"`
	Categories       any `json:"categories"`
}

// asString coerces a JSON value to a non-empty string.
func asString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// asStringSlice coerces a JSON value to its string elements, dropping
// anything that is not a string. A non-slice value yields nil.
func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// asBool coerces a JSON value to a boolean, defaulting to false.
func asBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
