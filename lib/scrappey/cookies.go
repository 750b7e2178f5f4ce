package scrappey

// cookies must look like this:
//
//	[{"name": "cookie1", "value": "value1", "domain": "domain.com", "path": "/"},
//	 {"name": "cookie2", "value": "value2", "domain": "domain.com", "path": "/"}]
const cookiesHelp = "check https://wiki.scrappey.com/ for examples how to use cookies."

var cookieFields = []struct {
	name    string
	kind    error
	message string
}{
	{"name", ErrMissingName, "All cookies must have a name property."},
	{"value", ErrMissingValue, "All cookies must have a value property which is a string."},
	{"domain", ErrMissingDomain, "All cookies must have a domain property."},
	{"path", ErrMissingPath, "All cookies must have a path property."},
}

// ValidateCookies checks that cookies is a non-empty sequence of cookie
// records. Each rule is checked against the whole sequence before moving on to
// the next one.
func ValidateCookies(cookies any) error {
	var records []map[string]any

	switch v := cookies.(type) {
	case []Cookie:
		if len(v) == 0 {
			return invalid(ErrEmptySequence, FieldCookiejar, "Cookies should not be empty if defined.")
		}
		// typed cookies always carry string fields
		return nil
	case []*Cookie:
		if len(v) == 0 {
			return invalid(ErrEmptySequence, FieldCookiejar, "Cookies should not be empty if defined.")
		}
		for _, c := range v {
			if c == nil {
				return invalid(ErrElementNotObject, FieldCookiejar, "Cookies must be an array of objects.")
			}
		}
		return nil
	case []map[string]any:
		records = v
	case []any:
		if len(v) == 0 {
			return invalid(ErrEmptySequence, FieldCookiejar, "Cookies should not be empty if defined.")
		}
		records = make([]map[string]any, len(v))
		for i, elem := range v {
			record, ok := cookieRecord(elem)
			if !ok {
				return invalid(ErrElementNotObject, FieldCookiejar, "Cookies must be an array of objects.")
			}
			records[i] = record
		}
	default:
		return invalid(ErrNotASequence, FieldCookiejar, "Cookies must be an array, "+cookiesHelp)
	}

	if len(records) == 0 {
		return invalid(ErrEmptySequence, FieldCookiejar, "Cookies should not be empty if defined.")
	}
	for _, r := range records {
		if r == nil {
			return invalid(ErrElementNotObject, FieldCookiejar, "Cookies must be an array of objects.")
		}
	}

	for _, field := range cookieFields {
		for _, r := range records {
			if _, ok := r[field.name].(string); !ok {
				return invalid(field.kind, FieldCookiejar, field.message)
			}
		}
	}
	return nil
}

func cookieRecord(elem any) (map[string]any, bool) {
	switch c := elem.(type) {
	case map[string]any:
		return c, c != nil
	case Cookie:
		return c.record(), true
	case *Cookie:
		if c == nil {
			return nil, false
		}
		return c.record(), true
	}
	return nil, false
}

func (c Cookie) record() map[string]any {
	return map[string]any{
		"name":   c.Name,
		"value":  c.Value,
		"domain": c.Domain,
		"path":   c.Path,
	}
}
