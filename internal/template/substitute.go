package template

import (
	"fmt"
	"regexp"
	"strconv"
)

var placeholderRE = regexp.MustCompile(`%([A-Za-z0-9_]+)%`)

// Substitute replaces every %name% placeholder in text whose name is a key in
// params with the value's string form. Placeholders without a matching key
// are left untouched, delimiters included.
func Substitute(text string, params Params) string {
	if len(params) == 0 {
		return text
	}
	return placeholderRE.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		v, ok := params[name]
		if !ok {
			return match
		}
		return FormatValue(v)
	})
}

// FormatValue renders a parameter value the way it appears in records and
// query strings.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
