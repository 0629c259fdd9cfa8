package proxy

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// encodeForm serializes a body as URL-encoded form fields. Primitive
// values are written as-is; anything structured is JSON-stringified
// first, so a "blocks" array survives the form encoding intact.
func encodeForm(body map[string]any) string {
	values := url.Values{}
	for key, value := range body {
		values.Set(key, formValue(value))
	}
	return values.Encode()
}

func formValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		// json.Unmarshal decodes every number into float64; -1 precision
		// keeps integral values (unix timestamps) free of exponents.
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}
