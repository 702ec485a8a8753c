package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// flattenJSON decodes a JSON object into the string form gateways sign:
// numbers keep their literal text, null becomes "", booleans become
// "true"/"false" and nested values are re-encoded compactly.
func flattenJSON(raw []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any

	err := dec.Decode(&obj)
	if err != nil {
		return nil, err
	}

	if obj == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}

	out := make(map[string]string, len(obj))
	for key, value := range obj {
		switch v := value.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = v
		case json.Number:
			out[key] = v.String()
		case bool:
			out[key] = strconv.FormatBool(v)
		default:
			nested, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			out[key] = string(nested)
		}
	}

	return out, nil
}
