package repositories

import "encoding/json"

// Values are stored as JSON. Ordering never depends on the value encoding,
// only on the key layout.
func marshalValue(v any) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalValue(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
