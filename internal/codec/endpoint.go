package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Endpoint is a link end written as a node id. On input it also accepts a
// number or an object carrying an "id", which is how a link looks after a
// browser layout has resolved it in place.
type Endpoint string

func (e *Endpoint) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("%w: empty link endpoint", ErrMalformed)
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = Endpoint(s)
		return nil
	case '{':
		var obj struct {
			ID Endpoint `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*e = obj.ID
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: link endpoint %s", ErrMalformed, b)
	}
	*e = Endpoint(n.String())
	return nil
}

func (e *Endpoint) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*e = Endpoint(value.Value)
		return nil
	case yaml.MappingNode:
		var obj struct {
			ID Endpoint `yaml:"id"`
		}
		if err := value.Decode(&obj); err != nil {
			return err
		}
		*e = obj.ID
		return nil
	}
	return fmt.Errorf("%w: link endpoint at line %d", ErrMalformed, value.Line)
}
