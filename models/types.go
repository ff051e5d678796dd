package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// scanString reads a text column regardless of how the driver hands it over.
func scanString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported column type %T", value)
	}
}

// StringList is an ordered list of strings persisted as a JSON array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	s, err := scanString(value)
	if err != nil {
		return err
	}
	if s == "" {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return errors.New("string list column is not a JSON array")
	}
	*l = out
	return nil
}
