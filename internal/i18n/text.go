package i18n

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Text is a trilingual content value. All three languages are stored
// together in a single jsonb column; none of them may be omitted.
type Text struct {
	RU string `json:"ru" validate:"required"`
	KZ string `json:"kz" validate:"required"`
	EN string `json:"en" validate:"required"`
}

func (t Text) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *Text) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	case nil:
		*t = Text{}
		return nil
	default:
		return fmt.Errorf("i18n: cannot scan %T into Text", src)
	}
}

// IsZero reports whether no language has a value.
func (t Text) IsZero() bool {
	return t.RU == "" && t.KZ == "" && t.EN == ""
}

// StringList maps a jsonb array of plain strings (features, screenshots).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("i18n: cannot scan %T into StringList", src)
	}
}

// KPI is a labelled metric shown on a case study.
type KPI struct {
	Label Text   `json:"label" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// KPIList maps the jsonb kpi column on cases.
type KPIList []KPI

func (l KPIList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]KPI{})
	}
	return json.Marshal([]KPI(l))
}

func (l *KPIList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("i18n: cannot scan %T into KPIList", src)
	}
}

var ErrMissingLanguage = errors.New("all languages (ru, kz, en) are required")

// Validate is used where a Text arrives outside a validated request struct.
func (t Text) Validate() error {
	if t.RU == "" || t.KZ == "" || t.EN == "" {
		return ErrMissingLanguage
	}
	return nil
}
