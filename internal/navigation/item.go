package navigation

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// MenuItem is a row of the navigation table
type MenuItem struct {
	ID       int64  `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	URI      string `json:"uri" yaml:"uri"`
	ParentID *int64 `json:"parentId" yaml:"parentId"`
	Order    int    `json:"order" yaml:"order"`
	Active   bool   `json:"active" yaml:"active"`

	Fragment string `json:"fragment,omitempty" yaml:"fragment,omitempty"`
	Target   string `json:"target,omitempty" yaml:"target,omitempty"`
	Rel      string `json:"rel,omitempty" yaml:"rel,omitempty"`
	Class    string `json:"class,omitempty" yaml:"class,omitempty"`
	DomID    string `json:"domId,omitempty" yaml:"domId,omitempty"`
	LiClass  string `json:"liClass,omitempty" yaml:"liClass,omitempty"`
	LiID     string `json:"liId,omitempty" yaml:"liId,omitempty"`
	UlClass  string `json:"ulClass,omitempty" yaml:"ulClass,omitempty"`
	UlID     string `json:"ulId,omitempty" yaml:"ulId,omitempty"`

	HandlerClass    string `json:"handlerClass,omitempty" yaml:"handlerClass,omitempty"`
	HandlerFunction string `json:"handlerFunction,omitempty" yaml:"handlerFunction,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" yaml:"updatedAt,omitempty"`
}

// Node is a menu item augmented with its children.
// A nil Children slice means the node has no children.
type Node struct {
	MenuItem `yaml:",inline"`
	Children []*Node `json:"children" yaml:"children"`
}

type Field string

const (
	FieldLabel           Field = "label"
	FieldURI             Field = "uri"
	FieldParentID        Field = "parent_id"
	FieldOrder           Field = "sort_order"
	FieldActive          Field = "active"
	FieldFragment        Field = "fragment"
	FieldTarget          Field = "target"
	FieldRel             Field = "rel"
	FieldClass           Field = "class"
	FieldDomID           Field = "dom_id"
	FieldLiClass         Field = "li_class"
	FieldLiID            Field = "li_id"
	FieldUlClass         Field = "ul_class"
	FieldUlID            Field = "ul_id"
	FieldHandlerClass    Field = "handler_class"
	FieldHandlerFunction Field = "handler_function"
)

var stringFields = map[Field]struct{}{
	FieldLabel:           {},
	FieldURI:             {},
	FieldFragment:        {},
	FieldTarget:          {},
	FieldRel:             {},
	FieldClass:           {},
	FieldDomID:           {},
	FieldLiClass:         {},
	FieldLiID:            {},
	FieldUlClass:         {},
	FieldUlID:            {},
	FieldHandlerClass:    {},
	FieldHandlerFunction: {},
}

// Fields is a set of column values used to create, update or filter items.
type Fields map[Field]any

// Normalize checks that each field is known and converts its value
// to one of string, int64, bool or nil.
func (f Fields) Normalize() (Fields, error) {
	normalized := make(Fields, len(f))

	for field, value := range f {
		switch {
		case field == FieldParentID:
			parentID, err := toParentID(value)
			if err != nil {
				return nil, errors.Wrapf(err, "field '%s'", field)
			}

			if parentID == nil {
				normalized[field] = nil
			} else {
				normalized[field] = *parentID
			}

		case field == FieldOrder:
			order, ok := toInt64(value)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidField, "field '%s': unexpected value type '%T'", field, value)
			}

			normalized[field] = order

		case field == FieldActive:
			active, ok := value.(bool)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidField, "field '%s': unexpected value type '%T'", field, value)
			}

			normalized[field] = active

		default:
			if _, exists := stringFields[field]; !exists {
				return nil, errors.Wrapf(ErrUnknownField, "field '%s'", field)
			}

			str, ok := value.(string)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidField, "field '%s': unexpected value type '%T'", field, value)
			}

			normalized[field] = str
		}
	}

	return normalized, nil
}

// Merge returns a copy of f overridden by the given fields
func (f Fields) Merge(others ...Fields) Fields {
	merged := make(Fields, len(f))
	for k, v := range f {
		merged[k] = v
	}

	for _, o := range others {
		for k, v := range o {
			merged[k] = v
		}
	}

	return merged
}

func toParentID(value any) (*int64, error) {
	switch typ := value.(type) {
	case nil:
		return nil, nil
	case *int64:
		return typ, nil
	default:
		id, ok := toInt64(value)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidField, "unexpected value type '%T'", value)
		}

		return &id, nil
	}
}

func toInt64(value any) (int64, bool) {
	switch typ := value.(type) {
	case int:
		return int64(typ), true
	case int32:
		return int64(typ), true
	case int64:
		return typ, true
	case float64:
		// Numbers decoded from JSON
		if typ != math.Trunc(typ) {
			return 0, false
		}

		return int64(typ), true
	default:
		return 0, false
	}
}

// ParseField converts the textual representation of a field value,
// as found in query strings or command line flags, to its typed value.
// An empty parent identifier, or "null", is the root level.
func ParseField(field Field, raw string) (any, error) {
	switch field {
	case FieldParentID:
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == "null" {
			return nil, nil
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidField, "field '%s': %s", field, err)
		}

		return id, nil

	case FieldOrder:
		order, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidField, "field '%s': %s", field, err)
		}

		return order, nil

	case FieldActive:
		active, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidField, "field '%s': %s", field, err)
		}

		return active, nil

	default:
		if _, exists := stringFields[field]; !exists {
			return nil, errors.Wrapf(ErrUnknownField, "field '%s'", field)
		}

		return raw, nil
	}
}
