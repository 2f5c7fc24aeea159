// This file parses the YAML syntax's type strings (e.g. "string",
// "list(number)", or a custom type id) into value types.

package yamladapter

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/loomspec/internal/document"
)

// parseTypeString converts a type string into a ValueType. Identifiers that
// are not primitive keywords are taken as custom type ids; whether they
// resolve is a semantic question left to the validator.
func parseTypeString(s string) (document.ValueType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return document.ValueType{}, fmt.Errorf("a type is required")
	}

	if open := strings.IndexByte(s, '('); open >= 0 {
		if !strings.HasSuffix(s, ")") {
			return document.ValueType{}, fmt.Errorf("malformed type %q: missing closing parenthesis", s)
		}
		ctor := strings.TrimSpace(s[:open])
		element, err := parseTypeString(s[open+1 : len(s)-1])
		if err != nil {
			return document.ValueType{}, err
		}
		if element.IsCustom() {
			return document.ValueType{}, fmt.Errorf("collections of the user-defined type %q are not supported; wrap it in a dedicated custom type", element.CustomID)
		}
		if element.Type == cty.DynamicPseudoType {
			return document.ValueType{}, fmt.Errorf("collection types cannot contain type 'any'")
		}

		switch ctor {
		case "list":
			return document.TypeOf(cty.List(element.Type)), nil
		case "map":
			return document.TypeOf(cty.Map(element.Type)), nil
		case "set":
			return document.TypeOf(cty.Set(element.Type)), nil
		default:
			return document.ValueType{}, fmt.Errorf("unknown type constructor %q", ctor)
		}
	}

	switch s {
	case "string":
		return document.TypeOf(cty.String), nil
	case "number":
		return document.TypeOf(cty.Number), nil
	case "bool":
		return document.TypeOf(cty.Bool), nil
	case "any":
		return document.TypeOf(cty.DynamicPseudoType), nil
	default:
		return document.CustomTypeRef(s), nil
	}
}
