// This file contains the logic for parsing HCL type expressions (e.g.
// `string`, `list(number)`, or a custom type id) into value types.

package hcladapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/loomspec/internal/ctxlog"
	"github.com/vk/loomspec/internal/document"
)

// typeExprToValueType converts an HCL type expression into a ValueType.
// Bare identifiers that are not primitive keywords are taken as custom type
// ids; whether they resolve is a semantic question left to the validator.
func typeExprToValueType(ctx context.Context, expr hcl.Expression) (document.ValueType, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return document.ValueType{}, fmt.Errorf("a type expression is required")
	}

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("parsing type constructor", "call", v.Name)
		if len(v.Args) != 1 {
			return document.ValueType{}, fmt.Errorf("type constructors (list, map, set) require exactly one argument, got %d", len(v.Args))
		}

		element, err := typeExprToValueType(ctx, v.Args[0])
		if err != nil {
			return document.ValueType{}, err
		}
		if element.IsCustom() {
			return document.ValueType{}, fmt.Errorf("collections of the user-defined type %q are not supported; wrap it in a dedicated custom type", element.CustomID)
		}
		if element.Type == cty.DynamicPseudoType {
			return document.ValueType{}, fmt.Errorf("collection types cannot contain type 'any'")
		}

		switch v.Name {
		case "list":
			return document.TypeOf(cty.List(element.Type)), nil
		case "map":
			return document.TypeOf(cty.Map(element.Type)), nil
		case "set":
			return document.TypeOf(cty.Set(element.Type)), nil
		default:
			return document.ValueType{}, fmt.Errorf("unknown type constructor function %q", v.Name)
		}

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return document.ValueType{}, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		rootName := v.Traversal.RootName()
		switch rootName {
		case "string":
			return document.TypeOf(cty.String), nil
		case "number":
			return document.TypeOf(cty.Number), nil
		case "bool":
			return document.TypeOf(cty.Bool), nil
		case "any":
			return document.TypeOf(cty.DynamicPseudoType), nil
		default:
			logger.Debug("treating type keyword as custom type reference", "id", rootName)
			return document.CustomTypeRef(rootName), nil
		}

	default:
		return document.ValueType{}, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}
