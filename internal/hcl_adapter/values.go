// This file converts evaluated HCL expressions into the plain string and
// float values of the config model. Domain values may be written as bare
// booleans or numbers; they are converted to their string form.

package hcl_adapter

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// evaluate evaluates a literal expression; variables and functions are not
// available in network definitions.
func evaluate(expr hcl.Expression) (cty.Value, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if !val.IsWhollyKnown() || val.IsNull() {
		return cty.NilVal, diagError(expr.Range(), "Missing value", "The expression must produce a known, non-null value.")
	}
	return val, nil
}

// scalarString converts a primitive value into a domain value string.
func scalarString(v cty.Value) (string, error) {
	if v.IsNull() || !v.Type().IsPrimitiveType() {
		return "", fmt.Errorf("expected a string, number or bool, got %s", v.Type().FriendlyName())
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	return sv.AsString(), nil
}

// stringList decodes a list or tuple of primitive values.
func stringList(expr hcl.Expression) ([]string, error) {
	val, diags := evaluate(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	ty := val.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return nil, diagError(expr.Range(), "Invalid list", fmt.Sprintf("Expected a list of values, got %s.", ty.FriendlyName()))
	}

	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		s, err := scalarString(elem)
		if err != nil {
			return nil, diagError(expr.Range(), "Invalid list element", err.Error()+".")
		}
		out = append(out, s)
	}
	return out, nil
}

// stringMap decodes an object whose attribute values are primitives.
func stringMap(expr hcl.Expression) (map[string]string, error) {
	val, diags := evaluate(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	if ty := val.Type(); !ty.IsObjectType() && !ty.IsMapType() {
		return nil, diagError(expr.Range(), "Invalid object", fmt.Sprintf("Expected an object, got %s.", ty.FriendlyName()))
	}

	out := make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		s, err := scalarString(elem)
		if err != nil {
			return nil, diagError(expr.Range(), "Invalid object value", fmt.Sprintf("Key %q: %s.", key.AsString(), err))
		}
		out[key.AsString()] = s
	}
	return out, nil
}

// probabilityMap decodes an object mapping domain values to probabilities.
// Object keys written as bare booleans or numbers arrive here as strings.
func probabilityMap(expr hcl.Expression) (map[string]float64, error) {
	val, diags := evaluate(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	if ty := val.Type(); !ty.IsObjectType() && !ty.IsMapType() {
		return nil, diagError(expr.Range(), "Invalid distribution", fmt.Sprintf("Expected an object of probabilities, got %s.", ty.FriendlyName()))
	}

	out := make(map[string]float64)
	for it := val.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		num, err := convert.Convert(elem, cty.Number)
		if err != nil {
			return nil, diagError(expr.Range(), "Invalid probability", fmt.Sprintf("Value for %q: %s.", key.AsString(), err))
		}
		var p float64
		if err := gocty.FromCtyValue(num, &p); err != nil {
			return nil, diagError(expr.Range(), "Invalid probability", fmt.Sprintf("Value for %q: %s.", key.AsString(), err))
		}
		out[key.AsString()] = p
	}
	return out, nil
}
