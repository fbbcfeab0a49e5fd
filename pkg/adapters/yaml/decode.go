// Package yaml loads DFA definitions from YAML or JSON documents.
//
//	name: contains-a
//	states: 2
//	accepting: [1]
//	alphabet: [a, b]
//	transitions:
//	  - [1, 0]
//	  - [1, 1]
//
// The keys num_states and accepting_states are accepted as aliases.
package yaml

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/no-hao/DFA/pkg/domain"
	backend "gopkg.in/yaml.v3"
)

var aliases = map[string]string{
	"num_states":       "states",
	"accepting_states": "accepting",
}

// Parse decodes a YAML (or JSON) document into a definition.
func Parse(data []byte) (*domain.Definition, error) {
	var raw map[string]any
	if err := backend.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDefinition, err)
	}
	if raw == nil {
		return nil, domain.Malformed("document", "empty", nil)
	}
	return Decode(raw)
}

// Decode converts a generic map (decoded YAML, JSON or tool arguments) into a definition.
// Integer fields accept integers, integral floats, json.Number and numeric strings,
// so "2" and 2 are both valid state counts. Fractions, booleans and blank strings
// are malformed.
func Decode(raw map[string]any) (*domain.Definition, error) {
	normalized := make(map[string]any, len(raw))
	for k, v := range raw {
		if alias, ok := aliases[k]; ok {
			if _, exists := raw[alias]; exists {
				continue
			}
			k = alias
		}
		normalized[k] = v
	}

	for _, key := range []string{"states", "alphabet", "transitions"} {
		if _, ok := normalized[key]; !ok {
			return nil, domain.Malformed(key, "required", nil)
		}
	}

	var def domain.Definition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       strictScalars,
		WeaklyTypedInput: true,
		Result:           &def,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDefinition, err)
	}
	return &def, nil
}

// strictScalars narrows the weak conversions mapstructure would otherwise apply.
func strictScalars(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return toInt(data)
	case reflect.String:
		if b, ok := data.(bool); ok {
			return nil, fmt.Errorf("boolean %t is not a valid symbol (quote it)", b)
		}
	}
	return data, nil
}

func toInt(data any) (any, error) {
	switch v := data.(type) {
	case bool:
		return nil, fmt.Errorf("expected an integer, got boolean %t", v)
	case float32:
		return toInt(float64(v))
	case float64:
		if math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fmt.Errorf("expected an integer, got %v", v)
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", v.String())
		}
		return n, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", v)
		}
		return n, nil
	}
	return data, nil
}

// Marshal encodes a definition as a YAML document.
func Marshal(def domain.Definition) ([]byte, error) {
	return backend.Marshal(def)
}
