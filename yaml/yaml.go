// Package yaml provides a YAML tree codec.
//
// Documents are written with explicit scalar tags resolved by yaml.v3, so
// strings that look like numbers, booleans or timestamps stay strings.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/zoobzio/skein"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements skein.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() skein.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal renders v as a YAML document.
func (c *yamlCodec) Marshal(v skein.Value) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func toNode(v skein.Value) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(t)), nil
	case string:
		return scalar("!!str", t), nil
	case skein.Number:
		if !numberPattern.MatchString(string(t)) {
			return nil, fmt.Errorf("invalid number literal %q", string(t))
		}
		if t.IsInteger() {
			return scalar("!!int", string(t)), nil
		}
		return scalar("!!float", string(t)), nil
	case skein.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			child, err := toNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case *skein.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range t.Members() {
			child, err := toNode(m.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, scalar("!!str", m.Name), child)
		}
		return n, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

// numberPattern matches JSON-style numeric literals.
var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// maxAliasDepth bounds alias expansion.
const maxAliasDepth = 64

// Unmarshal parses a YAML document into a document tree.
func (c *yamlCodec) Unmarshal(data []byte) (skein.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, errors.New("empty document")
	}
	return fromNode(&doc, 0)
}

func fromNode(n *yaml.Node, aliases int) (skein.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, fmt.Errorf("line %d: expected a single document", n.Line)
		}
		return fromNode(n.Content[0], aliases)

	case yaml.AliasNode:
		if aliases >= maxAliasDepth {
			return nil, fmt.Errorf("line %d: alias nesting too deep", n.Line)
		}
		return fromNode(n.Alias, aliases+1)

	case yaml.SequenceNode:
		arr := make(skein.Array, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := fromNode(child, aliases)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil

	case yaml.MappingNode:
		obj := skein.NewObject(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			if obj.Has(key.Value) {
				return nil, fmt.Errorf("line %d: duplicate member %q", key.Line, key.Value)
			}
			v, err := fromNode(n.Content[i+1], aliases)
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, v)
		}
		return obj, nil

	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

func fromScalar(n *yaml.Node) (skein.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		if numberPattern.MatchString(n.Value) {
			return skein.Number(n.Value), nil
		}
		var i int64
		if err := n.Decode(&i); err == nil {
			return skein.IntNumber(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, err
		}
		return skein.UintNumber(u), nil
	case "!!float":
		if numberPattern.MatchString(n.Value) {
			return skein.FloatLiteral(n.Value), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("line %d: unsupported float %q", n.Line, n.Value)
		}
		return skein.FloatNumber(f, 64)
	case "!!str", "!!timestamp":
		return n.Value, nil
	}
	return nil, fmt.Errorf("line %d: unsupported tag %s", n.Line, n.Tag)
}
