// Package flagtree models the nested build-configuration structure handed to
// the hooks by the external build system: an ordered tree of mappings,
// sequences, and scalar leaves, plus the lookup used to pull build metadata
// out of it.
package flagtree

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the three node variants.
type Kind int

// Node variants.
const (
	Scalar Kind = iota
	Mapping
	Sequence
)

// Pair is a single ordered key/value entry of a mapping node.
type Pair struct {
	Key   string
	Value *Node
}

// Node is one node of a build-configuration tree. Exactly one of Value,
// Pairs, or Items is meaningful, selected by Kind. Insertion order of Pairs
// and Items is significant: lookups are positional, not associative.
type Node struct {
	Kind  Kind
	Value string  // Scalar
	Pairs []Pair  // Mapping
	Items []*Node // Sequence
}

// NewScalar returns a scalar leaf node.
func NewScalar(value string) *Node {
	return &Node{Kind: Scalar, Value: value}
}

// NewSequence returns a sequence node over the given items.
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: Sequence, Items: items}
}

// NewMapping returns a mapping node over the given ordered pairs.
func NewMapping(pairs ...Pair) *Node {
	return &Node{Kind: Mapping, Pairs: pairs}
}

// StringSequence returns a sequence node whose items are all scalars.
func StringSequence(values ...string) *Node {
	items := make([]*Node, 0, len(values))
	for _, v := range values {
		items = append(items, NewScalar(v))
	}
	return NewSequence(items...)
}

// DefinesKey is the mapping key under which ParseFlags collects preprocessor
// defines, matching the key the build system uses in its parsed flag set.
const DefinesKey = "CPPDEFINES"

// definePrefix marks a preprocessor define in a compiler flag string.
const definePrefix = "-D"

// ParseFlags parses a compiler flag string into a configuration tree of the
// shape {"CPPDEFINES": [name, value, name, value, ...]}. A `-DName=Value`
// flag contributes the name followed by the value; a bare `-DName` flag
// contributes only the name. Flags without the -D prefix are ignored.
func ParseFlags(flags string) *Node {
	var defines []string
	for _, field := range strings.Fields(flags) {
		name, ok := strings.CutPrefix(field, definePrefix)
		if !ok || name == "" {
			continue
		}
		if name, value, found := strings.Cut(name, "="); found {
			defines = append(defines, name, strings.Trim(value, `"'`))
			continue
		}
		defines = append(defines, name)
	}

	return NewMapping(Pair{Key: DefinesKey, Value: StringSequence(defines...)})
}

// FromYAML decodes YAML into a configuration tree, preserving mapping key
// order. The document root must be a mapping or a sequence.
func FromYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration tree: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("configuration tree is empty")
	}

	root, err := fromYAMLNode(doc.Content[0])
	if err != nil {
		return nil, err
	}
	if root.Kind == Scalar {
		return nil, fmt.Errorf("configuration tree root must be a mapping or sequence, got scalar %q", root.Value)
	}
	return root, nil
}

func fromYAMLNode(n *yaml.Node) (*Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return NewScalar(n.Value), nil
	case yaml.SequenceNode:
		items := make([]*Node, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return NewSequence(items...), nil
	case yaml.MappingNode:
		// Mapping content alternates key, value.
		pairs := make([]Pair, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			value, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, Pair{Key: n.Content[i].Value, Value: value})
		}
		return NewMapping(pairs...), nil
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	default:
		return nil, fmt.Errorf("unsupported YAML node kind %v at line %d", n.Kind, n.Line)
	}
}
