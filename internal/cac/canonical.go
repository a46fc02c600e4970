package cac

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mfields/ctrlmig/internal/domain"
)

// Canonical encoding rules:
// - one top-level key per document (the type's collection key)
// - records sorted by name using byte ordering, not locale collation
// - mapping keys sorted lexicographically at every depth
// Re-running the transform on unchanged input yields byte-identical files.

// encodeRecords builds the YAML node tree for a document's record list.
func encodeRecords(records []domain.DesiredStateRecord) (*yaml.Node, error) {
	sorted := make([]domain.DesiredStateRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, rec := range sorted {
		if len(rec.References) > 0 {
			return nil, fmt.Errorf("%s %q still carries unresolved references", rec.Type, rec.Name)
		}
		node, err := mappingNode(rec.Fields)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", rec.Type, rec.Name, err)
		}
		seq.Content = append(seq.Content, node)
	}
	return seq, nil
}

func mappingNode(m map[string]any) (*yaml.Node, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		valNode, err := valueNode(m[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		node.Content = append(node.Content, scalarNode(k), valNode)
	}
	return node, nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case map[string]any:
		return mappingNode(val)
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range val {
			n, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range val {
			seq.Content = append(seq.Content, scalarNode(item))
		}
		return seq, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, err
		}
		return node, nil
	}
}

func scalarNode(s string) *yaml.Node {
	node := &yaml.Node{}
	// Encode rather than setting Value directly so strings needing quotes
	// ("yes", "123", multi-line) come out valid.
	_ = node.Encode(s)
	return node
}
