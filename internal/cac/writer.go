// Package cac serializes desired-state records into per-type
// configuration-as-code documents. Encoding is pure: the caller decides
// where the bytes land. Output is canonical so repeated runs over an
// unchanged export are byte-identical.
package cac

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mfields/ctrlmig/internal/domain"
)

// Document is the desired-state collection for one object type. A document
// with zero records is still emitted: the apply side treats a present-but-
// empty collection as "nothing to reconcile for this type", which is
// different from the type being absent altogether.
type Document struct {
	Type    domain.ObjectType
	Records []domain.DesiredStateRecord
}

// Key returns the document's top-level collection key, e.g.
// "controller_organizations".
func (d Document) Key() string {
	return "controller_" + d.Type.Plural()
}

// Filename returns the output filename for a type's document.
func Filename(t domain.ObjectType) string {
	return "controller_" + t.Plural() + ".yml"
}

// BuildDocuments groups records into one document per type, in type order.
// Every type in include gets a document even when it has no records.
func BuildDocuments(records []domain.DesiredStateRecord, include []domain.ObjectType) []Document {
	byType := make(map[domain.ObjectType][]domain.DesiredStateRecord)
	for _, rec := range records {
		byType[rec.Type] = append(byType[rec.Type], rec)
	}

	included := make(map[domain.ObjectType]bool, len(include))
	for _, t := range include {
		included[t] = true
	}

	var docs []Document
	for _, t := range domain.AllTypes() {
		if !included[t] {
			continue
		}
		docs = append(docs, Document{Type: t, Records: byType[t]})
	}
	return docs
}

// EncodeDocument renders a document as canonical YAML.
func EncodeDocument(d Document) ([]byte, error) {
	seq, err := encodeRecords(d.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s document: %w", d.Type, err)
	}

	root := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{scalarNode(d.Key()), seq},
	}
	// An empty collection still gets an explicit empty list.
	if len(seq.Content) == 0 {
		seq.Style = yaml.FlowStyle
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode %s document: %w", d.Type, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode %s document: %w", d.Type, err)
	}
	return buf.Bytes(), nil
}

// DocumentSetRev computes the revision of an encoded document set:
// "sha256:<hex>" over the document bytes in the order given. Callers pass
// documents in type order so the revision is stable.
func DocumentSetRev(encoded [][]byte) string {
	h := sha256.New()
	for _, data := range encoded {
		h.Write(data)
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}
