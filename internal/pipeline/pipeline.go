// Package pipeline runs the full transform: parse export documents, build
// the name index, map each record to its desired-state shape, rewrite
// references to names, and encode per-type documents. The whole run is
// synchronous and in-memory; any fatal error aborts before a single byte of
// output exists, so a failed run can never leave a partial document set
// behind.
package pipeline

import (
	"fmt"

	"github.com/mfields/ctrlmig/internal/cac"
	"github.com/mfields/ctrlmig/internal/domain"
	"github.com/mfields/ctrlmig/internal/drift"
	"github.com/mfields/ctrlmig/internal/export"
	"github.com/mfields/ctrlmig/internal/mapping"
	"github.com/mfields/ctrlmig/internal/resolve"
	"github.com/mfields/ctrlmig/internal/rewrite"
)

// Options configures a transform run.
type Options struct {
	// Strict escalates schema warnings to a fatal StrictModeError.
	Strict bool
}

// EncodedDocument is one rendered output document.
type EncodedDocument struct {
	Type     domain.ObjectType
	Filename string
	Data     []byte
}

// Result is a successful transform: the encoded document set (in type
// order), its revision, the export count snapshot, and any schema warnings.
type Result struct {
	Documents []EncodedDocument
	Rev       string
	Counts    domain.CountSnapshot
	Warnings  []domain.SchemaWarning
}

// Run transforms a set of export documents, keyed by object type, into the
// desired-state document set. A type present in the input with zero records
// still produces an (empty) output document; a type absent from the input
// produces none. The name index is completed over every record before any
// reference is rewritten, so forward references within the export resolve.
func Run(inputs map[domain.ObjectType][]byte, opts Options) (*Result, error) {
	var included []domain.ObjectType
	for _, t := range domain.AllTypes() {
		if _, ok := inputs[t]; ok {
			included = append(included, t)
		}
	}
	if len(included) == 0 {
		return nil, fmt.Errorf("no export documents to transform")
	}

	var records []domain.ObjectRecord
	for _, t := range included {
		recs, err := export.ParseDocument(t, inputs[t])
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	index, err := resolve.BuildIndex(records)
	if err != nil {
		return nil, err
	}

	var (
		mapped   []domain.DesiredStateRecord
		warnings []domain.SchemaWarning
	)
	for _, rec := range records {
		desired, warns := mapping.Map(rec)
		warnings = append(warnings, warns...)

		rewritten, err := rewrite.Rewrite(desired, index)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, mapping.CheckRequired(rewritten)...)
		mapped = append(mapped, rewritten)
	}

	if opts.Strict && len(warnings) > 0 {
		return nil, &domain.StrictModeError{Warnings: warnings}
	}

	docs := cac.BuildDocuments(mapped, included)
	result := &Result{
		Counts:   drift.Counts(records, included),
		Warnings: warnings,
	}

	var encoded [][]byte
	for _, doc := range docs {
		data, err := cac.EncodeDocument(doc)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, data)
		result.Documents = append(result.Documents, EncodedDocument{
			Type:     doc.Type,
			Filename: cac.Filename(doc.Type),
			Data:     data,
		})
	}
	result.Rev = cac.DocumentSetRev(encoded)

	return result, nil
}
