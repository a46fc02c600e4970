package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfields/ctrlmig/internal/config"
	"github.com/mfields/ctrlmig/internal/domain"
	"github.com/mfields/ctrlmig/internal/export"
	"github.com/mfields/ctrlmig/internal/journal"
	"github.com/mfields/ctrlmig/internal/pipeline"
)

// readExportDir loads every known per-type export document found in dir. A
// missing file means the type was excluded from migration; at least one
// document must exist.
func readExportDir(dir string, types []domain.ObjectType) (map[domain.ObjectType][]byte, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("export directory %s not found: run the source export first", dir)
	}

	inputs := make(map[domain.ObjectType][]byte)
	for _, t := range types {
		path := filepath.Join(dir, export.Filename(t))
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs[t] = data
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no export documents found in %s", dir)
	}
	return inputs, nil
}

// writeDocuments writes the encoded document set into dir. Only called after
// the whole transform succeeded, so a failed run leaves no partial set.
func writeDocuments(dir string, docs []pipeline.EncodedDocument) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, doc := range docs {
		path := filepath.Join(dir, doc.Filename)
		if err := os.WriteFile(path, doc.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// parseTypeFilter parses a comma-separated type filter accepting singular or
// plural spellings. An empty filter selects every type.
func parseTypeFilter(filter string) ([]domain.ObjectType, error) {
	if strings.TrimSpace(filter) == "" {
		return domain.AllTypes(), nil
	}

	var types []domain.ObjectType
	for _, part := range strings.Split(filter, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if err := domain.ValidateObjectType(name); err == nil {
			types = append(types, domain.ObjectType(name))
			continue
		}
		t, err := domain.TypeFromPlural(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("empty type filter")
	}
	return types, nil
}

// printWarnings surfaces schema warnings to the operator on stderr. Warnings
// never block output outside strict mode, but they are never silent either.
func printWarnings(cmd *cobra.Command, warnings []domain.SchemaWarning) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}

// openJournal opens the run journal honoring the --db override. Journal
// access is best-effort for read-write commands: the transform result stands
// even when history cannot be recorded.
func openJournal(cmd *cobra.Command, cfg *config.Config) (*journal.Journal, error) {
	dbPath := cfg.DBPath
	if override, _ := cmd.Flags().GetString("db"); override != "" {
		dbPath = override
	}
	return journal.Open(dbPath)
}
