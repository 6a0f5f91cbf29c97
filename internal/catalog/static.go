package catalog

import (
	"context"
	"strings"

	"github.com/leapstack-labs/sqlassist/pkg/suggest"
	"github.com/leapstack-labs/sqlassist/pkg/tableref"
)

// StaticProvider serves a fixed table-to-fields mapping. Table names are
// matched case-insensitively; unknown tables yield an empty list.
type StaticProvider struct {
	tables map[string][]suggest.Field
}

// NewStaticProvider builds a provider over the given mapping.
func NewStaticProvider(tables map[string][]suggest.Field) *StaticProvider {
	p := &StaticProvider{tables: make(map[string][]suggest.Field, len(tables))}
	for name, fields := range tables {
		p.tables[strings.ToLower(name)] = fields
	}
	return p
}

// FieldsForTable implements suggest.FieldProvider.
func (p *StaticProvider) FieldsForTable(_ context.Context, ref tableref.TableReference) ([]suggest.Field, error) {
	if fields, ok := p.tables[strings.ToLower(ref.QualifiedName)]; ok {
		return fields, nil
	}
	return p.tables[strings.ToLower(ref.Name)], nil
}
