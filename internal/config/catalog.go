package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"report-writer/internal/domain/report"
)

// CatalogDefaults supplies the page size and window size applied to catalog
// entries that omit them. Values come from DEFAULT_PAGE_SIZE and
// DEFAULT_WINDOW_SIZE; an explicit value in the catalog always wins.
type CatalogDefaults struct {
	PageSize   int
	WindowSize int
}

// catalogFile is the on-disk shape of reports.yaml.
type catalogFile struct {
	Reports []reportSpec `yaml:"reports"`
}

// reportSpec is one catalog entry before normalization.
type reportSpec struct {
	Name        string       `yaml:"name"`
	Title       string       `yaml:"title"`
	Source      string       `yaml:"source"`
	Columns     []columnSpec `yaml:"columns"`
	DefaultSort string       `yaml:"default_sort"`
	PageSize    int          `yaml:"page_size"`
	WindowSize  int          `yaml:"window_size"`
}

// columnSpec accepts the two column forms the catalog allows: a bare column
// name, or a mapping with explicit key/query/order/label/sortable fields.
// The duality ends here; everything downstream sees a canonical report.Column.
type columnSpec struct {
	// Name holds the bare form. Empty when the detailed form was used.
	Name string

	Key      string `yaml:"key"`
	Query    string `yaml:"query"`
	Order    string `yaml:"order"`
	Label    string `yaml:"label"`
	Sortable *bool  `yaml:"sortable"`
}

// UnmarshalYAML decodes either column form based on the node kind.
func (c *columnSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Name = node.Value
		return nil
	}

	type plain columnSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = columnSpec(p)
	return nil
}

// toColumn produces the domain column for this spec. A bare name becomes the
// canonical sortable column; a detailed spec passes its fields through, with
// sortable defaulting to true when omitted. Empty query/order/label fields are
// filled later by Definition.Normalized.
func (c columnSpec) toColumn() report.Column {
	if c.Name != "" {
		return report.NewColumn(c.Name)
	}

	sortable := true
	if c.Sortable != nil {
		sortable = *c.Sortable
	}
	return report.Column{
		Key:      c.Key,
		Query:    c.Query,
		Order:    c.Order,
		Label:    c.Label,
		Sortable: sortable,
	}
}

// LoadCatalog loads report definitions from a YAML catalog file.
// Every definition is normalized and validated; the first invalid entry fails
// the whole load. A catalog that parses but defines no reports is also an
// error, since the service would have nothing to serve.
// The path parameter is expected to come from a trusted source (environment
// variable or hardcoded default).
func LoadCatalog(path string, defaults CatalogDefaults) ([]report.Definition, error) {
	// #nosec G304 -- path is provided by trusted source (env var or default), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if len(file.Reports) == 0 {
		return nil, fmt.Errorf("catalog %s defines no reports", path)
	}

	defs := make([]report.Definition, 0, len(file.Reports))
	seen := make(map[string]struct{}, len(file.Reports))

	for i, spec := range file.Reports {
		if _, ok := seen[spec.Name]; ok && spec.Name != "" {
			return nil, fmt.Errorf("catalog entry %d: duplicate report name %q", i+1, spec.Name)
		}
		seen[spec.Name] = struct{}{}

		def := spec.toDefinition(defaults)
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
		}
		defs = append(defs, def)
	}

	return defs, nil
}

// toDefinition maps the catalog entry to a normalized domain definition,
// applying the configured defaults for omitted page and window sizes.
func (s reportSpec) toDefinition(defaults CatalogDefaults) report.Definition {
	cols := make([]report.Column, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = c.toColumn()
	}

	def := report.Definition{
		Name:        s.Name,
		Title:       s.Title,
		Source:      s.Source,
		Columns:     cols,
		DefaultSort: s.DefaultSort,
		PageSize:    s.PageSize,
		WindowSize:  s.WindowSize,
	}
	if def.PageSize == 0 {
		def.PageSize = defaults.PageSize
	}
	if def.WindowSize == 0 {
		def.WindowSize = defaults.WindowSize
	}
	return def.Normalized()
}
