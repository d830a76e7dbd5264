package report

import (
	domain "report-writer/internal/domain/report"
	repUC "report-writer/internal/usecase/report"
)

// Catalog is the set of configured report services the HTTP surface
// dispatches to. It is built once at startup from the loaded report
// definitions and is read-only afterwards, so lookups need no locking.
type Catalog struct {
	names  []string
	byName map[string]*repUC.Service
}

// NewCatalog builds a catalog from the configured services, preserving their
// order for the index page. The config loader rejects duplicate names before
// services are constructed; should one slip through anyway, the first entry
// wins.
func NewCatalog(services ...*repUC.Service) *Catalog {
	c := &Catalog{byName: make(map[string]*repUC.Service, len(services))}
	for _, svc := range services {
		name := svc.Def.Name
		if _, ok := c.byName[name]; ok {
			continue
		}
		c.byName[name] = svc
		c.names = append(c.names, name)
	}
	return c
}

// Lookup returns the service for a report name.
func (c *Catalog) Lookup(name string) (*repUC.Service, bool) {
	svc, ok := c.byName[name]
	return svc, ok
}

// Definitions returns the configured report definitions in catalog order.
func (c *Catalog) Definitions() []domain.Definition {
	defs := make([]domain.Definition, 0, len(c.names))
	for _, name := range c.names {
		defs = append(defs, c.byName[name].Def)
	}
	return defs
}

// Len returns the number of configured reports.
func (c *Catalog) Len() int {
	return len(c.names)
}
