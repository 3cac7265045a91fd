package aliases

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Mapping ties an alias to a project and activity on a named backend.
type Mapping struct {
	Backend    string
	ProjectID  int
	ActivityID int
}

func (m Mapping) String() string {
	return fmt.Sprintf("%d/%d", m.ProjectID, m.ActivityID)
}

// ParseMapping parses the "project_id/activity_id" form used in
// configuration files.
func ParseMapping(backend, s string) (Mapping, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Mapping{}, fmt.Errorf("mapping %q must be in the form project_id/activity_id", s)
	}
	project, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Mapping{}, fmt.Errorf("invalid project id in mapping %q", s)
	}
	activity, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Mapping{}, fmt.Errorf("invalid activity id in mapping %q", s)
	}
	return Mapping{Backend: backend, ProjectID: project, ActivityID: activity}, nil
}

// Database holds every known alias mapping. It satisfies the resolver
// interface the timesheet filters rely on.
type Database struct {
	mappings map[string]Mapping
}

// NewDatabase returns an empty alias database.
func NewDatabase() *Database {
	return &Database{mappings: make(map[string]Mapping)}
}

// FromConfig builds a database out of per-backend alias sections, each
// mapping alias names to "project_id/activity_id" strings.
func FromConfig(sections map[string]map[string]string) (*Database, error) {
	db := NewDatabase()
	for backend, section := range sections {
		for alias, value := range section {
			mapping, err := ParseMapping(backend, value)
			if err != nil {
				return nil, fmt.Errorf("alias %q: %w", alias, err)
			}
			db.Add(alias, mapping)
		}
	}
	return db, nil
}

// Add registers or replaces the mapping for an alias.
func (d *Database) Add(alias string, mapping Mapping) {
	d.mappings[alias] = mapping
}

// Remove deletes an alias.
func (d *Database) Remove(alias string) {
	delete(d.mappings, alias)
}

// Resolve returns the mapping for an alias.
func (d *Database) Resolve(alias string) (Mapping, bool) {
	m, ok := d.mappings[alias]
	return m, ok
}

// IsMapped reports whether the alias is known.
func (d *Database) IsMapped(alias string) bool {
	_, ok := d.mappings[alias]
	return ok
}

// Aliases returns all known aliases in lexical order.
func (d *Database) Aliases() []string {
	out := make([]string, 0, len(d.mappings))
	for alias := range d.mappings {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Search returns the aliases containing the query, in lexical order. An
// empty query matches everything.
func (d *Database) Search(query string) []string {
	query = strings.ToLower(query)
	var out []string
	for _, alias := range d.Aliases() {
		if strings.Contains(strings.ToLower(alias), query) {
			out = append(out, alias)
		}
	}
	return out
}
