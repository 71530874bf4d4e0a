// Package query builds SQL predicates from typed clauses. Filters are data
// ({field, operator, value}) checked against a per-entity Schema, so no
// caller-provided text ever reaches the SQL string.
package query

import "fmt"

// Field is the caller-facing name of a filterable attribute, e.g. "title".
type Field string

// Schema maps the fields of one entity onto its table.
type Schema struct {
	Table string
	// Alias qualifies columns in predicates. Defaults to Table.
	Alias     string
	Columns   map[Field]string
	Relations map[string]Relation
}

// Relation links a Schema to a related entity. Exists is an EXISTS subquery
// with a single %s verb that receives the predicate compiled against Target.
type Relation struct {
	Target *Schema
	Exists string
}

func (s *Schema) qualifier() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Table
}

// Column returns the bare column name for f.
func (s *Schema) Column(f Field) (string, error) {
	col, ok := s.Columns[f]
	if !ok {
		return "", fmt.Errorf("unknown field %q for %s", f, s.Table)
	}
	return col, nil
}

func (s *Schema) qualified(f Field) (string, error) {
	col, err := s.Column(f)
	if err != nil {
		return "", err
	}
	return s.qualifier() + "." + col, nil
}

func (s *Schema) relation(name string) (Relation, error) {
	rel, ok := s.Relations[name]
	if !ok || rel.Target == nil {
		return Relation{}, fmt.Errorf("unknown relation %q for %s", name, s.Table)
	}
	return rel, nil
}
