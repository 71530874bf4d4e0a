package query

import (
	"fmt"
	"strings"
)

// Op is a comparison operator.
type Op int

const (
	OpEquals Op = iota
	OpContains
	OpIn
)

// Clause is one node of a filter tree.
type Clause interface {
	compile(s *Schema, args []any) (string, []any, error)
}

type predicate struct {
	field Field
	op    Op
	value any
}

// Equals matches rows where field equals v.
func Equals(f Field, v any) Clause { return predicate{field: f, op: OpEquals, value: v} }

// Contains is a case-insensitive substring match.
func Contains(f Field, s string) Clause { return predicate{field: f, op: OpContains, value: s} }

// In matches rows where field is one of values. No values matches nothing.
func In[T any](f Field, values []T) Clause {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return predicate{field: f, op: OpIn, value: vs}
}

func (p predicate) compile(s *Schema, args []any) (string, []any, error) {
	col, err := s.qualified(p.field)
	if err != nil {
		return "", args, err
	}

	switch p.op {
	case OpEquals:
		return col + " = ?", append(args, p.value), nil
	case OpContains:
		text, _ := p.value.(string)
		pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
		return "LOWER(" + col + `) LIKE ? ESCAPE '\'`, append(args, pattern), nil
	case OpIn:
		vs, _ := p.value.([]any)
		if len(vs) == 0 {
			return "1 = 0", args, nil
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(vs)), ", ")
		return col + " IN (" + marks + ")", append(args, vs...), nil
	default:
		return "", args, fmt.Errorf("unsupported operator %d", p.op)
	}
}

type group struct {
	joiner  string
	clauses []Clause
	empty   string
}

// And matches rows satisfying every clause. No clauses matches everything.
func And(cs ...Clause) Clause { return group{joiner: " AND ", clauses: cs, empty: "1 = 1"} }

// Or matches rows satisfying at least one clause. No clauses matches nothing.
func Or(cs ...Clause) Clause { return group{joiner: " OR ", clauses: cs, empty: "1 = 0"} }

func (g group) compile(s *Schema, args []any) (string, []any, error) {
	if len(g.clauses) == 0 {
		return g.empty, args, nil
	}

	parts := make([]string, 0, len(g.clauses))
	for _, c := range g.clauses {
		var (
			sql string
			err error
		)
		sql, args, err = c.compile(s, args)
		if err != nil {
			return "", args, err
		}
		parts = append(parts, sql)
	}
	if len(parts) == 1 {
		return parts[0], args, nil
	}
	return "(" + strings.Join(parts, g.joiner) + ")", args, nil
}

type some struct {
	relation string
	clauses  []Clause
}

// Some matches rows with at least one related row satisfying every clause.
func Some(relation string, cs ...Clause) Clause { return some{relation: relation, clauses: cs} }

func (r some) compile(s *Schema, args []any) (string, []any, error) {
	rel, err := s.relation(r.relation)
	if err != nil {
		return "", args, err
	}
	inner, args, err := And(r.clauses...).compile(rel.Target, args)
	if err != nil {
		return "", args, err
	}
	return fmt.Sprintf(rel.Exists, inner), args, nil
}

// Where compiles clauses joined by AND. An empty list yields an empty string.
func Where(s *Schema, clauses []Clause) (string, []any, error) {
	if len(clauses) == 0 {
		return "", nil, nil
	}
	sql, args, err := And(clauses...).compile(s, nil)
	if err != nil {
		return "", nil, err
	}
	return " WHERE " + sql, args, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
