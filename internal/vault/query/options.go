package query

import (
	"fmt"
	"math"
	"strings"
)

// Set assigns a value to a field in an update.
type Set struct {
	Field Field
	Value any
}

func Assign(f Field, v any) Set { return Set{Field: f, Value: v} }

// Assignments compiles sets into "col = ?, col = ?" using bare column names.
func Assignments(s *Schema, sets []Set) (string, []any, error) {
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("no fields to update for %s", s.Table)
	}

	parts := make([]string, 0, len(sets))
	args := make([]any, 0, len(sets))
	for _, set := range sets {
		col, err := s.Column(set.Field)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, col+" = ?")
		args = append(args, set.Value)
	}
	return strings.Join(parts, ", "), args, nil
}

type Order struct {
	Field Field
	Desc  bool
}

// Options tune a FindMany call.
type Options struct {
	Order  []Order
	Limit  int
	Offset int
}

type Option func(*Options)

func OrderBy(f Field) Option {
	return func(o *Options) { o.Order = append(o.Order, Order{Field: f}) }
}

func OrderByDesc(f Field) Option {
	return func(o *Options) { o.Order = append(o.Order, Order{Field: f, Desc: true}) }
}

func Limit(n int) Option { return func(o *Options) { o.Limit = n } }

// Offset applies only together with a positive Limit.
func Offset(n int) Option { return func(o *Options) { o.Offset = n } }

// Page converts a 1-based page number and size into Limit and Offset.
func Page(page, size int) Option {
	return func(o *Options) {
		if size <= 0 {
			return
		}
		if page < 1 {
			page = 1
		}
		o.Limit = size
		if page-1 > math.MaxInt/size {
			// Past any reachable row.
			o.Offset = math.MaxInt
			return
		}
		o.Offset = (page - 1) * size
	}
}

func Collect(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Tail renders ORDER BY, LIMIT and OFFSET.
func Tail(s *Schema, o Options) (string, error) {
	var b strings.Builder

	for i, ord := range o.Order {
		col, err := s.qualified(ord.Field)
		if err != nil {
			return "", err
		}
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(col)
		if ord.Desc {
			b.WriteString(" DESC")
		}
	}

	if o.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", o.Limit)
		if o.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", o.Offset)
		}
	}

	return b.String(), nil
}
