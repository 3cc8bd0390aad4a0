// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package schema

import (
	"fmt"
	"time"
)

// =============================================================================
// FIELD DESCRIPTORS
// =============================================================================

// Kind is the structural kind of a field value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindTimestamp
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindTimestamp:
		return "datetime"
	case KindGroup:
		return "table"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field describes one key inside a Group.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	// Default is used for an absent optional field. A nil default leaves the
	// field unset.
	Default   any
	Validator Validator
	// Group is set when Kind is KindGroup.
	Group *Group
}

// validator returns the bound validator, falling back to a plain kind check.
func (f Field) validator() Validator {
	if f.Validator != nil {
		return f.Validator
	}
	switch f.Kind {
	case KindInt:
		return Int{}
	case KindTimestamp:
		return Timestamp{}
	default:
		return String{}
	}
}

// Required declares a required field. The kind is taken from the validator.
func Required(name string, v Validator) Field {
	return Field{Name: name, Kind: v.Kind(), Validator: v}
}

// Optional declares an optional field with a default. Pass nil to leave the
// field unset when absent.
func Optional(name string, v Validator, def any) Field {
	return Field{Name: name, Kind: v.Kind(), Optional: true, Default: def, Validator: v}
}

// Nested declares a required sub-group keyed by the group's name.
func Nested(g *Group) Field {
	return Field{Name: g.Name, Kind: KindGroup, Group: g}
}

// OptionalNested declares a sub-group that may be absent.
func OptionalNested(g *Group) Field {
	return Field{Name: g.Name, Kind: KindGroup, Optional: true, Group: g}
}

// =============================================================================
// GROUP
// =============================================================================

// Group is a named, ordered set of fields. The root group has an empty name.
type Group struct {
	Name   string
	Fields []Field

	index map[string]int
}

// NewGroup builds a group and indexes its fields by name. Duplicate field
// names are a programming error.
func NewGroup(name string, fields ...Field) *Group {
	g := &Group{Name: name, Fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, dup := g.index[f.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate field %q in group %q", f.Name, name))
		}
		if f.Kind == KindGroup && f.Group == nil {
			panic(fmt.Sprintf("schema: group field %q has no group", f.Name))
		}
		g.index[f.Name] = i
	}
	return g
}

// Field looks up a field descriptor by key.
func (g *Group) Field(name string) (Field, bool) {
	i, ok := g.index[name]
	if !ok {
		return Field{}, false
	}
	return g.Fields[i], true
}

// =============================================================================
// RECORD
// =============================================================================

// Record holds the validated values of one Group. Values are string, int,
// time.Time or *Record depending on the field kind.
type Record struct {
	group  *Group
	values map[string]any
}

// NewRecord returns an empty record for g.
func NewRecord(g *Group) *Record {
	return &Record{group: g, values: make(map[string]any, len(g.Fields))}
}

// Group returns the group this record was built for.
func (r *Record) Group() *Group {
	return r.group
}

// Set stores a value for a declared field. A nil value unsets it.
func (r *Record) Set(name string, v any) *Record {
	if _, ok := r.group.Field(name); !ok {
		panic(fmt.Sprintf("schema: group %q has no field %q", r.group.Name, name))
	}
	if v == nil {
		delete(r.values, name)
		return r
	}
	r.values[name] = v
	return r
}

// Lookup returns the stored value and whether it is set.
func (r *Record) Lookup(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// String returns a string field or "".
func (r *Record) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Int returns an int field or 0.
func (r *Record) Int(name string) int {
	n, _ := r.values[name].(int)
	return n
}

// Time returns a timestamp field or the zero time.
func (r *Record) Time(name string) time.Time {
	t, _ := r.values[name].(time.Time)
	return t
}

// Sub returns a nested record or nil.
func (r *Record) Sub(name string) *Record {
	sub, _ := r.values[name].(*Record)
	return sub
}
