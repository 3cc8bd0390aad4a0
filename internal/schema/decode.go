// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package schema

import (
	"errors"
	"sort"
)

// =============================================================================
// DECODE
// =============================================================================

// decoder accumulates findings across the whole tree so that one pass can
// report every problem at once.
type decoder struct {
	warnings []Warning
	invalid  []error
	missing  []string
}

// Decode validates raw against g. Unknown keys become warnings. The error,
// if any, joins every ValueError with a single MissingKeysError.
func (g *Group) Decode(raw map[string]any) (*Record, []Warning, error) {
	d := &decoder{}
	rec := d.group(g, raw, prefixFor("", g.Name))
	if err := d.err(); err != nil {
		return nil, d.warnings, err
	}
	return rec, d.warnings, nil
}

func (d *decoder) group(g *Group, raw map[string]any, prefix string) *Record {
	rec := NewRecord(g)
	seen := make(map[string]bool, len(raw))

	// Sorted so warnings come out in a stable order.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := raw[key]
		f, ok := g.Field(key)
		if !ok {
			d.warnings = append(d.warnings, Warning{Key: prefix + key})
			continue
		}
		seen[key] = true

		if f.Kind == KindGroup {
			sub, ok := val.(map[string]any)
			if !ok {
				d.invalid = append(d.invalid, typeError(prefix+key, "table", val))
				continue
			}
			rec.values[key] = d.group(f.Group, sub, prefix+key+".")
			continue
		}

		v, err := f.validator().Validate(key, val, prefix)
		if err != nil {
			d.invalid = append(d.invalid, err)
			continue
		}
		rec.values[key] = v
	}

	for _, f := range g.Fields {
		if seen[f.Name] {
			continue
		}
		if f.Optional {
			if f.Default != nil {
				rec.values[f.Name] = f.Default
			}
			continue
		}
		if f.Kind == KindGroup {
			d.missingGroup(f.Group, prefix+f.Name)
			continue
		}
		d.missing = append(d.missing, prefix+f.Name)
	}
	return rec
}

// missingGroup reports every required key under an absent group. A group
// with no required keys is reported by its own name.
func (d *decoder) missingGroup(g *Group, path string) {
	before := len(d.missing)
	for _, f := range g.Fields {
		if f.Optional {
			continue
		}
		if f.Kind == KindGroup {
			d.missingGroup(f.Group, path+"."+f.Name)
			continue
		}
		d.missing = append(d.missing, path+"."+f.Name)
	}
	if len(d.missing) == before {
		d.missing = append(d.missing, path)
	}
}

func (d *decoder) err() error {
	errs := append([]error(nil), d.invalid...)
	if len(d.missing) > 0 {
		errs = append(errs, &MissingKeysError{Keys: d.missing})
	}
	return errors.Join(errs...)
}

func prefixFor(parent, name string) string {
	if name == "" {
		return parent
	}
	return parent + name + "."
}

// =============================================================================
// ENCODE
// =============================================================================

// Encode renders r as nested maps keyed like the input Decode accepts. Unset
// fields are omitted.
func (g *Group) Encode(r *Record) map[string]any {
	out := make(map[string]any, len(g.Fields))
	for _, f := range g.Fields {
		v, ok := r.Lookup(f.Name)
		if !ok {
			continue
		}
		if f.Kind == KindGroup {
			sub, _ := v.(*Record)
			if sub == nil {
				continue
			}
			out[f.Name] = f.Group.Encode(sub)
			continue
		}
		out[f.Name] = v
	}
	return out
}
