package abcparse

import "strings"

// leadingFields are written first, in this order, when present.
var leadingFields = []byte{'X', 'T', 'C', 'M', 'L', 'K'}

// headerMap holds one value per field letter and remembers the order in which
// fields were first seen.
type headerMap struct {
	order  []byte
	values map[byte]string
}

func newHeaderMap() *headerMap {
	return &headerMap{values: make(map[byte]string)}
}

func (h *headerMap) set(field byte, value string) {
	if _, ok := h.values[field]; !ok {
		h.order = append(h.order, field)
	}
	h.values[field] = value
}

func (h *headerMap) clone() *headerMap {
	out := &headerMap{
		order:  append([]byte(nil), h.order...),
		values: make(map[byte]string, len(h.values)),
	}
	for k, v := range h.values {
		out.values[k] = v
	}
	return out
}

// merge returns base overlaid with override. Fields new to base keep the
// order in which override saw them.
func merge(base, override *headerMap) *headerMap {
	out := base.clone()
	for _, field := range override.order {
		out.set(field, override.values[field])
	}
	return out
}

// lines renders the map as header lines: the leading fields first, then
// everything else in encounter order.
func (h *headerMap) lines() []string {
	out := make([]string, 0, len(h.order))
	written := make(map[byte]bool, len(h.order))
	for _, field := range leadingFields {
		if value, ok := h.values[field]; ok {
			out = append(out, headerLine(field, value))
			written[field] = true
		}
	}
	for _, field := range h.order {
		if written[field] {
			continue
		}
		out = append(out, headerLine(field, h.values[field]))
	}
	return out
}

func headerLine(field byte, value string) string {
	return string(field) + ":" + value
}

// fieldSet is the configurable set of per-tune-only field letters.
type fieldSet map[byte]struct{}

func newFieldSet(fields []string) fieldSet {
	set := make(fieldSet, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if len(field) == 1 && isFieldLetter(field[0]) {
			set[field[0]] = struct{}{}
		}
	}
	return set
}

func (s fieldSet) contains(field byte) bool {
	_, ok := s[field]
	return ok
}

// inheritance tracks the headers that flow from one tune to the next.
type inheritance struct {
	perTune   fieldSet
	inherited *headerMap
}

func newInheritance(perTune fieldSet) *inheritance {
	return &inheritance{perTune: perTune, inherited: newHeaderMap()}
}

// isPerTune reports whether field never carries over to the next tune.
func (in *inheritance) isPerTune(field byte) bool {
	return in.perTune.contains(field)
}

// carry records value for the following tunes. Per-tune fields and titles are
// ignored.
func (in *inheritance) carry(field byte, value string) {
	if field == 'T' || in.isPerTune(field) {
		return
	}
	in.inherited.set(field, value)
}

// snapshot returns the headers a tune committed now would inherit.
func (in *inheritance) snapshot() *headerMap {
	return in.inherited.clone()
}
