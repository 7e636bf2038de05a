// Package block implements the read-only block-state catalog spec.md §4.3
// describes: a static table, built once at process start, mapping every
// globally unique block-state id to its typed (kind, properties) form and
// back. The table itself is ordinarily produced offline from the vendor's
// reports/blocks.json (out of scope per spec.md §1); KindSpecs here play
// the role of that generator's output, embedded as Go literals the way
// spec.md §9's design note recommends.
package block

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/brentp/intintmap"
	"github.com/segmentio/fasthash/fnv1a"
	"github.com/zaataylor/cartesian/cartesian"
)

// ErrUnknownState is returned by IDFromState when no id in the catalog
// matches the state passed.
var ErrUnknownState = errors.New("block: unknown state")

// KindSpec is the offline-generator's output for one block family: its
// tag, its property schema (possibly empty, for a stateless block like
// air or stone), and which combination of property values is the
// default.
type KindSpec struct {
	Tag        string
	Properties []PropertySchema
	// Default selects the default state's values by property name. A
	// property omitted here defaults to its schema's first Values()
	// entry.
	Default map[string]any
}

// Registry is the built, immutable catalog: the three tables spec.md §6
// specifies (kind ranges+default, typed states, item→kind) plus a fast
// index used by the region loader to resolve name+properties without a
// per-call linear scan.
type Registry struct {
	kinds      map[string]*Kind
	kindOrder  []*Kind
	states     []State
	itemBlocks []string // index: item id -> kind tag, "" if none
	fast       *intintmap.IntIntMap
}

// Build constructs a Registry from a list of block-family specs and an
// item→block-tag table. Kinds are sorted by tag so that the global id
// space is contiguous and ascending by kind, matching spec.md §4.3's
// "linear-id-ascending iteration reproduces section order" invariant.
func Build(specs []KindSpec, itemBlocks []string) *Registry {
	sorted := make([]KindSpec, len(specs))
	copy(sorted, specs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	reg := &Registry{
		kinds: make(map[string]*Kind, len(sorted)),
		fast:  intintmap.New(len(sorted)*4+16, 0.999),
	}

	for _, spec := range sorted {
		k := &Kind{Tag: spec.Tag, Properties: spec.Properties}
		start := uint16(len(reg.states))

		combos := propertyCombinations(spec.Properties)
		defaultIdx := 0
		found := false
		for i, combo := range combos {
			id := uint16(len(reg.states))
			reg.states = append(reg.states, State{Kind: k, ID: id, Values: combo})
			reg.fast.Put(stateKey(spec.Tag, combo), int64(id))
			if !found && matchesDefault(combo, spec.Default) {
				defaultIdx = i
				found = true
			}
		}
		k.Start = start
		k.End = uint16(len(reg.states))
		k.Default = start + uint16(defaultIdx)

		reg.kinds[spec.Tag] = k
		reg.kindOrder = append(reg.kindOrder, k)
	}

	reg.itemBlocks = itemBlocks
	return reg
}

// propertyCombinations enumerates every value combination a kind's
// properties admit, in schema order, via the cartesian product — the
// same construction server/block/catalog.go's teacher
// (block_state.go's InsertCustomBlocks) uses for custom-block
// permutations.
func propertyCombinations(props []PropertySchema) []map[string]any {
	if len(props) == 0 {
		return []map[string]any{{}}
	}
	valueSets := make([][]any, len(props))
	for i, p := range props {
		valueSets[i] = p.Values()
	}
	perms := cartesian.NewCartesianProduct(valueSets).Values()
	out := make([]map[string]any, 0, len(perms))
	for _, perm := range perms {
		m := make(map[string]any, len(props))
		for i, v := range perm {
			m[props[i].Name] = v
		}
		out = append(out, m)
	}
	return out
}

func matchesDefault(combo, wantDefault map[string]any) bool {
	if len(wantDefault) == 0 {
		return false
	}
	for k, v := range wantDefault {
		if combo[k] != v {
			return false
		}
	}
	return true
}

// stateKey hashes a (tag, property values) pair into the int64 key space
// intintmap wants, replacing the teacher's unsafe-pointer byte-building
// (block_state.go's hashProperties) with a real hash function.
func stateKey(tag string, values map[string]any) int64 {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(tag)
	for _, k := range keys {
		b.WriteByte(0)
		b.WriteString(k)
		b.WriteByte('=')
		fmt.Fprintf(&b, "%v", values[k])
	}
	h := fnv1a.HashString64(b.String())
	return int64(h)
}

// IDFromState looks up the global id of a fully-specified state by
// linear-scanning its kind's [Start, End) range for an exact
// property-value match, per spec.md §4.3 (the range is at most 1296
// entries — 6 properties of up to... in practice far smaller — so a scan
// is cheap and avoids a second hash for the common call site, which
// already has the kind resolved).
func (r *Registry) IDFromState(s State) (uint16, error) {
	k, ok := r.kinds[s.Kind.Tag]
	if !ok {
		return 0, fmt.Errorf("%w: unknown kind %q", ErrUnknownState, s.Kind.Tag)
	}
	for id := k.Start; id < k.End; id++ {
		if equalValues(r.states[id].Values, s.Values) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownState, s)
}

// StateFromID returns the state at the given global id. It panics if id
// is out of range: an out-of-catalog id reaching this call is a logic
// violation per spec.md §7, not a recoverable input.
func (r *Registry) StateFromID(id uint16) State {
	return r.states[id]
}

// Total returns the size of the global state-id space.
func (r *Registry) Total() int { return len(r.states) }

// DefaultID returns the default state id for a block kind.
func (r *Registry) DefaultID(tag string) (uint16, bool) {
	k, ok := r.kinds[tag]
	if !ok {
		return 0, false
	}
	return k.Default, true
}

// Kind looks up a block kind by tag.
func (r *Registry) Kind(tag string) (*Kind, bool) {
	k, ok := r.kinds[tag]
	return k, ok
}

// FastIDFromNameAndProperties resolves a state id in O(1) from a
// namespaced-stripped block tag and its raw property-string map, the
// path the region loader (§4.5) exercises once per block during
// bootstrap rather than spec.md §4.3's linear-scan contract method.
func (r *Registry) FastIDFromNameAndProperties(tag string, raw map[string]string) (uint16, bool) {
	k, ok := r.kinds[tag]
	if !ok {
		return 0, false
	}
	values := make(map[string]any, len(raw))
	for _, p := range k.Properties {
		rv, ok := raw[p.Name]
		if !ok {
			continue
		}
		values[p.Name] = p.ParseValue(rv)
	}
	id, ok := r.fast.Get(stateKey(tag, values))
	return uint16(id), ok
}

// StateFromPropertyList starts from tag's default state and overwrites
// the fields named in props, parsing each value by its schema type.
// Per spec.md §4.3, a property name the kind doesn't declare is a fatal
// contract violation.
func (r *Registry) StateFromPropertyList(tag string, props [][2]string) State {
	k, ok := r.kinds[tag]
	if !ok {
		panic(fmt.Sprintf("block: unknown kind %q", tag))
	}
	def := r.states[k.Default]
	values := make(map[string]any, len(def.Values))
	for key, v := range def.Values {
		values[key] = v
	}
	for _, kv := range props {
		name, raw := kv[0], kv[1]
		schema, ok := k.Property(name)
		if !ok {
			panic(fmt.Sprintf("block: unknown property %q on kind %q", name, tag))
		}
		values[name] = schema.ParseValue(raw)
	}
	id, err := r.IDFromState(State{Kind: k, Values: values})
	if err != nil {
		panic(fmt.Sprintf("block: %v", err))
	}
	return r.states[id]
}

// ItemToBlock looks up the block kind tag an item id places, if any.
func (r *Registry) ItemToBlock(itemID uint32) (string, bool) {
	if int(itemID) >= len(r.itemBlocks) {
		return "", false
	}
	tag := r.itemBlocks[itemID]
	return tag, tag != ""
}
