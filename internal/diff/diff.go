// Package diff computes and applies structural patches between two JSON
// metadata documents, per §3.4 and §4.4 of the format. A patch is itself a
// JSON value: an ordered list of operations, each naming the path it touches
// so Patch can replay them against a previous document without needing any
// context beyond that document and the patch bytes.
//
// Numbers are decoded with json.Number throughout, never float64, so a
// metadata value like a 64-bit cycle counter round-trips without precision
// loss through diff and patch.
package diff

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/v86io/savestream/errs"
)

// PathElem is one step of a path into a JSON document: either an object key
// or an array index. Exactly one of Key/Index is meaningful, selected by
// IsIndex.
type PathElem struct {
	Key     string
	Index   int
	IsIndex bool
}

// MarshalJSON encodes a key element as a JSON string and an index element as
// a JSON number, so paths read naturally in the serialized patch.
func (p PathElem) MarshalJSON() ([]byte, error) {
	if p.IsIndex {
		return json.Marshal(p.Index)
	}

	return json.Marshal(p.Key)
}

// UnmarshalJSON decodes a JSON number back into an index element and a JSON
// string back into a key element.
func (p *PathElem) UnmarshalJSON(data []byte) error {
	var asIndex int
	if err := json.Unmarshal(data, &asIndex); err == nil {
		p.IsIndex = true
		p.Index = asIndex

		return nil
	}

	var asKey string
	if err := json.Unmarshal(data, &asKey); err != nil {
		return fmt.Errorf("%w: path element is neither a string nor a number: %s", errs.ErrMalformedInfo, data)
	}

	p.IsIndex = false
	p.Key = asKey

	return nil
}

// Child is one added or removed value, grouped under its parent op by key or
// index rather than emitted as its own top-level op.
type Child struct {
	Key   PathElem    `json:"key"`
	Value interface{} `json:"value"`
}

// Op is a single structural edit. Kind is one of "add", "remove", or
// "change". add and remove carry Children (the values introduced or
// dropped at Path); change carries Old and New, the full replaced values.
type Op struct {
	Kind     string      `json:"kind"`
	Path     []PathElem  `json:"path"`
	Children []Child     `json:"children,omitempty"`
	Old      interface{} `json:"old,omitempty"`
	New      interface{} `json:"new,omitempty"`
}

const (
	opAdd    = "add"
	opRemove = "remove"
	opChange = "change"
)

// Diff compares prevJSON against currJSON and returns the ordered list of
// operations, serialized as JSON, that Patch(prevJSON, result) would need to
// reproduce currJSON. Both arguments must be JSON object or array documents.
func Diff(prevJSON, currJSON []byte) ([]byte, error) {
	prev, err := decodeDoc(prevJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: previous document: %v", errs.ErrMalformedInfo, err)
	}

	curr, err := decodeDoc(currJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: current document: %v", errs.ErrMalformedInfo, err)
	}

	var ops []Op
	diffValue(nil, prev, curr, &ops)

	out, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedInfo, err)
	}

	return out, nil
}

// Patch applies a diff produced by Diff to prevJSON and returns the
// resulting document.
func Patch(prevJSON, patchJSON []byte) ([]byte, error) {
	prev, err := decodeDoc(prevJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: base document: %v", errs.ErrMalformedInfo, err)
	}

	var ops []Op
	dec := json.NewDecoder(bytes.NewReader(patchJSON))
	dec.UseNumber()
	if err := dec.Decode(&ops); err != nil {
		return nil, fmt.Errorf("%w: patch is not a valid operation list: %v", errs.ErrMalformedInfo, err)
	}

	root := prev
	for i, op := range ops {
		var err error
		root, err = applyOp(root, op)
		if err != nil {
			return nil, fmt.Errorf("%w: operation %d: %v", errs.ErrMalformedInfo, i, err)
		}
	}

	out, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedInfo, err)
	}

	return out, nil
}

// decodeDoc decodes a JSON document using json.Number for every number, via
// a Decoder with UseNumber: naive decode into interface{} loses int64/uint64
// precision above 2^53 by routing numbers through float64.
func decodeDoc(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}

func diffValue(path []PathElem, prev, curr interface{}, ops *[]Op) {
	prevMap, prevIsMap := prev.(map[string]interface{})
	currMap, currIsMap := curr.(map[string]interface{})
	if prevIsMap && currIsMap {
		diffObject(path, prevMap, currMap, ops)
		return
	}

	prevArr, prevIsArr := prev.([]interface{})
	currArr, currIsArr := curr.([]interface{})
	if prevIsArr && currIsArr {
		diffArray(path, prevArr, currArr, ops)
		return
	}

	if !valueEqual(prev, curr) {
		*ops = append(*ops, Op{Kind: opChange, Path: clonePath(path), Old: prev, New: curr})
	}
}

func diffObject(path []PathElem, prev, curr map[string]interface{}, ops *[]Op) {
	var removed, added []Child

	for k, pv := range prev {
		if _, ok := curr[k]; !ok {
			removed = append(removed, Child{Key: PathElem{Key: k}, Value: pv})
		}
	}

	for k, cv := range curr {
		if _, ok := prev[k]; !ok {
			added = append(added, Child{Key: PathElem{Key: k}, Value: cv})
		}
	}

	if len(removed) > 0 {
		*ops = append(*ops, Op{Kind: opRemove, Path: clonePath(path), Children: removed})
	}
	if len(added) > 0 {
		*ops = append(*ops, Op{Kind: opAdd, Path: clonePath(path), Children: added})
	}

	for k, pv := range prev {
		if cv, ok := curr[k]; ok {
			diffValue(append(clonePath(path), PathElem{Key: k}), pv, cv, ops)
		}
	}
}

// diffArray compares element-wise over the common-length prefix and treats
// any length difference as a single tail truncate-or-append, rather than
// computing a minimal edit script: savestream metadata arrays (buffer_infos,
// device lists) grow and shrink at the tail in practice, so this stays both
// cheap and easy to replay exactly.
func diffArray(path []PathElem, prev, curr []interface{}, ops *[]Op) {
	common := len(prev)
	if len(curr) < common {
		common = len(curr)
	}

	for i := 0; i < common; i++ {
		diffValue(append(clonePath(path), PathElem{Index: i, IsIndex: true}), prev[i], curr[i], ops)
	}

	if len(prev) > common {
		var removed []Child
		for i := common; i < len(prev); i++ {
			removed = append(removed, Child{Key: PathElem{Index: i, IsIndex: true}, Value: prev[i]})
		}
		*ops = append(*ops, Op{Kind: opRemove, Path: clonePath(path), Children: removed})
	}

	if len(curr) > common {
		var added []Child
		for i := common; i < len(curr); i++ {
			added = append(added, Child{Key: PathElem{Index: i, IsIndex: true}, Value: curr[i]})
		}
		*ops = append(*ops, Op{Kind: opAdd, Path: clonePath(path), Children: added})
	}
}

func applyOp(root interface{}, op Op) (interface{}, error) {
	switch op.Kind {
	case opChange:
		return setAtPath(root, op.Path, func(interface{}) (interface{}, error) { return op.New, nil })
	case opRemove:
		return setAtPath(root, op.Path, func(container interface{}) (interface{}, error) {
			return removeChildren(container, op.Children)
		})
	case opAdd:
		return setAtPath(root, op.Path, func(container interface{}) (interface{}, error) {
			return addChildren(container, op.Children)
		})
	default:
		return nil, fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

func removeChildren(container interface{}, children []Child) (interface{}, error) {
	if m, ok := container.(map[string]interface{}); ok {
		out := cloneMap(m)
		for _, c := range children {
			delete(out, c.Key.Key)
		}

		return out, nil
	}

	if arr, ok := container.([]interface{}); ok {
		cut := len(arr)
		for _, c := range children {
			if c.Key.Index < cut {
				cut = c.Key.Index
			}
		}

		return append([]interface{}{}, arr[:cut]...), nil
	}

	return nil, fmt.Errorf("remove op path does not address an object or array")
}

func addChildren(container interface{}, children []Child) (interface{}, error) {
	if container == nil {
		container = map[string]interface{}{}
	}

	if m, ok := container.(map[string]interface{}); ok {
		out := cloneMap(m)
		for _, c := range children {
			out[c.Key.Key] = c.Value
		}

		return out, nil
	}

	if arr, ok := container.([]interface{}); ok {
		out := append([]interface{}{}, arr...)
		for _, c := range children {
			out = append(out, c.Value)
		}

		return out, nil
	}

	return nil, fmt.Errorf("add op path does not address an object or array")
}

// setAtPath rebuilds only the spine of containers along path, applying
// mutate to the value found at path and leaving every sibling subtree
// shared with root rather than deep-copied.
func setAtPath(root interface{}, path []PathElem, mutate func(interface{}) (interface{}, error)) (interface{}, error) {
	if len(path) == 0 {
		return mutate(root)
	}

	head, rest := path[0], path[1:]

	if head.IsIndex {
		arr, ok := root.([]interface{})
		if !ok || head.Index < 0 || head.Index >= len(arr) {
			return nil, fmt.Errorf("%w: array index %d out of range", errs.ErrOutOfRange, head.Index)
		}

		out := append([]interface{}{}, arr...)
		updated, err := setAtPath(out[head.Index], rest, mutate)
		if err != nil {
			return nil, err
		}
		out[head.Index] = updated

		return out, nil
	}

	m, ok := root.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("path element %q does not address an object", head.Key)
	}

	out := cloneMap(m)
	updated, err := setAtPath(out[head.Key], rest, mutate)
	if err != nil {
		return nil, err
	}
	out[head.Key] = updated

	return out, nil
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

func clonePath(path []PathElem) []PathElem {
	return append([]PathElem{}, path...)
}

func valueEqual(a, b interface{}) bool {
	an, aok := a.(json.Number)
	bn, bok := b.(json.Number)
	if aok && bok {
		return an == bn
	}

	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}

	return bytes.Equal(aj, bj)
}
