package assemble

import (
	"fmt"

	"github.com/tsawler/sigil/core"
)

// ObjectSource supplies objects by reference during a copy. *reader.Reader
// satisfies it.
type ObjectSource interface {
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// copier walks an object graph from a source document, assigning fresh
// object numbers as it goes. Each source reference is copied once; the
// mapping makes shared objects stay shared and lets cyclic structures (the
// page tree's Parent back-references) terminate.
type copier struct {
	src     ObjectSource
	mapping map[core.IndirectRef]int
	objects map[int]core.Object
	next    int
}

func newCopier(src ObjectSource) *copier {
	return &copier{
		src:     src,
		mapping: make(map[core.IndirectRef]int),
		objects: make(map[int]core.Object),
		next:    1,
	}
}

// copyRef copies the referenced object and everything reachable from it,
// returning the reference in the new numbering. The mapping entry is
// recorded before recursing so back-references resolve to the in-progress
// object instead of looping.
func (c *copier) copyRef(ref core.IndirectRef) (core.IndirectRef, error) {
	if num, ok := c.mapping[ref]; ok {
		return core.IndirectRef{Number: num}, nil
	}

	num := c.next
	c.next++
	c.mapping[ref] = num

	obj, err := c.src.ResolveReference(ref)
	if err != nil {
		return core.IndirectRef{}, fmt.Errorf("resolving %d %d R: %w", ref.Number, ref.Generation, err)
	}

	copied, err := c.copyObject(obj)
	if err != nil {
		return core.IndirectRef{}, fmt.Errorf("copying %d %d R: %w", ref.Number, ref.Generation, err)
	}

	c.objects[num] = copied
	return core.IndirectRef{Number: num}, nil
}

// copyObject deep-copies containers, rewriting nested references into the
// new numbering. Scalars are immutable and pass through.
func (c *copier) copyObject(obj core.Object) (core.Object, error) {
	switch v := obj.(type) {
	case core.IndirectRef:
		return c.copyRef(v)

	case core.Dict:
		copied := make(core.Dict, len(v))
		for key, value := range v {
			cv, err := c.copyObject(value)
			if err != nil {
				return nil, fmt.Errorf("dict key %s: %w", key, err)
			}
			copied[key] = cv
		}
		return copied, nil

	case core.Array:
		copied := make(core.Array, len(v))
		for i, elem := range v {
			ce, err := c.copyObject(elem)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			copied[i] = ce
		}
		return copied, nil

	case *core.Stream:
		dict, err := c.copyObject(v.Dict)
		if err != nil {
			return nil, fmt.Errorf("stream dict: %w", err)
		}
		data := make([]byte, len(v.Data))
		copy(data, v.Data)
		return &core.Stream{Dict: dict.(core.Dict), Data: data}, nil

	default:
		return obj, nil
	}
}

// allocate registers a brand-new object that has no source counterpart
func (c *copier) allocate(obj core.Object) core.IndirectRef {
	num := c.next
	c.next++
	c.objects[num] = obj
	return core.IndirectRef{Number: num}
}

// deref follows a reference within the copied graph. Non-reference objects
// come back unchanged.
func (c *copier) deref(obj core.Object) core.Object {
	for {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj
		}
		obj = c.objects[ref.Number]
		if obj == nil {
			return nil
		}
	}
}
