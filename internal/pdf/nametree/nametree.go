// Package nametree flattens PDF name trees and number trees into their
// leaf key/value pairs.
//
// Both tree flavours share the same node shape: intermediate nodes list
// their children under Kids, leaves hold a flat [key value key value ...]
// array under Names (name trees) or Nums (number trees).
package nametree

import (
	"iter"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Kind selects the leaf array inspected on each node.
type Kind string

const (
	Names Kind = "Names"
	Nums  Kind = "Nums"
)

// Resolver follows indirect references in the object graph.
// *model.Context satisfies it.
type Resolver interface {
	DereferenceDict(o types.Object) (types.Dict, error)
	DereferenceArray(o types.Object) (types.Array, error)
}

// All returns the leaf entries of the tree rooted at root, in document order.
//
// The sequence is lazy and walks the graph again every time it is ranged
// over, so it stays valid after the graph has been mutated. Kids that do not
// resolve to a dictionary contribute no entries, as does a node that has
// neither Kids nor the leaf array. A trailing key without a value is dropped.
func All(r Resolver, root types.Dict, kind Kind) iter.Seq2[types.Object, types.Object] {
	return func(yield func(types.Object, types.Object) bool) {
		if root == nil {
			return
		}

		visited := map[types.IndirectRef]bool{}
		stack := []types.Dict{root}

		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if kids, ok := kidsOf(r, node); ok {
				// push in reverse so the first kid is visited first
				for i := len(kids) - 1; i >= 0; i-- {
					if ref, isRef := kids[i].(types.IndirectRef); isRef {
						if visited[ref] {
							continue
						}
						visited[ref] = true
					}
					kid, err := r.DereferenceDict(kids[i])
					if err != nil || kid == nil {
						continue
					}
					stack = append(stack, kid)
				}
				continue
			}

			leaves, ok := leafArray(r, node, kind)
			if !ok {
				continue
			}
			for i := 0; i+1 < len(leaves); i += 2 {
				if !yield(leaves[i], leaves[i+1]) {
					return
				}
			}
		}
	}
}

// NameEntries flattens a name tree.
func NameEntries(r Resolver, root types.Dict) iter.Seq2[types.Object, types.Object] {
	return All(r, root, Names)
}

// NumberEntries flattens a number tree.
func NumberEntries(r Resolver, root types.Dict) iter.Seq2[types.Object, types.Object] {
	return All(r, root, Nums)
}

func kidsOf(r Resolver, node types.Dict) (types.Array, bool) {
	o, found := node.Find("Kids")
	if !found {
		return nil, false
	}
	kids, err := r.DereferenceArray(o)
	if err != nil || kids == nil {
		return nil, false
	}
	return kids, true
}

func leafArray(r Resolver, node types.Dict, kind Kind) (types.Array, bool) {
	o, found := node.Find(string(kind))
	if !found {
		return nil, false
	}
	arr, err := r.DereferenceArray(o)
	if err != nil || arr == nil {
		return nil, false
	}
	return arr, true
}
