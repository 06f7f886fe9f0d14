// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"bytes"
	"fmt"

	"github.com/bureau-foundation/bnlogs/lib/codec"
)

// Hash tree node tags, as encoded in read_state certificates.
const (
	treeEmpty   = 0
	treeFork    = 1
	treeLabeled = 2
	treeLeaf    = 3
	treePruned  = 4
)

// hashTree is a decoded certificate hash tree node. Only the fields
// relevant to the node's kind are set.
type hashTree struct {
	kind  int
	left  *hashTree // fork
	right *hashTree // fork
	label []byte    // labeled
	child *hashTree // labeled
	value []byte    // leaf value or pruned digest
}

// decodeHashTree decodes one CBOR-encoded hash tree node and its
// descendants.
func decodeHashTree(raw codec.RawMessage) (*hashTree, error) {
	var items []codec.RawMessage
	if err := codec.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding hash tree node: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("decoding hash tree node: empty array")
	}

	var kind int
	if err := codec.Unmarshal(items[0], &kind); err != nil {
		return nil, fmt.Errorf("decoding hash tree node tag: %w", err)
	}

	node := &hashTree{kind: kind}
	switch kind {
	case treeEmpty:
		if len(items) != 1 {
			return nil, fmt.Errorf("empty node has %d elements", len(items))
		}
	case treeFork:
		if len(items) != 3 {
			return nil, fmt.Errorf("fork node has %d elements", len(items))
		}
		var err error
		if node.left, err = decodeHashTree(items[1]); err != nil {
			return nil, err
		}
		if node.right, err = decodeHashTree(items[2]); err != nil {
			return nil, err
		}
	case treeLabeled:
		if len(items) != 3 {
			return nil, fmt.Errorf("labeled node has %d elements", len(items))
		}
		if err := codec.Unmarshal(items[1], &node.label); err != nil {
			return nil, fmt.Errorf("decoding label: %w", err)
		}
		var err error
		if node.child, err = decodeHashTree(items[2]); err != nil {
			return nil, err
		}
	case treeLeaf, treePruned:
		if len(items) != 2 {
			return nil, fmt.Errorf("node kind %d has %d elements", kind, len(items))
		}
		if err := codec.Unmarshal(items[1], &node.value); err != nil {
			return nil, fmt.Errorf("decoding node value: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown hash tree node kind %d", kind)
	}
	return node, nil
}

// labeledChildren returns the labeled nodes reachable from t through
// forks only, in tree (left-to-right) order. Empty and pruned
// branches contribute nothing.
func (t *hashTree) labeledChildren() []*hashTree {
	if t == nil {
		return nil
	}
	switch t.kind {
	case treeLabeled:
		return []*hashTree{t}
	case treeFork:
		return append(t.left.labeledChildren(), t.right.labeledChildren()...)
	default:
		return nil
	}
}

// lookup returns the subtree under label among t's labeled children,
// or nil if absent.
func (t *hashTree) lookup(label string) *hashTree {
	for _, child := range t.labeledChildren() {
		if bytes.Equal(child.label, []byte(label)) {
			return child.child
		}
	}
	return nil
}
