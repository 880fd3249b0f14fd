// Package network implements the Network model from spec §3/§4.2: it
// owns elements and nodes, assigns the canonical MNA unknown ordering
// (I4), and tracks pin→node connections.
//
// Grounded on the teacher's pkg/circuit/circuit.go (AssignNodeBranchMaps
// / SetupDevices), generalized from the teacher's string-keyed
// node/branch maps built from a netlist to spec's integer node/element
// ids built incrementally through a programmatic API, and from the
// teacher's occasional O(D) scans to the O(1)-per-mutation row maps
// spec §9's "Row-index lookup" design note asks for.
package network

import (
	"fmt"

	"github.com/nodalsim/mnacore/internal/consts"
	"github.com/nodalsim/mnacore/pkg/element"
	"github.com/nodalsim/mnacore/pkg/mnaerr"
)

type pinKey struct {
	elementID int
	pinIndex  int
}

// Network owns elements and nodes for one circuit (spec §3).
type Network struct {
	elements []element.Element

	nodeSet   map[int]bool
	nodeOrder []int       // non-ground node ids, ascending — I4
	nodeRow   map[int]int // node id -> row, kept in sync with nodeOrder
	nextNode  int

	connections map[pinKey]int

	extraUnknownOrder []int       // element ids, insertion order — I4
	extraUnknownRank  map[int]int // element id -> rank
}

// New returns an empty network with ground node 0 already present (I1).
func New() *Network {
	return &Network{
		nodeSet:          map[int]bool{consts.GroundNode: true},
		nodeRow:          make(map[int]int),
		nextNode:         1,
		connections:      make(map[pinKey]int),
		extraUnknownRank: make(map[int]int),
	}
}

// AddElement appends e and returns its id (monotone, insertion order).
func (n *Network) AddElement(e element.Element) int {
	id := len(n.elements)
	e.SetID(id)
	n.elements = append(n.elements, e)

	if e.Classify() == element.ExtraUnknown {
		n.extraUnknownRank[id] = len(n.extraUnknownOrder)
		n.extraUnknownOrder = append(n.extraUnknownOrder, id)
	}
	return id
}

// AddNode allocates a fresh positive node id.
func (n *Network) AddNode() int {
	id := n.nextNode
	n.nextNode++
	n.nodeSet[id] = true
	n.nodeRow[id] = len(n.nodeOrder)
	n.nodeOrder = append(n.nodeOrder, id)
	return id
}

// Connect records that elementID's pinIndex is wired to nodeID,
// overwriting any prior mapping for that pin (spec §4.2). Validates
// elementID, nodeID, and pinIndex per the failure modes the operation
// table names.
func (n *Network) Connect(elementID, pinIndex, nodeID int) error {
	e, err := n.elementByID(elementID)
	if err != nil {
		return err
	}
	if pinIndex < 0 || pinIndex >= e.PinCount() {
		return mnaerr.NewConfigurationError("connect", fmt.Sprintf("pin index %d out of range [0,%d)", pinIndex, e.PinCount()))
	}
	if !n.nodeSet[nodeID] {
		return mnaerr.NewConfigurationError("connect", fmt.Sprintf("unknown node %d", nodeID))
	}

	n.connections[pinKey{elementID, pinIndex}] = nodeID
	return e.Connect(pinIndex, nodeID)
}

// ConnectToGround is shorthand for Connect(elementID, pinIndex, 0).
func (n *Network) ConnectToGround(elementID, pinIndex int) error {
	return n.Connect(elementID, pinIndex, consts.GroundNode)
}

// Dimension returns D = (#non-ground nodes) + (#extra-unknown elements) — I5.
func (n *Network) Dimension() int {
	return len(n.nodeOrder) + len(n.extraUnknownOrder)
}

// RowOfNode returns the 0-based row of a non-ground node. For the
// ground node it reports the "None" case from spec §4.2 via
// ErrGroundHasNoRow, which is not a failure — ground legitimately has
// no row. An id that was never allocated by AddNode is a
// ConfigurationError.
func (n *Network) RowOfNode(nodeID int) (int, error) {
	if nodeID == consts.GroundNode {
		return -1, ErrGroundHasNoRow
	}
	if row, ok := n.nodeRow[nodeID]; ok {
		return row, nil
	}
	return -1, mnaerr.NewConfigurationError("row_of_node", fmt.Sprintf("unknown node %d", nodeID))
}

// RowOfExtraUnknown returns the row reserved for elementID's branch
// current, or a ConfigurationError if it reserved none.
func (n *Network) RowOfExtraUnknown(elementID int) (int, error) {
	rank, ok := n.extraUnknownRank[elementID]
	if !ok {
		return -1, mnaerr.WrapConfigurationError(ErrNotExtraUnknown, "row_of_extra_unknown", fmt.Sprintf("element %d has no extra unknown", elementID))
	}
	return len(n.nodeOrder) + rank, nil
}

// Elements returns the elements in insertion order — the order the
// solver must stamp them in (I4).
func (n *Network) Elements() []element.Element { return n.elements }

// NonGroundNodeCount is (#non-ground nodes), used by solvers/tests that
// need it without going through RowOfExtraUnknown's element lookup.
func (n *Network) NonGroundNodeCount() int { return len(n.nodeOrder) }

func (n *Network) elementByID(id int) (element.Element, error) {
	if id < 0 || id >= len(n.elements) {
		return nil, mnaerr.NewConfigurationError("connect", fmt.Sprintf("unknown element %d", id))
	}
	return n.elements[id], nil
}

// StampContext returns the read-only view elements use to stamp
// themselves into (A, z) (spec §4.1). It is cheap to build (two map
// lookups, no copying) and safe to rebuild on every Newton iteration.
func (n *Network) StampContext() element.StampContext {
	return stampContext{n}
}

type stampContext struct{ net *Network }

func (c stampContext) RowOfNode(nodeID int) (int, bool) {
	row, err := c.net.RowOfNode(nodeID)
	return row, err == nil
}

func (c stampContext) RowOfExtraUnknown(elementID int) (int, bool) {
	row, err := c.net.RowOfExtraUnknown(elementID)
	return row, err == nil
}
