package netlist

import (
	"fmt"

	"github.com/nodalsim/mnacore/pkg/network"
)

// Built is a parsed Circuit wired into a Network, plus the name tables
// a driver program needs to resolve netlist names back to the stable
// ids Network.SetVoltage/SetResistance and Solution.NodeVoltage take.
type Built struct {
	Net   *network.Network
	Nodes map[string]int // netlist node name -> Network node id ("0"/"gnd" map to 0)
	Elems map[string]int // netlist element name -> Network element id
}

// Build wires every element in ckt into a fresh Network, allocating one
// Network node per distinct node name in first-seen order (ground is
// never allocated; it already exists). Any "set" directives in ckt are
// left unapplied — callers that want to observe a mutate-then-resolve
// sequence drive ckt.Sets through ApplySet themselves, one at a time,
// between solves.
func Build(ckt *Circuit) (*Built, error) {
	net := network.New()
	b := &Built{Net: net, Nodes: map[string]int{"0": 0, "gnd": 0}, Elems: make(map[string]int)}

	nodeID := func(name string) int {
		if IsGround(name) {
			return 0
		}
		if id, ok := b.Nodes[name]; ok {
			return id
		}
		id := net.AddNode()
		b.Nodes[name] = id
		return id
	}

	for _, el := range ckt.Elements {
		if _, dup := b.Elems[el.Name]; dup {
			return nil, fmt.Errorf("duplicate element name %q", el.Name)
		}

		n0, n1 := nodeID(el.Nodes[0]), nodeID(el.Nodes[1])

		var id int
		switch el.Kind {
		case KindResistor:
			var err error
			id, err = net.AddResistor(el.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", el.Name, err)
			}
		case KindVoltageSource:
			id = net.AddVoltageSource(el.Value)
		case KindCurrentSource:
			id = net.AddCurrentSource(el.Value)
		case KindDiode:
			var err error
			id, err = net.AddDiode(el.Threshold, el.Conductance)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", el.Name, err)
			}
		default:
			return nil, fmt.Errorf("%s: unsupported element kind %q", el.Name, el.Kind)
		}

		if err := net.Connect(id, 0, n0); err != nil {
			return nil, fmt.Errorf("%s: %w", el.Name, err)
		}
		if err := net.Connect(id, 1, n1); err != nil {
			return nil, fmt.Errorf("%s: %w", el.Name, err)
		}

		b.Elems[el.Name] = id
	}

	return b, nil
}

// ApplySet mutates the element s.Name refers to (a voltage source's
// voltage or a resistor's resistance) to s.Value, by stable id through
// b.Elems. Intended to be called once per SetDirective, with a re-solve
// in between, so a driver can observe the network's response to each
// mutation individually rather than all of them at once.
func ApplySet(b *Built, s SetDirective) error {
	id, ok := b.Elems[s.Name]
	if !ok {
		return fmt.Errorf("set %s: no such element", s.Name)
	}
	if err := b.Net.SetVoltage(id, s.Value); err == nil {
		return nil
	}
	if err := b.Net.SetResistance(id, s.Value); err != nil {
		return fmt.Errorf("set %s: %w", s.Name, err)
	}
	return nil
}
