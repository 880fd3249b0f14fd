// Package netlist reads the minimal SPICE-style directive text format
// named in the external-interfaces section: one element or directive
// per line, "*" comments, node "0" (or "gnd") is ground.
//
// Grounded on the teacher's pkg/netlist/parser.go Parse/parseElement,
// trimmed to the device set this solver core supports (R, V, I, D) and
// dropping the teacher's .tran/.ac/.dc analysis directives and
// SIN/PULSE/PWL/AC source waveforms, which belong to transient/AC
// analysis and are out of scope here. The "set" mutation directive has
// no teacher equivalent; it's modeled after the teacher's own
// parseAnalysis dispatch-by-first-field style.
package netlist

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ElementKind is the device letter a netlist line's name starts with.
type ElementKind string

const (
	KindResistor      ElementKind = "R"
	KindVoltageSource ElementKind = "V"
	KindCurrentSource ElementKind = "I"
	KindDiode         ElementKind = "D"
)

// Element is one parsed device line, still in node-name space.
type Element struct {
	Kind  ElementKind
	Name  string
	Nodes []string // length 2: always resolved before Build

	Value float64 // resistance / voltage / current

	// Diode-only parameters; zero value for every other kind.
	Threshold   float64
	Conductance float64
}

// SetDirective is a post-parse mutation: "set <name> <value>" changes
// an already-declared voltage source or resistor before a re-solve,
// standing in for a driving program that sweeps a parameter across
// repeated solves.
type SetDirective struct {
	Name  string
	Value float64
}

// Circuit is the parsed-but-not-yet-built netlist: element declarations
// in file order plus any trailing set directives.
type Circuit struct {
	Title    string
	Elements []Element
	Sets     []SetDirective
}

// unitMap gives the power of ten each unit suffix stands for.
var unitMap = map[string]int{
	"T":   12,
	"G":   9,
	"meg": 6,
	"K":   3,
	"k":   3,
	"m":   -3,
	"u":   -6,
	"n":   -9,
	"p":   -12,
	"f":   -15,
}

var valuePattern = regexp.MustCompile(`^([-+]?\d*\.?\d+)(meg|[TGMKkmunpf])?$`)

// ParseValue parses a SPICE-style magnitude with an optional unit
// suffix, e.g. "330", "1k", "4.7meg", "100n".
func ParseValue(val string) (float64, error) {
	matches := valuePattern.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %q", val)
	}
	// The suffix is applied as a decimal exponent, so "100n" parses to
	// exactly the same float64 as 100e-9.
	digits := matches[1]
	if matches[2] != "" {
		digits += "e" + strconv.Itoa(unitMap[matches[2]])
	}
	return strconv.ParseFloat(digits, 64)
}

// Parse reads netlist text into a Circuit. If the very first line of
// the input starts with "*", it is taken as the title; every other line
// is either a device declaration, a "set" directive, a "*" comment, or
// blank.
func Parse(input string) (*Circuit, error) {
	ckt := &Circuit{}
	scanner := bufio.NewScanner(strings.NewReader(input))

	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if first {
			first = false
			if strings.HasPrefix(line, "*") {
				ckt.Title = strings.TrimSpace(strings.TrimPrefix(line, "*"))
				continue
			}
		}

		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		fields := strings.Fields(line)
		if strings.EqualFold(fields[0], "set") {
			d, err := parseSet(fields)
			if err != nil {
				return nil, err
			}
			ckt.Sets = append(ckt.Sets, *d)
			continue
		}

		elem, err := parseElement(fields)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", line, err)
		}
		ckt.Elements = append(ckt.Elements, *elem)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ckt, nil
}

func parseSet(fields []string) (*SetDirective, error) {
	if len(fields) != 3 {
		return nil, fmt.Errorf("set directive wants exactly 2 arguments: %q", strings.Join(fields, " "))
	}
	value, err := ParseValue(fields[2])
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", fields[1], err)
	}
	return &SetDirective{Name: fields[1], Value: value}, nil
}

func parseElement(fields []string) (*Element, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("element line needs at least a name and two nodes")
	}
	name := fields[0]
	if name == "" {
		return nil, fmt.Errorf("empty element name")
	}
	kind := ElementKind(strings.ToUpper(name[:1]))

	switch kind {
	case KindDiode:
		if len(fields) != 5 {
			return nil, fmt.Errorf("diode %s needs two nodes, a threshold, and a conductance", name)
		}
		vthr, err := ParseValue(fields[3])
		if err != nil {
			return nil, fmt.Errorf("diode %s threshold: %w", name, err)
		}
		gd, err := ParseValue(fields[4])
		if err != nil {
			return nil, fmt.Errorf("diode %s conductance: %w", name, err)
		}
		return &Element{Kind: kind, Name: name, Nodes: fields[1:3], Threshold: vthr, Conductance: gd}, nil

	case KindResistor, KindVoltageSource, KindCurrentSource:
		if len(fields) != 4 {
			return nil, fmt.Errorf("%s needs exactly two nodes and a value", name)
		}
		value, err := ParseValue(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s value: %w", name, err)
		}
		return &Element{Kind: kind, Name: name, Nodes: fields[1:3], Value: value}, nil

	default:
		return nil, fmt.Errorf("unsupported element kind %q in name %q", kind, name)
	}
}

// IsGround reports whether a node name refers to the ground node.
func IsGround(node string) bool {
	return node == "0" || strings.EqualFold(node, "gnd")
}
