// Command spice reads a netlist, solves it for its DC operating point,
// prints node voltages and branch currents, and — if the netlist
// carries any "set" directives — re-solves after each one, the way an
// external driver program would sweep a source or tweak a component
// value between repeated solves.
//
// Grounded on the teacher's cmd/main.go procWithPrint/printResults,
// trimmed to the operating-point-only result shape this solver
// produces (no FREQ/SWEEP1/TIME result families).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/nodalsim/mnacore/pkg/netlist"
	"github.com/nodalsim/mnacore/pkg/solver"
	"github.com/nodalsim/mnacore/pkg/util"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: spice <netlist-file>")
	}

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading netlist: %v", err)
	}

	ckt, err := netlist.Parse(string(content))
	if err != nil {
		log.Fatalf("parsing netlist: %v", err)
	}
	if ckt.Title != "" {
		fmt.Printf("%s\n\n", ckt.Title)
	}

	built, err := netlist.Build(ckt)
	if err != nil {
		log.Fatalf("building network: %v", err)
	}

	sol, err := solver.New(built.Net, solver.DefaultConfig()).Solve()
	if err != nil {
		log.Fatalf("solve: %v", err)
	}
	printSolution(built, sol)

	for _, s := range ckt.Sets {
		if err := netlist.ApplySet(built, s); err != nil {
			log.Fatalf("applying set %s: %v", s.Name, err)
		}
		fmt.Printf("\n--- after: set %s %g ---\n\n", s.Name, s.Value)
		sol, err := solver.New(built.Net, solver.DefaultConfig()).Solve()
		if err != nil {
			log.Fatalf("solve after set %s: %v", s.Name, err)
		}
		printSolution(built, sol)
	}
}

func printSolution(built *netlist.Built, sol *solver.Solution) {
	names := sortedNodeNames(built.Nodes)

	fmt.Println("Node voltages:")
	for _, name := range names {
		v := sol.NodeVoltage(built.Nodes[name])
		fmt.Printf("  V(%s) = %s\n", name, util.FormatVoltage(v))
	}

	fmt.Println("Branch currents:")
	for _, name := range sortedElementNames(built.Elems) {
		i, err := sol.BranchCurrent(built.Elems[name])
		if err != nil {
			continue // not every element reserves a branch current
		}
		fmt.Printf("  I(%s) = %s\n", name, util.FormatCurrent(i))
	}
}

func sortedNodeNames(nodes map[string]int) []string {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		if netlist.IsGround(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedElementNames(elems map[string]int) []string {
	names := make([]string, 0, len(elems))
	for name := range elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
