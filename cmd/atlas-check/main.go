// Command atlas-check validates a workspace snapshot: it rehydrates every
// derived-scheme chain and verifies each node resolves to a chart of its
// atlas, printing the accumulated cutting equations.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"schemecore/pkg/scheme"
)

var exitFunc = os.Exit

// main runs the command-line interface and exits with its status code.
func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("atlas-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var snapshotPath string
	fs.StringVar(&snapshotPath, "snapshot", "workspace.json", "path to workspace snapshot JSON")
	var verbose bool
	fs.BoolVar(&verbose, "v", false, "print equations for resolved nodes")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		fmt.Fprintf(stderr, "read snapshot: %v\n", err)
		return 1
	}
	var doc scheme.WorkspaceDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Fprintf(stderr, "parse snapshot: %v\n", err)
		return 1
	}
	atlases, nodes, err := scheme.DecodeWorkspace(doc)
	if err != nil {
		fmt.Fprintf(stderr, "decode snapshot: %v\n", err)
		return 1
	}

	// Patch ID -> owning atlas, so each chain is checked against the atlas
	// its root belongs to.
	atlasOf := make(map[string]*scheme.Atlas)
	for _, a := range atlases {
		for _, p := range a.Patches() {
			atlasOf[p.ID()] = a
		}
	}

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	failures := 0
	for _, id := range ids {
		node := nodes[id]
		atlas := atlasForNode(node, atlasOf)
		if atlas == nil {
			fmt.Fprintf(stdout, "FAIL %s: ancestry terminates outside every atlas\n", id)
			failures++
			continue
		}
		_, eqs, err := scheme.FindChart(node, atlas)
		if err != nil {
			fmt.Fprintf(stdout, "FAIL %s: %v\n", id, err)
			failures++
			continue
		}
		fmt.Fprintf(stdout, "ok   %s: atlas=%s equations=%d\n", id, atlas.Name(), len(eqs))
		if verbose {
			for _, eq := range eqs {
				fmt.Fprintf(stdout, "       %s\n", eq.String())
			}
		}
	}

	fmt.Fprintf(stdout, "%d nodes checked, %d failures\n", len(ids), failures)
	if failures > 0 {
		return 1
	}
	return 0
}

// atlasForNode walks the node's ancestry to its terminal root and looks up
// the atlas owning that root.
func atlasForNode(node scheme.DerivedScheme, atlasOf map[string]*scheme.Atlas) *scheme.Atlas {
	var atlas *scheme.Atlas
	scheme.Holds(node, func(s scheme.DerivedScheme) bool {
		if rp, ok := s.(*scheme.RootPatch); ok {
			atlas = atlasOf[rp.ID()]
		}
		return false
	})
	return atlas
}
