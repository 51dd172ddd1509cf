// Package harness runs hailstone scenarios as executable conformance tests.
//
// A scenario names a set of hailstones, a test area and the expected outcome.
// The harness counts crossings, classifies every pair and checks the result
// against the scenario's expectations and assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	bounds: { low: 7, high: 27 }
//	hailstones:
//	  - "19, 13, 30 @ -2, 1, -2"
//	  - "18, 19, 22 @ -1, -1, -2"
//	expect:
//	  crossings: 1
//	assertions:
//	  - type: pair_verdict
//	    pair: [1, 2]
//	    verdict: counts
//	  - type: stone_crossings
//	    stone: 1
//	    count: 1
//
// Instead of inline hailstones a scenario may reference an input file with
// "input: path/to/input.txt", resolved relative to the scenario file.
//
// # Golden Files
//
// The per-pair verdicts of a run are serialised as canonical JSON and can be
// compared against golden files with RunWithGolden or AssertGolden.
package harness
