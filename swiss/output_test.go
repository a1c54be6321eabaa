/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"strings"
	"testing"
)

func TestBuildPairingsOutput(t *testing.T) {
	comps := []Competitor{
		{ID: 1, Name: "Alice", Rating: 1800, Score: 1.5},
		{ID: 2, Name: "Bob", Rating: 1700, Score: 1},
		{ID: 3, Name: "Carol", Rating: 1200},
	}
	bye := 3
	r := &Round{Number: 3, Bye: &bye,
		Pairings: []Pairing{{White: 2, Black: 1, Board: 1}}}

	out := BuildPairingsOutput(r, comps)
	for _, want := range []string{
		"Round 3 Pairings:",
		"Board",
		"Carol(1200 0)",
		"BYE",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	var board1 string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "1.") {
			board1 = line
		}
	}
	bob := strings.Index(board1, "Bob(1700 1)")
	alice := strings.Index(board1, "Alice(1800 1½)")
	if bob < 0 || alice < 0 || bob > alice {
		t.Errorf("board 1 row %q; want Bob then Alice", board1)
	}

	empty := BuildPairingsOutput(&Round{Number: 1}, comps)
	if !strings.Contains(empty, "No pairings for round 1") {
		t.Errorf("unexpected empty-round output %q", empty)
	}
}

func TestBuildStandingsOutput(t *testing.T) {
	comps := []Competitor{
		{ID: 1, Name: "Alice", Rating: 1800, Score: 1},
		{ID: 2, Name: "Bob", Rating: 1700, Score: 2},
		{ID: 3, Name: "Carol", Rating: 1900, Score: 1},
	}

	out := BuildStandingsOutput(comps)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines; want 4:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "1.") || !strings.Contains(lines[1], "Bob") {
		t.Errorf("first place line %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2.") || !strings.Contains(lines[2], "Carol") {
		t.Errorf("second place line %q", lines[2])
	}
	if strings.HasPrefix(lines[3], "3.") || !strings.Contains(lines[3], "Alice") {
		t.Errorf("tied line %q should share the place above", lines[3])
	}
}

func TestBuildColorStatsOutput(t *testing.T) {
	comps := []Competitor{
		{ID: 2, Name: "Bob", Opponents: []int{1, 3}, Colors: []Color{Black, Black}},
		{ID: 1, Name: "Alice", Opponents: []int{2}, Colors: []Color{White}},
	}

	out := BuildColorStatsOutput(comps)
	alice := strings.Index(out, "Alice: W:1 B:0 (Balance: +1)")
	bob := strings.Index(out, "Bob: W:0 B:2 (Balance: -2)")
	if alice < 0 || bob < 0 {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if alice > bob {
		t.Errorf("output not sorted by name:\n%s", out)
	}
}
