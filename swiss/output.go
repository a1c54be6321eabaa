/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mikeb26/swisspair/internal"
)

// BuildPairingsOutput formats a round into an aligned Board/White/Black table
// with the bye, if any, on the last row.
func BuildPairingsOutput(r *Round, competitors []Competitor) string {
	byID := make(map[int]*Competitor, len(competitors))
	for i := range competitors {
		byID[competitors[i].ID] = &competitors[i]
	}
	describe := func(id int) string {
		c, ok := byID[id]
		if !ok {
			return fmt.Sprintf("#%d(?)", id)
		}
		return fmt.Sprintf("%s(%d %v)", c.Name, c.Rating,
			internal.ScoreToString(c.Score))
	}

	var sb strings.Builder
	if len(r.Pairings) == 0 && r.Bye == nil {
		sb.WriteString(fmt.Sprintf("No pairings for round %v\n", r.Number))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Round %v Pairings:\n\n", r.Number))

	type row struct{ board, white, black string }
	var rows []row
	for _, p := range r.Pairings {
		rows = append(rows, row{
			board: fmt.Sprintf("%d.", p.Board),
			white: describe(p.White),
			black: describe(p.Black),
		})
	}
	if r.Bye != nil {
		rows = append(rows, row{board: "n/a", white: describe(*r.Bye),
			black: "BYE"})
	}

	// Compute column widths
	maxB, maxW, maxBl := len("Board"), len("White"), len("Black")
	for _, r := range rows {
		if l := len(r.board); l > maxB {
			maxB = l
		}
		if l := len(r.white); l > maxW {
			maxW = l
		}
		if l := len(r.black); l > maxBl {
			maxBl = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s\n", maxB, "Board", maxW,
		"White", maxBl, "Black"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s\n", maxB, r.board,
			maxW, r.white, maxBl, r.black))
	}

	return sb.String()
}

// BuildStandingsOutput ranks competitors by score then rating. Competitors
// tied on score share a place; only the first of them shows it.
func BuildStandingsOutput(competitors []Competitor) string {
	ranked := make([]*Competitor, 0, len(competitors))
	for i := range competitors {
		ranked = append(ranked, &competitors[i])
	}
	rankPool(ranked)

	type row struct{ place, name, rating, score string }
	var rows []row
	priorScore := -1.0
	place := 0
	for idx, c := range ranked {
		var p string
		if idx != 0 && c.Score == priorScore {
			p = ""
		} else {
			place = idx + 1
			p = fmt.Sprintf("%v.", place)
			priorScore = c.Score
		}
		name := c.Name
		if c.Withdrawn {
			name += " (wd)"
		}
		rows = append(rows, row{
			place:  p,
			name:   name,
			rating: fmt.Sprintf("%d", c.Rating),
			score:  fmt.Sprintf("%.1f", c.Score),
		})
	}

	maxP, maxN, maxR, maxS := len("Place"), len("Name"), len("Rating"),
		len("Score")
	for _, r := range rows {
		if l := len(r.place); l > maxP {
			maxP = l
		}
		if l := len(r.name); l > maxN {
			maxN = l
		}
		if l := len(r.rating); l > maxR {
			maxR = l
		}
		if l := len(r.score); l > maxS {
			maxS = l
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s\n", maxP, "Place",
		maxN, "Name", maxR, "Rating", maxS, "Score"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s\n", maxP, r.place,
			maxN, r.name, maxR, r.rating, maxS, r.score))
	}

	return sb.String()
}

// BuildColorStatsOutput lists white/black counts and balance per competitor,
// sorted by name.
func BuildColorStatsOutput(competitors []Competitor) string {
	sorted := make([]*Competitor, 0, len(competitors))
	for i := range competitors {
		sorted = append(sorted, &competitors[i])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var sb strings.Builder
	sb.WriteString("Color Balance Statistics:\n")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, c := range sorted {
		whites, blacks := ColorCounts(c.Colors)
		sb.WriteString(fmt.Sprintf("%s: W:%d B:%d (Balance: %s)\n", c.Name,
			whites, blacks, balanceString(whites-blacks)))
	}
	sb.WriteString(strings.Repeat("-", 40) + "\n")

	return sb.String()
}

func balanceString(balance int) string {
	if balance > 0 {
		return fmt.Sprintf("+%d", balance)
	}
	return fmt.Sprintf("%d", balance)
}
