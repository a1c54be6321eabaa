/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "fmt"

const DefaultWideGap = 200

// Report summarizes the quality of a computed round.
type Report struct {
	Repeats        int
	WideRatingGaps int
	MaxRatingGap   int
	Warnings       []string
}

// Review counts rematches and pairings whose rating gap exceeds wideGap. A
// wideGap of zero or less uses DefaultWideGap.
func Review(competitors []Competitor, r *Round, wideGap int) (Report, error) {
	var rep Report
	if r == nil {
		return rep, fmt.Errorf("%w: nil round", ErrInvalidInput)
	}
	if wideGap <= 0 {
		wideGap = DefaultWideGap
	}

	byID := make(map[int]*Competitor, len(competitors))
	for i := range competitors {
		byID[competitors[i].ID] = &competitors[i]
	}

	for _, p := range r.Pairings {
		w, ok := byID[p.White]
		if !ok {
			return rep, fmt.Errorf("%w: board %d white id %d", ErrLookupMiss,
				p.Board, p.White)
		}
		b, ok := byID[p.Black]
		if !ok {
			return rep, fmt.Errorf("%w: board %d black id %d", ErrLookupMiss,
				p.Board, p.Black)
		}
		if w.HasPlayed(b.ID) || b.HasPlayed(w.ID) {
			rep.Repeats++
		}
		gap := w.Rating - b.Rating
		if gap < 0 {
			gap = -gap
		}
		if gap > rep.MaxRatingGap {
			rep.MaxRatingGap = gap
		}
		if gap > wideGap {
			rep.WideRatingGaps++
		}
	}

	if rep.Repeats > 0 {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("%d repeat pairing(s) detected", rep.Repeats))
	}
	if rep.WideRatingGaps > 0 {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("%d pairing(s) with >%d rating difference",
				rep.WideRatingGaps, wideGap))
	}

	return rep, nil
}
