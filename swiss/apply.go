/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "fmt"

// Apply records a round's pairings in the competitors' histories: each side
// gains the other as an opponent and its color in the same step, keeping
// Opponents and Colors parallel. The bye recipient's game history is left
// alone; the round number is appended to its ByeRounds.
//
// Every id is resolved before anything is written, so a LookupMiss leaves the
// slice untouched. A competitor may appear on at most one board or the bye.
func Apply(competitors []Competitor, r *Round) error {
	if r == nil {
		return fmt.Errorf("%w: nil round", ErrInvalidInput)
	}

	index := make(map[int]int, len(competitors))
	for i := range competitors {
		index[competitors[i].ID] = i
	}

	seen := make(map[int]struct{}, 2*len(r.Pairings)+1)
	claim := func(id int) error {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: competitor %d appears more than once in round %d",
				ErrInvalidInput, id, r.Number)
		}
		seen[id] = struct{}{}
		return nil
	}

	type update struct{ white, black int }
	updates := make([]update, 0, len(r.Pairings))
	for _, p := range r.Pairings {
		if p.White == p.Black {
			return fmt.Errorf("%w: board %d pairs competitor %d with itself",
				ErrInvalidInput, p.Board, p.White)
		}
		if err := claim(p.White); err != nil {
			return err
		}
		if err := claim(p.Black); err != nil {
			return err
		}
		w, ok := index[p.White]
		if !ok {
			return fmt.Errorf("%w: board %d white id %d", ErrLookupMiss,
				p.Board, p.White)
		}
		b, ok := index[p.Black]
		if !ok {
			return fmt.Errorf("%w: board %d black id %d", ErrLookupMiss,
				p.Board, p.Black)
		}
		updates = append(updates, update{white: w, black: b})
	}

	byeIdx := -1
	if r.Bye != nil {
		if err := claim(*r.Bye); err != nil {
			return err
		}
		idx, ok := index[*r.Bye]
		if !ok {
			return fmt.Errorf("%w: bye id %d", ErrLookupMiss, *r.Bye)
		}
		byeIdx = idx
	}

	for _, u := range updates {
		white, black := &competitors[u.white], &competitors[u.black]
		white.Opponents = append(white.Opponents, black.ID)
		white.Colors = append(white.Colors, White)
		black.Opponents = append(black.Opponents, white.ID)
		black.Colors = append(black.Colors, Black)
	}
	if byeIdx >= 0 {
		c := &competitors[byeIdx]
		c.ByeRounds = append(c.ByeRounds, r.Number)
	}

	return nil
}
