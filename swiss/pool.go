/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sort"
)

// ByePolicy selects who sits out when the pool is odd.
type ByePolicy int

const (
	// ByeLowestRated gives the bye to the lowest-rated competitor, first
	// encountered on ties. Prior byes are not considered, so the same
	// competitor can sit out round after round.
	ByeLowestRated ByePolicy = iota

	// ByeRotate orders candidates by (byes already received, rating) so a
	// competitor only receives a second bye once everyone has had one.
	ByeRotate
)

func (p ByePolicy) String() string {
	if p == ByeRotate {
		return "rotate"
	}
	return "lowest-rated"
}

// ParseByePolicy accepts "lowest-rated" (or "") and "rotate".
func ParseByePolicy(s string) (ByePolicy, error) {
	switch s {
	case "", "lowest-rated", "lowest":
		return ByeLowestRated, nil
	case "rotate":
		return ByeRotate, nil
	}
	return ByeLowestRated, fmt.Errorf("%w: unknown bye policy %q",
		ErrInvalidInput, s)
}

// preparePool validates the input, drops withdrawn competitors, and removes
// the bye recipient if the remaining count is odd. The returned pointers
// alias the caller's slice and must only be read.
func preparePool(competitors []Competitor, round int,
	policy ByePolicy) ([]*Competitor, *int, error) {

	if err := Validate(competitors); err != nil {
		return nil, nil, err
	}
	if err := validateRoundNumber(round); err != nil {
		return nil, nil, err
	}

	pool := make([]*Competitor, 0, len(competitors))
	for idx := range competitors {
		if competitors[idx].Withdrawn {
			continue
		}
		pool = append(pool, &competitors[idx])
	}
	if len(pool) == 0 {
		return nil, nil, fmt.Errorf("%w: every competitor has withdrawn",
			ErrInvalidInput)
	}

	if len(pool)%2 == 0 {
		return pool, nil, nil
	}

	byeIdx := selectBye(pool, policy)
	byeID := pool[byeIdx].ID
	pool = append(pool[:byeIdx:byeIdx], pool[byeIdx+1:]...)

	return pool, &byeID, nil
}

func selectBye(pool []*Competitor, policy ByePolicy) int {
	best := 0
	for i := 1; i < len(pool); i++ {
		if byeLess(pool[i], pool[best], policy) {
			best = i
		}
	}
	return best
}

// byeLess reports whether a is strictly a better bye candidate than b.
func byeLess(a, b *Competitor, policy ByePolicy) bool {
	if policy == ByeRotate && len(a.ByeRounds) != len(b.ByeRounds) {
		return len(a.ByeRounds) < len(b.ByeRounds)
	}
	return a.Rating < b.Rating
}

// rankPool orders by score then rating, both descending. The sort is stable so
// the caller's order settles full ties.
func rankPool(pool []*Competitor) {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Score != pool[j].Score {
			return pool[i].Score > pool[j].Score
		}
		return pool[i].Rating > pool[j].Rating
	})
}
