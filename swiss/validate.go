/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"
)

// Validate checks a competitor set at the boundary. Every failure wraps
// ErrInvalidInput.
func Validate(competitors []Competitor) error {
	if len(competitors) == 0 {
		return fmt.Errorf("%w: no competitors", ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(competitors))
	for idx := range competitors {
		c := &competitors[idx]
		if c.ID <= 0 {
			return fmt.Errorf("%w: competitor id %d must be positive",
				ErrInvalidInput, c.ID)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: duplicate competitor id %d", ErrInvalidInput,
				c.ID)
		}
		seen[c.ID] = struct{}{}

		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: competitor %d has no name", ErrInvalidInput,
				c.ID)
		}
		if len(c.Opponents) != len(c.Colors) {
			return fmt.Errorf("%w: competitor %d has %d opponents but %d colors",
				ErrInvalidInput, c.ID, len(c.Opponents), len(c.Colors))
		}
		for _, col := range c.Colors {
			if col != White && col != Black {
				return fmt.Errorf("%w: competitor %d has unknown color %d",
					ErrInvalidInput, c.ID, int(col))
			}
		}
		if c.Preference < PreferNone || c.Preference > PreferBlack {
			return fmt.Errorf("%w: competitor %d has unknown color preference %d",
				ErrInvalidInput, c.ID, int(c.Preference))
		}
	}

	return nil
}

func validateRoundNumber(round int) error {
	if round < 1 {
		return fmt.Errorf("%w: round number %d must be positive",
			ErrInvalidInput, round)
	}
	return nil
}
