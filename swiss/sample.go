/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "fmt"

// Sample returns n fresh competitors with ids 1..n rated 1300, 1400, ...
func Sample(n int) []Competitor {
	out := make([]Competitor, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Competitor{
			ID:        i,
			Name:      fmt.Sprintf("Player %d", i),
			Rating:    1200 + i*100,
			Opponents: []int{},
			Colors:    []Color{},
		})
	}

	return out
}
