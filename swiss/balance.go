/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

// Balance reduces a color history to whites minus blacks. Positive means the
// competitor is owed black, negative means owed white.
func Balance(colors []Color) int {
	balance := 0
	for _, c := range colors {
		switch c {
		case White:
			balance++
		case Black:
			balance--
		}
	}

	return balance
}

// ColorCounts returns the number of white and black games in colors.
func ColorCounts(colors []Color) (whites, blacks int) {
	for _, c := range colors {
		switch c {
		case White:
			whites++
		case Black:
			blacks++
		}
	}

	return whites, blacks
}
