/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// ScoreToString renders half points with a ½ glyph, e.g. 2.5 -> "2½".
func ScoreToString(score float64) string {
	whole, frac := math.Modf(score)
	if frac == 0 {
		return fmt.Sprintf("%d", int(whole))
	}
	if whole == 0 {
		return "½"
	}
	if math.Abs(frac) == 0.5 {
		return fmt.Sprintf("%d½", int(whole))
	}
	return fmt.Sprintf("%.1f", score)
}
