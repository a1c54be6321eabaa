/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "errors"

var (
	// ErrInvalidInput marks a malformed or empty competitor set. Nothing is
	// computed when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLookupMiss marks a pairing that references a competitor id absent
	// from the set being reconciled.
	ErrLookupMiss = errors.New("competitor lookup miss")
)
