/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"slices"
	"strings"
)

// Color is the side a competitor plays on one board.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "white"
	} else if c == Black {
		return "black"
	} else {
		return "?"
	}
}

// Opp returns the opposite color.
func (c Color) Opp() Color {
	if c == White {
		return Black
	}

	return White
}

func (c Color) MarshalText() ([]byte, error) {
	if c != White && c != Black {
		return nil, fmt.Errorf("%w: unknown color %d", ErrInvalidInput, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor accepts "white" or "black" (any case, surrounding space ignored).
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return White, nil
	case "black":
		return Black, nil
	}

	return White, fmt.Errorf("%w: unknown color %q", ErrInvalidInput, s)
}

// Preference is a competitor's declared color wish. It is advisory only; the
// pairing heuristics never read it.
type Preference int

const (
	PreferNone Preference = iota
	PreferWhite
	PreferBlack
)

func (p Preference) String() string {
	switch p {
	case PreferWhite:
		return "white"
	case PreferBlack:
		return "black"
	default:
		return "none"
	}
}

func (p Preference) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Preference) UnmarshalText(text []byte) error {
	parsed, err := ParsePreference(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePreference treats the empty string as "none".
func ParsePreference(s string) (Preference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PreferNone, nil
	case "white":
		return PreferWhite, nil
	case "black":
		return PreferBlack, nil
	}

	return PreferNone, fmt.Errorf("%w: unknown color preference %q",
		ErrInvalidInput, s)
}

// Competitor is one entrant's accumulated tournament state. Opponents and
// Colors are parallel: entry i of each describes the i-th game played.
type Competitor struct {
	ID         int        `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Rating     int        `json:"rating" yaml:"rating"`
	Preference Preference `json:"color_preference" yaml:"color_preference"`
	Score      float64    `json:"score" yaml:"score"`
	Opponents  []int      `json:"previous_opponents" yaml:"previous_opponents"`
	Colors     []Color    `json:"colors_played" yaml:"colors_played"`
	ByeRounds  []int      `json:"bye_rounds,omitempty" yaml:"bye_rounds,omitempty"`
	Withdrawn  bool       `json:"withdrawn,omitempty" yaml:"withdrawn,omitempty"`
}

// Balance returns the competitor's color balance; see Balance.
func (c *Competitor) Balance() int {
	return Balance(c.Colors)
}

// HasPlayed reports whether id is among the competitor's prior opponents.
func (c *Competitor) HasPlayed(id int) bool {
	for _, opp := range c.Opponents {
		if opp == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (c *Competitor) Clone() Competitor {
	out := *c
	out.Opponents = slices.Clone(c.Opponents)
	out.Colors = slices.Clone(c.Colors)
	out.ByeRounds = slices.Clone(c.ByeRounds)
	return out
}

// Pairing is one board of a round.
type Pairing struct {
	White int `json:"white_player_id" yaml:"white_player_id"`
	Black int `json:"black_player_id" yaml:"black_player_id"`
	Board int `json:"board_number" yaml:"board_number"`
}

// Round is the output of one pairing run.
type Round struct {
	Number   int       `json:"round" yaml:"round"`
	Pairings []Pairing `json:"pairings" yaml:"pairings"`
	// Bye is nil unless the pooled competitor count was odd.
	Bye *int `json:"bye_player_id,omitempty" yaml:"bye_player_id,omitempty"`
}

// HasBye reports whether the round carries a bye.
func (r *Round) HasBye() bool {
	return r.Bye != nil
}
