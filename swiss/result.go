/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"math"
	"strings"
)

// Result is the outcome of one board.
type Result int

const (
	ResultPending Result = iota
	ResultWhite
	ResultBlack
	ResultDraw
)

// DefaultEloK is the K factor used when Elo updates are enabled without an
// explicit value.
const DefaultEloK = 32

func (r Result) String() string {
	switch r {
	case ResultWhite:
		return "white"
	case ResultBlack:
		return "black"
	case ResultDraw:
		return "draw"
	default:
		return "pending"
	}
}

// Final reports whether the board has been decided.
func (r Result) Final() bool {
	return r == ResultWhite || r == ResultBlack || r == ResultDraw
}

func (r Result) MarshalText() ([]byte, error) {
	if r != ResultPending && !r.Final() {
		return nil, fmt.Errorf("%w: unknown result %d", ErrInvalidInput, int(r))
	}
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalText(text []byte) error {
	parsed, err := ParseResult(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseResult accepts the winning color, "draw", or the usual score notation
// ("1-0", "0-1", "1/2-1/2"). The empty string and "pending" mean undecided.
func ParseResult(s string) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending":
		return ResultPending, nil
	case "white", "1-0":
		return ResultWhite, nil
	case "black", "0-1":
		return ResultBlack, nil
	case "draw", "1/2-1/2", "½-½":
		return ResultDraw, nil
	}

	return ResultPending, fmt.Errorf("%w: unknown result %q", ErrInvalidInput, s)
}

// fraction is the game score, 1 for a win, from c's side.
func (r Result) fraction(c Color) float64 {
	switch {
	case r == ResultDraw:
		return 0.5
	case (r == ResultWhite && c == White) || (r == ResultBlack && c == Black):
		return 1
	default:
		return 0
	}
}

// Scoring is the points awarded per outcome. EloK enables rating updates
// after each decided board when positive.
type Scoring struct {
	Win  float64 `json:"win" yaml:"win"`
	Draw float64 `json:"draw" yaml:"draw"`
	Loss float64 `json:"loss" yaml:"loss"`
	Bye  float64 `json:"bye" yaml:"bye"`
	EloK float64 `json:"elo_k,omitempty" yaml:"elo_k,omitempty"`
}

// DefaultScoring is 1 / ½ / 0 with a full point for the bye and no rating
// updates.
func DefaultScoring() Scoring {
	return Scoring{Win: 1, Draw: 0.5, Loss: 0, Bye: 1}
}

func (sc Scoring) Validate() error {
	if sc.Win < 0 || sc.Draw < 0 || sc.Loss < 0 || sc.Bye < 0 || sc.EloK < 0 {
		return fmt.Errorf("%w: scoring values must not be negative",
			ErrInvalidInput)
	}
	return nil
}

// Points returns what the competitor playing c earns from res.
func (sc Scoring) Points(res Result, c Color) float64 {
	switch res.fraction(c) {
	case 1:
		return sc.Win
	case 0.5:
		return sc.Draw
	default:
		return sc.Loss
	}
}

// EloChange returns the rating change for a player rated rating who scored
// score (1, 0.5 or 0) against opp. Halves round up, as in most rating
// calculators.
func EloChange(rating, opp int, score, k float64) int {
	expected := 1 / (1 + math.Pow(10, float64(opp-rating)/400))
	return int(math.Floor(k*(score-expected) + 0.5))
}

// ApplyResult credits the outcome of board p to both competitors and, when
// sc.EloK is positive, adjusts their ratings from the pre-game values. Both
// ids are resolved before anything is written.
func ApplyResult(competitors []Competitor, p Pairing, res Result,
	sc Scoring) error {

	if !res.Final() {
		return fmt.Errorf("%w: board %d result %v is not final", ErrInvalidInput,
			p.Board, res)
	}
	if p.White == p.Black {
		return fmt.Errorf("%w: board %d pairs competitor %d with itself",
			ErrInvalidInput, p.Board, p.White)
	}
	w, err := indexOf(competitors, p.White)
	if err != nil {
		return fmt.Errorf("board %d white: %w", p.Board, err)
	}
	b, err := indexOf(competitors, p.Black)
	if err != nil {
		return fmt.Errorf("board %d black: %w", p.Board, err)
	}

	white, black := &competitors[w], &competitors[b]
	white.Score += sc.Points(res, White)
	black.Score += sc.Points(res, Black)
	if sc.EloK > 0 {
		wr, br := white.Rating, black.Rating
		white.Rating += EloChange(wr, br, res.fraction(White), sc.EloK)
		black.Rating += EloChange(br, wr, res.fraction(Black), sc.EloK)
	}

	return nil
}

// ApplyBye credits sc.Bye to competitor id.
func ApplyBye(competitors []Competitor, id int, sc Scoring) error {
	idx, err := indexOf(competitors, id)
	if err != nil {
		return fmt.Errorf("bye: %w", err)
	}
	competitors[idx].Score += sc.Bye
	return nil
}

func indexOf(competitors []Competitor, id int) (int, error) {
	for i := range competitors {
		if competitors[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: id %d", ErrLookupMiss, id)
}
