/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mikeb26/swisspair/internal"
	"github.com/mikeb26/swisspair/swiss"
)

type playerRef struct {
	ID *int `json:"id"`
}

// roundFile accepts both the nested white_player/black_player layout written
// by older pairing tools and the flat *_player_id layout of swiss.Round.
type roundFile struct {
	Round     int    `json:"round"`
	Timestamp string `json:"timestamp"`
	Bye       *int   `json:"bye_player_id"`
	Pairings  []struct {
		Board   int        `json:"board_number"`
		White   *playerRef `json:"white_player"`
		Black   *playerRef `json:"black_player"`
		WhiteID *int       `json:"white_player_id"`
		BlackID *int       `json:"black_player_id"`
	} `json:"pairings"`
}

func pickID(ref *playerRef, flat *int) (int, bool) {
	if flat != nil {
		return *flat, true
	}
	if ref != nil && ref.ID != nil {
		return *ref.ID, true
	}
	return 0, false
}

// ReadRound decodes a saved round. The returned time is zero when the file
// carries no timestamp.
func ReadRound(r io.Reader) (*swiss.Round, time.Time, error) {
	var rf roundFile
	if err := json.NewDecoder(r).Decode(&rf); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: unable to parse round: %v",
			swiss.ErrInvalidInput, err)
	}
	if rf.Round < 1 {
		return nil, time.Time{}, fmt.Errorf("%w: round number %d",
			swiss.ErrInvalidInput, rf.Round)
	}

	ts, err := internal.ParseDateOrZero(rf.Timestamp)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: bad timestamp %q: %v",
			swiss.ErrInvalidInput, rf.Timestamp, err)
	}

	out := &swiss.Round{Number: rf.Round, Bye: rf.Bye,
		Pairings: make([]swiss.Pairing, 0, len(rf.Pairings))}
	for idx, p := range rf.Pairings {
		white, ok := pickID(p.White, p.WhiteID)
		if !ok {
			return nil, time.Time{}, fmt.Errorf("%w: pairing %d has no white id",
				swiss.ErrInvalidInput, idx)
		}
		black, ok := pickID(p.Black, p.BlackID)
		if !ok {
			return nil, time.Time{}, fmt.Errorf("%w: pairing %d has no black id",
				swiss.ErrInvalidInput, idx)
		}
		board := p.Board
		if board == 0 {
			board = idx + 1
		}
		out.Pairings = append(out.Pairings, swiss.Pairing{White: white,
			Black: black, Board: board})
	}

	return out, ts, nil
}

func LoadRoundFile(path string) (*swiss.Round, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("unable to open %v: %w", path, err)
	}
	defer f.Close()

	return ReadRound(f)
}

// WriteRound writes r in the nested layout with an RFC 3339 timestamp.
func WriteRound(w io.Writer, r *swiss.Round, ts time.Time) error {
	type ref struct {
		ID int `json:"id"`
	}
	type board struct {
		Board int `json:"board_number"`
		White ref `json:"white_player"`
		Black ref `json:"black_player"`
	}
	out := struct {
		Round     int     `json:"round"`
		Timestamp string  `json:"timestamp"`
		Bye       *int    `json:"bye_player_id,omitempty"`
		Pairings  []board `json:"pairings"`
	}{
		Round:     r.Number,
		Timestamp: ts.Format(time.RFC3339),
		Bye:       r.Bye,
		Pairings:  make([]board, 0, len(r.Pairings)),
	}
	for _, p := range r.Pairings {
		out.Pairings = append(out.Pairings, board{Board: p.Board,
			White: ref{ID: p.White}, Black: ref{ID: p.Black}})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
