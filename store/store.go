/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mikeb26/swisspair/swiss"
)

var (
	ErrNotFound = errors.New("tournament not found")
	ErrExists   = errors.New("tournament already exists")
)

// Tournament is the durable state of one event: the competitor records as of
// the last applied round and every round applied so far.
type Tournament struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Created     time.Time          `json:"created"`
	Competitors []swiss.Competitor `json:"competitors"`
	Rounds      []RoundRecord      `json:"rounds"`
	Scoring     swiss.Scoring      `json:"scoring"`
}

// RoundRecord is an applied round. Results, once any board is decided, runs
// parallel to Pairings.
type RoundRecord struct {
	ID       string          `json:"id"`
	Number   int             `json:"round"`
	Created  time.Time       `json:"created"`
	Strategy string          `json:"strategy,omitempty"`
	Pairings []swiss.Pairing `json:"pairings"`
	Results  []swiss.Result  `json:"results,omitempty"`
	Bye      *int            `json:"bye_player_id,omitempty"`
}

// Result returns the recorded outcome of board.
func (rec *RoundRecord) Result(board int) (swiss.Result, bool) {
	for i, p := range rec.Pairings {
		if p.Board != board {
			continue
		}
		if i < len(rec.Results) {
			return rec.Results[i], true
		}
		return swiss.ResultPending, true
	}
	return swiss.ResultPending, false
}

// Pending is the number of boards without a final result.
func (rec *RoundRecord) Pending() int {
	n := 0
	for i := range rec.Pairings {
		if i >= len(rec.Results) || !rec.Results[i].Final() {
			n++
		}
	}
	return n
}

// NextRound is the number of the round after the last applied one.
func (t *Tournament) NextRound() int {
	if len(t.Rounds) == 0 {
		return 1
	}
	return t.Rounds[len(t.Rounds)-1].Number + 1
}

// scoring returns the tournament's scoring, defaulting records written before
// scoring was stored.
func (t *Tournament) scoring() swiss.Scoring {
	if t.Scoring == (swiss.Scoring{}) {
		return swiss.DefaultScoring()
	}
	return t.Scoring
}

// Round returns the applied round numbered n.
func (t *Tournament) Round(n int) (*swiss.Round, bool) {
	for _, rec := range t.Rounds {
		if rec.Number == n {
			return rec.toRound(), true
		}
	}
	return nil, false
}

func (rec RoundRecord) toRound() *swiss.Round {
	r := &swiss.Round{
		Number:   rec.Number,
		Pairings: slices.Clone(rec.Pairings),
	}
	if rec.Bye != nil {
		bye := *rec.Bye
		r.Bye = &bye
	}
	return r
}

// Store persists tournaments. Implementations are safe for concurrent use, but
// Get followed by Save is not atomic; RecordRound and RecordResult serialize
// their updates per tournament within one process.
type Store interface {
	Create(ctx context.Context, t *Tournament) error
	Get(ctx context.Context, id string) (*Tournament, error)
	Save(ctx context.Context, t *Tournament) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// NewTournament builds a tournament with a fresh id and validated
// competitors.
func NewTournament(name string, competitors []swiss.Competitor) (*Tournament, error) {
	if err := swiss.Validate(competitors); err != nil {
		return nil, err
	}
	return &Tournament{
		ID:          uuid.NewString(),
		Name:        name,
		Created:     time.Now().UTC(),
		Competitors: competitors,
		Rounds:      []RoundRecord{},
		Scoring:     swiss.DefaultScoring(),
	}, nil
}

// recordLocks serializes read-modify-write updates per tournament id. It only
// covers writers in this process; stores shared between processes still
// resolve concurrent saves last-writer-wins.
var recordLocks sync.Map

func lockTournament(id string) func() {
	v, _ := recordLocks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// RecordRound applies r to the stored competitors, credits the bye and
// appends r to the tournament's round list. r must be the tournament's next
// round. Nothing is written if the round does not apply.
func RecordRound(ctx context.Context, s Store, id string, r *swiss.Round,
	strategy string) (*Tournament, error) {

	if r == nil {
		return nil, fmt.Errorf("%w: nil round", swiss.ErrInvalidInput)
	}
	defer lockTournament(id)()

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, rec := range t.Rounds {
		if rec.Number == r.Number {
			return nil, fmt.Errorf("%w: round %d already recorded for %v",
				swiss.ErrInvalidInput, r.Number, id)
		}
	}
	if next := t.NextRound(); r.Number != next {
		return nil, fmt.Errorf("%w: round %d is not the next round (%d) of %v",
			swiss.ErrInvalidInput, r.Number, next, id)
	}

	if err := swiss.Apply(t.Competitors, r); err != nil {
		return nil, fmt.Errorf("unable to apply round %d to %v: %w", r.Number,
			id, err)
	}
	if r.Bye != nil {
		if err := swiss.ApplyBye(t.Competitors, *r.Bye, t.scoring()); err != nil {
			return nil, err
		}
	}

	rec := RoundRecord{
		ID:       uuid.NewString(),
		Number:   r.Number,
		Created:  time.Now().UTC(),
		Strategy: strategy,
		Pairings: slices.Clone(r.Pairings),
	}
	if r.Bye != nil {
		bye := *r.Bye
		rec.Bye = &bye
	}
	t.Rounds = append(t.Rounds, rec)

	if err := s.Save(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// RecordResult records the outcome of one board of an applied round and
// credits both competitors under the tournament's scoring. A board's result
// can be recorded only once.
func RecordResult(ctx context.Context, s Store, id string, round, board int,
	res swiss.Result) (*Tournament, error) {

	if !res.Final() {
		return nil, fmt.Errorf("%w: result must be white, black or draw",
			swiss.ErrInvalidInput)
	}
	defer lockTournament(id)()

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var rec *RoundRecord
	for i := range t.Rounds {
		if t.Rounds[i].Number == round {
			rec = &t.Rounds[i]
			break
		}
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: round %d has not been recorded for %v",
			swiss.ErrInvalidInput, round, id)
	}
	idx := slices.IndexFunc(rec.Pairings, func(p swiss.Pairing) bool {
		return p.Board == board
	})
	if idx < 0 {
		return nil, fmt.Errorf("%w: round %d has no board %d",
			swiss.ErrInvalidInput, round, board)
	}
	if prev, _ := rec.Result(board); prev.Final() {
		return nil, fmt.Errorf("%w: round %d board %d already recorded as %v",
			swiss.ErrInvalidInput, round, board, prev)
	}

	if err := swiss.ApplyResult(t.Competitors, rec.Pairings[idx], res,
		t.scoring()); err != nil {
		return nil, fmt.Errorf("unable to record round %d board %d for %v: %w",
			round, board, id, err)
	}
	if len(rec.Results) < len(rec.Pairings) {
		grown := make([]swiss.Result, len(rec.Pairings))
		copy(grown, rec.Results)
		rec.Results = grown
	}
	rec.Results[idx] = res

	if err := s.Save(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func cloneTournament(t *Tournament) *Tournament {
	out := *t
	out.Competitors = make([]swiss.Competitor, len(t.Competitors))
	for i := range t.Competitors {
		out.Competitors[i] = t.Competitors[i].Clone()
	}
	out.Rounds = make([]RoundRecord, len(t.Rounds))
	for i, rec := range t.Rounds {
		rec.Pairings = slices.Clone(rec.Pairings)
		rec.Results = slices.Clone(rec.Results)
		if rec.Bye != nil {
			bye := *rec.Bye
			rec.Bye = &bye
		}
		out.Rounds[i] = rec
	}
	return &out
}
