/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sort"
)

const (
	StrategyGreedy = "greedy"
	StrategyFold   = "fold"
	StrategySimple = "simple"
)

// Strategy produces one round of pairings from a competitor snapshot.
type Strategy interface {
	Name() string
	Pair(competitors []Competitor, round int) (*Round, error)
}

// StrategyByName returns the named strategy built from cfg. Only the greedy
// strategy reads the cost weights; all of them honor cfg.ByePolicy.
func StrategyByName(name string, cfg Config) (Strategy, error) {
	switch name {
	case "", StrategyGreedy:
		return NewEngine(cfg)
	case StrategyFold:
		return &Fold{ByePolicy: cfg.ByePolicy}, nil
	case StrategySimple:
		return &Simple{ByePolicy: cfg.ByePolicy}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, name)
	}
}

// Fold splits the ranked pool in half and pairs the i-th competitor of the
// top half against the i-th of the bottom half. The top half's color
// alternates board by board starting with white. It ignores history and is
// meant for a first round.
type Fold struct {
	ByePolicy ByePolicy
}

func (f *Fold) Name() string { return StrategyFold }

func (f *Fold) Pair(competitors []Competitor, round int) (*Round, error) {
	pool, bye, err := preparePool(competitors, round, f.ByePolicy)
	if err != nil {
		return nil, err
	}
	rankPool(pool)

	half := len(pool) / 2
	out := &Round{Number: round, Bye: bye,
		Pairings: make([]Pairing, 0, half)}
	topColor := White
	for i := 0; i < half; i++ {
		top, opp := pool[i], pool[half+i]
		p := Pairing{Board: i + 1}
		if topColor == White {
			p.White, p.Black = top.ID, opp.ID
		} else {
			p.White, p.Black = opp.ID, top.ID
		}
		topColor = topColor.Opp()
		out.Pairings = append(out.Pairings, p)
	}

	return out, nil
}

// Simple pairs adjacent competitors by rating, highest first. Odd boards give
// the higher-rated side white, even boards give it black.
type Simple struct {
	ByePolicy ByePolicy
}

func (s *Simple) Name() string { return StrategySimple }

func (s *Simple) Pair(competitors []Competitor, round int) (*Round, error) {
	pool, bye, err := preparePool(competitors, round, s.ByePolicy)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Rating > pool[j].Rating
	})

	out := &Round{Number: round, Bye: bye,
		Pairings: make([]Pairing, 0, len(pool)/2)}
	for i := 0; i+1 < len(pool); i += 2 {
		board := len(out.Pairings) + 1
		p := Pairing{White: pool[i].ID, Black: pool[i+1].ID, Board: board}
		if board%2 == 0 {
			p.White, p.Black = p.Black, p.White
		}
		out.Pairings = append(out.Pairings, p)
	}

	return out, nil
}
