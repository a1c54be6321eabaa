/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

const (
	DefaultCandidateWindow  = 5
	DefaultRematchPenalty   = 1000.0
	DefaultRatingDivisor    = 10.0
	DefaultSameColorPenalty = 5.0
	DefaultComplementBonus  = 10.0
)

// Config tunes the greedy engine. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// CandidateWindow is how many of the next available competitors in rank
	// order are costed against each anchor. Larger windows find better
	// opponents at a quadratic worst case.
	CandidateWindow int

	RematchPenalty   float64
	RatingDivisor    float64
	SameColorPenalty float64
	ComplementBonus  float64

	ByePolicy ByePolicy

	// Logger receives debug traces of each decision. Nil discards them.
	Logger logrus.FieldLogger
}

func DefaultConfig() Config {
	return Config{
		CandidateWindow:  DefaultCandidateWindow,
		RematchPenalty:   DefaultRematchPenalty,
		RatingDivisor:    DefaultRatingDivisor,
		SameColorPenalty: DefaultSameColorPenalty,
		ComplementBonus:  DefaultComplementBonus,
		ByePolicy:        ByeLowestRated,
	}
}

// Engine pairs one round at a time with a local greedy search. It keeps no
// state between calls.
type Engine struct {
	cfg Config
	log logrus.FieldLogger
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.CandidateWindow < 1 {
		return nil, fmt.Errorf("%w: candidate window %d must be at least 1",
			ErrInvalidInput, cfg.CandidateWindow)
	}
	if cfg.RatingDivisor <= 0 {
		return nil, fmt.Errorf("%w: rating divisor %v must be positive",
			ErrInvalidInput, cfg.RatingDivisor)
	}

	e := &Engine{cfg: cfg, log: cfg.Logger}
	if e.log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		e.log = quiet
	}

	return e, nil
}

var defaultEngine, _ = NewEngine(DefaultConfig())

// Pair runs the default engine.
func Pair(competitors []Competitor, round int) (*Round, error) {
	return defaultEngine.Pair(competitors, round)
}

func (e *Engine) Name() string {
	return StrategyGreedy
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Pair computes one round. The input is read but never modified.
func (e *Engine) Pair(competitors []Competitor, round int) (*Round, error) {
	pool, bye, err := preparePool(competitors, round, e.cfg.ByePolicy)
	if err != nil {
		return nil, err
	}
	if bye != nil {
		e.log.WithFields(logrus.Fields{"round": round, "bye": *bye}).
			Debug("swiss.pair: assigned bye")
	}

	rankPool(pool)

	out := &Round{
		Number:   round,
		Pairings: make([]Pairing, 0, len(pool)/2),
		Bye:      bye,
	}

	available := make([]bool, len(pool))
	for i := range available {
		available[i] = true
	}
	remaining := len(pool)
	anchor := 0

	for remaining >= 2 {
		for !available[anchor] {
			anchor++
		}

		best := -1
		bestCost := math.Inf(1)
		evaluated := 0
		for i := anchor + 1; i < len(pool) && evaluated < e.cfg.CandidateWindow; i++ {
			if !available[i] {
				continue
			}
			evaluated++
			cost := e.Cost(pool[anchor], pool[i])
			if cost < bestCost {
				bestCost = cost
				best = i
			}
		}
		if best < 0 {
			// unreachable while remaining >= 2; keep the loop total anyway
			for best = anchor + 1; !available[best]; best++ {
			}
		}

		white, black := e.assignColors(pool[anchor], pool[best], round)
		available[anchor] = false
		available[best] = false
		remaining -= 2

		p := Pairing{White: white.ID, Black: black.ID,
			Board: len(out.Pairings) + 1}
		out.Pairings = append(out.Pairings, p)

		e.log.WithFields(logrus.Fields{
			"round": round,
			"board": p.Board,
			"white": p.White,
			"black": p.Black,
			"cost":  bestCost,
		}).Debug("swiss.pair: paired board")
	}

	return out, nil
}

// Cost scores a candidate opponent for anchor; lower is better.
func (e *Engine) Cost(anchor, candidate *Competitor) float64 {
	cost := 0.0

	if anchor.HasPlayed(candidate.ID) {
		cost += e.cfg.RematchPenalty
	}

	diff := anchor.Rating - candidate.Rating
	if diff < 0 {
		diff = -diff
	}
	cost += float64(diff) / e.cfg.RatingDivisor

	ab, cb := anchor.Balance(), candidate.Balance()
	if (ab > 0 && cb > 0) || (ab < 0 && cb < 0) {
		cost += e.cfg.SameColorPenalty
	} else if (ab > 0 && cb < 0) || (ab < 0 && cb > 0) {
		cost -= e.cfg.ComplementBonus
	}

	return cost
}

// assignColors gives black to whichever side has played more white. On equal
// balance odd rounds give the rank-higher competitor white and even rounds
// give them black.
func (e *Engine) assignColors(higher, lower *Competitor,
	round int) (white, black *Competitor) {

	hb, lb := higher.Balance(), lower.Balance()
	if hb > lb {
		return lower, higher
	} else if hb < lb {
		return higher, lower
	} else if round%2 == 1 {
		return higher, lower
	}

	return lower, higher
}
