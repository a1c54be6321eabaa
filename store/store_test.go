/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/swisspair/swiss"
)

func newTestStores(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	return map[string]Store{
		"memory":  NewMemoryStore(),
		"file":    fs,
		"s3":      newFakeS3Store(false),
		"s3+gzip": newFakeS3Store(true),
	}
}

func TestStoreLifecycle(t *testing.T) {
	for name, s := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			tourney, err := NewTournament("Thursday Swiss", swiss.Sample(5))
			require.NoError(t, err)
			require.NoError(t, s.Create(ctx, tourney))
			assert.ErrorIs(t, s.Create(ctx, tourney), ErrExists)

			got, err := s.Get(ctx, tourney.ID)
			require.NoError(t, err)
			assert.Equal(t, tourney.Name, got.Name)
			assert.Len(t, got.Competitors, 5)
			assert.Equal(t, 1, got.NextRound())

			ids, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{tourney.ID}, ids)

			r, err := swiss.Pair(got.Competitors, got.NextRound())
			require.NoError(t, err)
			updated, err := RecordRound(ctx, s, tourney.ID, r, swiss.StrategyGreedy)
			require.NoError(t, err)
			assert.Equal(t, 2, updated.NextRound())

			reread, err := s.Get(ctx, tourney.ID)
			require.NoError(t, err)
			require.Len(t, reread.Rounds, 1)
			assert.Equal(t, r.Pairings, reread.Rounds[0].Pairings)
			require.NotNil(t, reread.Rounds[0].Bye)
			assert.Equal(t, *r.Bye, *reread.Rounds[0].Bye)
			assert.NotEmpty(t, reread.Rounds[0].ID)
			for _, c := range reread.Competitors {
				assert.Equal(t, len(c.Opponents), len(c.Colors))
				if c.ID == *r.Bye {
					assert.Empty(t, c.Opponents)
					assert.Equal(t, []int{1}, c.ByeRounds)
				} else {
					assert.Len(t, c.Opponents, 1)
				}
			}

			stored, ok := reread.Round(1)
			require.True(t, ok)
			assert.Equal(t, r.Pairings, stored.Pairings)

			_, err = RecordRound(ctx, s, tourney.ID, r, swiss.StrategyGreedy)
			assert.ErrorIs(t, err, swiss.ErrInvalidInput)

			require.NoError(t, s.Delete(ctx, tourney.ID))
			_, err = s.Get(ctx, tourney.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, tourney.ID), ErrNotFound)
			assert.ErrorIs(t, s.Save(ctx, tourney), ErrNotFound)
		})
	}
}

func TestRecordRoundLookupMissLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tourney, err := NewTournament("Blitz", swiss.Sample(4))
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, tourney))

	r := &swiss.Round{Number: 1, Pairings: []swiss.Pairing{
		{White: 1, Black: 2, Board: 1},
		{White: 3, Black: 404, Board: 2},
	}}
	_, err = RecordRound(ctx, s, tourney.ID, r, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, swiss.ErrLookupMiss))

	got, err := s.Get(ctx, tourney.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Rounds)
	for _, c := range got.Competitors {
		assert.Empty(t, c.Opponents)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tourney, err := NewTournament("Rapid", swiss.Sample(2))
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, tourney))

	tourney.Competitors[0].Name = "changed"
	got, err := s.Get(ctx, tourney.ID)
	require.NoError(t, err)
	assert.Equal(t, "Player 1", got.Competitors[0].Name)
}

func TestNewTournamentValidates(t *testing.T) {
	_, err := NewTournament("empty", nil)
	assert.ErrorIs(t, err, swiss.ErrInvalidInput)
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Get(context.Background(), "../escape")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordRoundRequiresNextRound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tourney, err := NewTournament("Gaps", swiss.Sample(4))
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, tourney))

	r, err := swiss.Pair(tourney.Competitors, 3)
	require.NoError(t, err)
	_, err = RecordRound(ctx, s, tourney.ID, r, swiss.StrategyGreedy)
	assert.ErrorIs(t, err, swiss.ErrInvalidInput)

	got, err := s.Get(ctx, tourney.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Rounds)
	assert.Equal(t, 1, got.NextRound())
}

func TestRecordResult(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	comps := swiss.Sample(5)
	tourney, err := NewTournament("Results", comps)
	require.NoError(t, err)
	tourney.Scoring.EloK = swiss.DefaultEloK
	require.NoError(t, s.Create(ctx, tourney))

	bye := 1
	r := &swiss.Round{Number: 1, Bye: &bye, Pairings: []swiss.Pairing{
		{White: 5, Black: 4, Board: 1},
		{White: 3, Black: 2, Board: 2},
	}}
	updated, err := RecordRound(ctx, s, tourney.ID, r, "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.Competitors[0].Score, "bye is credited")
	assert.Equal(t, 2, updated.Rounds[0].Pending())

	updated, err = RecordResult(ctx, s, tourney.ID, 1, 1, swiss.ResultBlack)
	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.Competitors[3].Score)
	assert.Equal(t, 0.0, updated.Competitors[4].Score)
	assert.Greater(t, updated.Competitors[3].Rating, comps[3].Rating)
	assert.Less(t, updated.Competitors[4].Rating, comps[4].Rating)

	_, err = RecordResult(ctx, s, tourney.ID, 1, 2, swiss.ResultDraw)
	require.NoError(t, err)

	got, err := s.Get(ctx, tourney.ID)
	require.NoError(t, err)
	assert.Equal(t, []swiss.Result{swiss.ResultBlack, swiss.ResultDraw},
		got.Rounds[0].Results)
	assert.Equal(t, 0, got.Rounds[0].Pending())
	assert.Equal(t, 0.5, got.Competitors[1].Score)
	assert.Equal(t, 0.5, got.Competitors[2].Score)
	res, ok := got.Rounds[0].Result(2)
	assert.True(t, ok)
	assert.Equal(t, swiss.ResultDraw, res)

	tests := []struct {
		name         string
		round, board int
		res          swiss.Result
	}{
		{"already recorded", 1, 1, swiss.ResultWhite},
		{"unknown round", 2, 1, swiss.ResultWhite},
		{"unknown board", 1, 3, swiss.ResultWhite},
		{"pending", 1, 2, swiss.ResultPending},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RecordResult(ctx, s, tourney.ID, tc.round, tc.board, tc.res)
			assert.ErrorIs(t, err, swiss.ErrInvalidInput)
		})
	}

	after, err := s.Get(ctx, tourney.ID)
	require.NoError(t, err)
	assert.Equal(t, got, after, "rejected results must not be stored")
}

func TestRecordConcurrent(t *testing.T) {
	const boards = 8
	for name, s := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			tourney, err := NewTournament("Simul", swiss.Sample(2*boards))
			require.NoError(t, err)
			require.NoError(t, s.Create(ctx, tourney))

			r, err := swiss.Pair(tourney.Competitors, 1)
			require.NoError(t, err)
			require.Len(t, r.Pairings, boards)

			// every writer races for round 1; exactly one may win
			var wg sync.WaitGroup
			errs := make([]error, 4)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = RecordRound(ctx, s, tourney.ID, r, "")
				}(i)
			}
			wg.Wait()
			ok := 0
			for _, err := range errs {
				if err == nil {
					ok++
				} else {
					assert.ErrorIs(t, err, swiss.ErrInvalidInput)
				}
			}
			assert.Equal(t, 1, ok)

			for _, p := range r.Pairings {
				wg.Add(1)
				go func(board int) {
					defer wg.Done()
					_, err := RecordResult(ctx, s, tourney.ID, 1, board,
						swiss.ResultWhite)
					assert.NoError(t, err)
				}(p.Board)
			}
			wg.Wait()

			got, err := s.Get(ctx, tourney.ID)
			require.NoError(t, err)
			require.Len(t, got.Rounds, 1)
			assert.Equal(t, 0, got.Rounds[0].Pending())
			total := 0.0
			for _, c := range got.Competitors {
				assert.Len(t, c.Opponents, 1)
				total += c.Score
			}
			assert.Equal(t, float64(boards), total)
		})
	}
}
