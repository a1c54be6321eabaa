/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/swisspair/store"
	"github.com/mikeb26/swisspair/swiss"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store: memory
candidate_window: 3
bye_policy: rotate
strategy: fold
wide_gap: 300
bye_points: 0
elo_k: 24
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 3, cfg.CandidateWindow)
	assert.Equal(t, 300, cfg.WideGap)
	assert.Equal(t, DefaultConfig().DataDir, cfg.DataDir)
	assert.Equal(t, swiss.Scoring{Win: 1, Draw: 0.5, Loss: 0, Bye: 0, EloK: 24},
		cfg.Scoring())

	strat, err := cfg.PairingStrategy(nil)
	require.NoError(t, err)
	assert.Equal(t, swiss.StrategyFold, strat.Name())

	s, err := cfg.OpenStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, s)
}

func TestLoadConfigInvalid(t *testing.T) {
	docs := map[string]string{
		"store":    "store: floppy\n",
		"window":   "candidate_window: 0\n",
		"bye":      "bye_policy: random\n",
		"strategy": "strategy: dutch\n",
		"unknown":  "colour: blue\n",
		"gap":      "wide_gap: -1\n",
		"bye pts":  "bye_points: -1\n",
		"elo":      "elo_k: -32\n",
	}
	dir := t.TempDir()
	for name, doc := range docs {
		path := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
		_, err := LoadConfig(path)
		assert.Error(t, err, name)
	}
}

func TestOpenFileStore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")

	s, err := cfg.OpenStore(context.Background())
	require.NoError(t, err)
	fs, ok := s.(*store.FileStore)
	require.True(t, ok)
	assert.Equal(t, cfg.DataDir, fs.Dir())
}
