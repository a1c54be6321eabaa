/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/mikeb26/swisspair/internal"
	"github.com/mikeb26/swisspair/store"
	"github.com/mikeb26/swisspair/swiss"
)

const (
	StoreFile   = "file"
	StoreS3     = "s3"
	StoreMemory = "memory"
)

// Config is the on-disk configuration read from config.yaml. Zero values
// mean "use the default".
type Config struct {
	Store           string  `yaml:"store"`
	DataDir         string  `yaml:"data_dir"`
	Bucket          string  `yaml:"bucket"`
	Gzip            bool    `yaml:"gzip"`
	CandidateWindow int     `yaml:"candidate_window"`
	ByePolicy       string  `yaml:"bye_policy"`
	Strategy        string  `yaml:"strategy"`
	WideGap         int     `yaml:"wide_gap"`
	ByePoints       float64 `yaml:"bye_points"`
	EloK            float64 `yaml:"elo_k"`
}

func DefaultConfig() Config {
	return Config{
		Store:           StoreFile,
		DataDir:         filepath.Join(xdg.DataHome, internal.AppName),
		Bucket:          internal.DefaultBucket,
		CandidateWindow: swiss.DefaultCandidateWindow,
		ByePolicy:       swiss.ByeLowestRated.String(),
		Strategy:        swiss.StrategyGreedy,
		WideGap:         swiss.DefaultWideGap,
		ByePoints:       swiss.DefaultScoring().Bye,
	}
}

// DefaultConfigPath is $XDG_CONFIG_HOME/swisspair/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, internal.AppName, "config.yaml")
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.Tracef("cli.config: %v not found; using defaults", path)
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("unable to read config %v: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse config %v: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%v: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreFile, StoreS3, StoreMemory:
	default:
		return fmt.Errorf("%w: unknown store %q", swiss.ErrInvalidInput, c.Store)
	}
	if c.CandidateWindow < 1 {
		return fmt.Errorf("%w: candidate_window must be at least 1",
			swiss.ErrInvalidInput)
	}
	if c.WideGap < 0 {
		return fmt.Errorf("%w: wide_gap must not be negative",
			swiss.ErrInvalidInput)
	}
	if _, err := swiss.ParseByePolicy(c.ByePolicy); err != nil {
		return err
	}
	if err := c.Scoring().Validate(); err != nil {
		return err
	}
	if _, err := swiss.StrategyByName(c.Strategy, swiss.DefaultConfig()); err != nil {
		return err
	}

	return nil
}

// PairingStrategy builds the configured pairing strategy.
func (c *Config) PairingStrategy(log logrus.FieldLogger) (swiss.Strategy, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	policy, _ := swiss.ParseByePolicy(c.ByePolicy)

	ecfg := swiss.DefaultConfig()
	ecfg.CandidateWindow = c.CandidateWindow
	ecfg.ByePolicy = policy
	ecfg.Logger = log

	return swiss.StrategyByName(c.Strategy, ecfg)
}

// Scoring is the scoring new tournaments are created with.
func (c *Config) Scoring() swiss.Scoring {
	sc := swiss.DefaultScoring()
	sc.Bye = c.ByePoints
	sc.EloK = c.EloK
	return sc
}

// OpenStore returns the configured tournament store, initializing S3 access
// when needed.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store {
	case StoreMemory:
		return store.NewMemoryStore(), nil
	case StoreS3:
		s := store.NewS3Store(c.Bucket, c.Gzip)
		if err := s.Init(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case StoreFile:
		return store.NewFileStore(c.DataDir)
	}

	return nil, fmt.Errorf("%w: unknown store %q", swiss.ErrInvalidInput, c.Store)
}
