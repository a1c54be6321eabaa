/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/mikeb26/swisspair/swiss"
)

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromPath picks YAML for .yaml/.yml and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// record mirrors swiss.Competitor with pointers for the required fields so a
// missing field can be told apart from a zero value.
type record struct {
	ID         *int     `json:"id" yaml:"id"`
	Name       *string  `json:"name" yaml:"name"`
	Rating     *int     `json:"rating" yaml:"rating"`
	Preference string   `json:"color_preference" yaml:"color_preference"`
	Score      float64  `json:"score" yaml:"score"`
	Opponents  []int    `json:"previous_opponents" yaml:"previous_opponents"`
	Colors     []string `json:"colors_played" yaml:"colors_played"`
	ByeRounds  []int    `json:"bye_rounds" yaml:"bye_rounds"`
	Withdrawn  bool     `json:"withdrawn" yaml:"withdrawn"`
}

func (rec *record) toCompetitor(idx int) (swiss.Competitor, error) {
	var c swiss.Competitor
	if rec.ID == nil {
		return c, fmt.Errorf("%w: record %d has no id", swiss.ErrInvalidInput,
			idx)
	}
	if rec.Name == nil {
		return c, fmt.Errorf("%w: record %d (id %d) has no name",
			swiss.ErrInvalidInput, idx, *rec.ID)
	}
	if rec.Rating == nil {
		return c, fmt.Errorf("%w: record %d (id %d) has no rating",
			swiss.ErrInvalidInput, idx, *rec.ID)
	}
	pref, err := swiss.ParsePreference(rec.Preference)
	if err != nil {
		return c, fmt.Errorf("record %d (id %d): %w", idx, *rec.ID, err)
	}

	colors := make([]swiss.Color, 0, len(rec.Colors))
	for _, s := range rec.Colors {
		col, err := swiss.ParseColor(s)
		if err != nil {
			return c, fmt.Errorf("record %d (id %d): %w", idx, *rec.ID, err)
		}
		colors = append(colors, col)
	}
	opponents := rec.Opponents
	if opponents == nil {
		opponents = []int{}
	}

	return swiss.Competitor{
		ID:         *rec.ID,
		Name:       *rec.Name,
		Rating:     *rec.Rating,
		Preference: pref,
		Score:      rec.Score,
		Opponents:  opponents,
		Colors:     colors,
		ByeRounds:  rec.ByeRounds,
		Withdrawn:  rec.Withdrawn,
	}, nil
}

// Load decodes and validates a competitor list. Records missing id, name or
// rating are rejected with swiss.ErrInvalidInput rather than defaulted.
func Load(r io.Reader, format Format) ([]swiss.Competitor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read competitors: %w", err)
	}

	var recs []record
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &recs)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&recs)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse competitors: %v",
			swiss.ErrInvalidInput, err)
	}

	out := make([]swiss.Competitor, 0, len(recs))
	for idx := range recs {
		c, err := recs[idx].toCompetitor(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := swiss.Validate(out); err != nil {
		return nil, err
	}

	return out, nil
}

func LoadFile(path string) ([]swiss.Competitor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v: %w", path, err)
	}
	defer f.Close()

	comps, err := Load(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return comps, nil
}

// Save writes competitors in the same shape Load reads.
func Save(w io.Writer, competitors []swiss.Competitor, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(competitors)
	default:
		data, err = json.MarshalIndent(competitors, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("unable to encode competitors: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func SaveFile(path string, competitors []swiss.Competitor) error {
	var buf bytes.Buffer
	if err := Save(&buf, competitors, FormatFromPath(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write %v: %w", path, err)
	}
	return nil
}
