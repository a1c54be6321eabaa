/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/mikeb26/swisspair/internal"
	"github.com/mikeb26/swisspair/swiss"
)

var reTrailingID = regexp.MustCompile(`(\d{1,10})\D*$`)

// ParseRegistration extracts competitors from the registration table
// (table#members). Columns are located by header text: "ID" (or "USCF ID"),
// "Name", "Rating" and optionally "Score". Without an id column rows are
// numbered from 1.
func ParseRegistration(doc *goquery.Document) ([]swiss.Competitor, error) {
	table := doc.Find("table#members").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no members table", swiss.ErrInvalidInput)
	}

	idIdx, nameIdx, rateIdx, scoreIdx := -1, -1, -1, -1
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		switch strings.ToLower(strings.TrimSpace(th.Text())) {
		case "id", "uscf id", "member id":
			idIdx = i
		case "name", "player":
			nameIdx = i
		case "rating":
			rateIdx = i
		case "score", "pts", "points":
			scoreIdx = i
		}
	})
	if nameIdx < 0 || rateIdx < 0 {
		return nil, fmt.Errorf("%w: members table lacks name or rating column",
			swiss.ErrInvalidInput)
	}

	var (
		out     []swiss.Competitor
		rowErr  error
		nextSeq = 1
	)
	table.Find("tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() <= nameIdx || cells.Length() <= rateIdx {
			return true
		}

		c := swiss.Competitor{Opponents: []int{}, Colors: []swiss.Color{}}
		if idIdx >= 0 {
			id, ok := cellID(cells.Eq(idIdx))
			if !ok {
				rowErr = fmt.Errorf("%w: row %d has no usable id",
					swiss.ErrInvalidInput, len(out)+1)
				return false
			}
			c.ID = id
		} else {
			c.ID = nextSeq
			nextSeq++
		}

		c.Name = normalizeName(cells.Eq(nameIdx).Text())
		if c.Name == "" {
			rowErr = fmt.Errorf("%w: row %d has no name", swiss.ErrInvalidInput,
				len(out)+1)
			return false
		}
		c.Rating = strRatingToInt(cells.Eq(rateIdx).Text())
		if scoreIdx >= 0 && cells.Length() > scoreIdx {
			c.Score = parseScore(cells.Eq(scoreIdx).Text())
		}

		out = append(out, c)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if err := swiss.Validate(out); err != nil {
		return nil, err
	}

	return out, nil
}

// FetchRegistration downloads url and parses its registration table.
func FetchRegistration(ctx context.Context, client *http.Client,
	url string) ([]swiss.Competitor, error) {

	doc, err := fetchDoc(ctx, client, url)
	if err != nil {
		return nil, err
	}
	return ParseRegistration(doc)
}

// fetchDoc gets the HTML document at the given URL using the configured User-Agent.
func fetchDoc(ctx context.Context, client *http.Client,
	url string) (*goquery.Document, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %v (new): %w", url, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %v (do): %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func cellID(cell *goquery.Selection) (int, bool) {
	text := strings.TrimSpace(cell.Text())
	if id, err := strconv.Atoi(text); err == nil {
		return id, true
	}
	if href, ok := cell.Find("a").Attr("href"); ok {
		if m := reTrailingID.FindStringSubmatch(href); m != nil {
			if id, err := strconv.Atoi(m[1]); err == nil {
				return id, true
			}
		}
	}
	return 0, false
}

// strRatingToInt handles formats like "1559/24" and treats "unrated" or
// garbage as 0.
func strRatingToInt(rating string) int {
	r := 0
	rating = strings.TrimSpace(rating)
	if rating != "" {
		if idx := strings.Index(rating, "/"); idx != -1 {
			rating = rating[:idx]
		}
		if v, err := strconv.Atoi(strings.TrimSpace(rating)); err == nil {
			r = v
		}
	}

	return r
}

func parseScore(s string) float64 {
	s = strings.TrimSpace(s)
	half := 0.0
	if strings.HasSuffix(s, "½") {
		half = 0.5
		s = strings.TrimSuffix(s, "½")
	}
	if s == "" {
		return half
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v + half
}

// normalizeName collapses whitespace and title-cases each word, so
// "  CARLSEN,  magnus " becomes "Carlsen, Magnus".
func normalizeName(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		r := []rune(strings.ToLower(p))
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}
