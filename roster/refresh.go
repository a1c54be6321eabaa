/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/swisspair/swiss"
)

const refreshConcurrency = 4

var reDigits = regexp.MustCompile(`\d+`)

// RatingExtractor pulls a rating out of a profile page.
type RatingExtractor func(doc *goquery.Document) (int, bool)

// DefaultRatingExtractor reads the first element with class "rating", then
// falls back to the bold value following a "Regular Rating" label.
func DefaultRatingExtractor(doc *goquery.Document) (int, bool) {
	if sel := doc.Find(".rating").First(); sel.Length() > 0 {
		if d := reDigits.FindString(sel.Text()); d != "" {
			if r, err := strconv.Atoi(d); err == nil {
				return r, true
			}
		}
	}

	rating, found := 0, false
	doc.Find("td, th").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), "Regular Rating") {
			return true
		}
		b := s.Next().Find("b").First()
		if b.Length() == 0 {
			b = s.NextAll().Find("b").First()
		}
		if d := reDigits.FindString(b.Text()); d != "" {
			if r, err := strconv.Atoi(d); err == nil {
				rating, found = r, true
				return false
			}
		}
		return true
	})

	return rating, found
}

// RefreshRatings returns a copy of competitors with ratings replaced by the
// value found on each competitor's profile page. Lookups run concurrently;
// a failed lookup keeps the registered rating. The second return value is
// the number of ratings that changed. Failed lookups are logged to log at
// debug level; a nil log uses the standard logger.
func RefreshRatings(ctx context.Context, client *http.Client,
	competitors []swiss.Competitor, profileURL func(id int) string,
	extract RatingExtractor,
	log logrus.FieldLogger) ([]swiss.Competitor, int, error) {

	if extract == nil {
		extract = DefaultRatingExtractor
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	out := make([]swiss.Competitor, len(competitors))
	for i := range competitors {
		out[i] = competitors[i].Clone()
	}
	official := make([]int, len(out))
	found := make([]bool, len(out))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for i := range out {
		i := i
		g.Go(func() error {
			url := profileURL(out[i].ID)
			doc, err := fetchDoc(gctx, client, url)
			if err != nil {
				// use registered values
				log.WithError(err).WithField("id", out[i].ID).
					Debug("roster.refresh: profile fetch failed")
				return nil
			}
			official[i], found[i] = extract(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	changed := 0
	for i := range out {
		if found[i] && official[i] != out[i].Rating {
			out[i].Rating = official[i]
			changed++
		}
	}

	return out, changed, nil
}
