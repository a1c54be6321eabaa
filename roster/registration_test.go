/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/swisspair/swiss"
)

const membersPage = `<html><body>
<table id="members">
 <thead><tr><th>#</th><th>Name</th><th>USCF ID</th><th>Rating</th><th>Score</th></tr></thead>
 <tbody>
  <tr><td>1</td><td>  SMITH,   john </td><td>12345678</td><td>1559/24</td><td>1½</td></tr>
  <tr><td>2</td><td>doe, jane</td><td><a href="/player/87654321">profile</a></td><td>unrated</td><td>2</td></tr>
 </tbody>
</table>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseRegistration(t *testing.T) {
	comps, err := ParseRegistration(mustDoc(t, membersPage))
	require.NoError(t, err)
	require.Len(t, comps, 2)

	assert.Equal(t, 12345678, comps[0].ID)
	assert.Equal(t, "Smith, John", comps[0].Name)
	assert.Equal(t, 1559, comps[0].Rating)
	assert.Equal(t, 1.5, comps[0].Score)

	assert.Equal(t, 87654321, comps[1].ID)
	assert.Equal(t, "Doe, Jane", comps[1].Name)
	assert.Equal(t, 0, comps[1].Rating)
	assert.Equal(t, 2.0, comps[1].Score)
	assert.NotNil(t, comps[1].Opponents)
}

func TestParseRegistrationPositionalIDs(t *testing.T) {
	page := `<table id="members"><thead><tr><th>Name</th><th>Rating</th></tr></thead>
<tbody><tr><td>A</td><td>1000</td></tr><tr><td>B</td><td>900</td></tr></tbody></table>`
	comps, err := ParseRegistration(mustDoc(t, page))
	require.NoError(t, err)
	require.Len(t, comps, 2)
	assert.Equal(t, 1, comps[0].ID)
	assert.Equal(t, 2, comps[1].ID)
}

func TestParseRegistrationErrors(t *testing.T) {
	pages := map[string]string{
		"no table":  `<p>closed</p>`,
		"no rating": `<table id="members"><thead><tr><th>Name</th></tr></thead><tbody></tbody></table>`,
		"bad id": `<table id="members"><thead><tr><th>ID</th><th>Name</th><th>Rating</th></tr></thead>
<tbody><tr><td>tbd</td><td>A</td><td>1</td></tr></tbody></table>`,
		"empty": `<table id="members"><thead><tr><th>Name</th><th>Rating</th></tr></thead><tbody></tbody></table>`,
	}
	for name, page := range pages {
		_, err := ParseRegistration(mustDoc(t, page))
		assert.ErrorIs(t, err, swiss.ErrInvalidInput, name)
	}
}

func TestStrRatingToInt(t *testing.T) {
	cases := map[string]int{"1559/24": 1559, "  1800 ": 1800, "unrated": 0,
		"": 0, "(P5) 1200/5": 0}
	for in, want := range cases {
		assert.Equal(t, want, strRatingToInt(in), in)
	}
}

func TestFetchRegistration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		if r.URL.Path != "/event/42/entries" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, membersPage)
	}))
	defer srv.Close()

	comps, err := FetchRegistration(context.Background(), srv.Client(),
		srv.URL+"/event/42/entries")
	require.NoError(t, err)
	assert.Len(t, comps, 2)

	_, err = FetchRegistration(context.Background(), srv.Client(),
		srv.URL+"/missing")
	assert.Error(t, err)
}

func TestRefreshRatings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		switch r.URL.Path {
		case "/p/1":
			fmt.Fprint(w, `<div class="rating">1650</div>`)
		case "/p/2":
			fmt.Fprint(w, `<table><tr><td>Regular Rating</td><td><b>1420*</b> 2025-05-01</td></tr></table>`)
		case "/p/3":
			fmt.Fprint(w, `<p>no rating here</p>`)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	comps := swiss.Sample(4)
	comps[0].Rating = 1650
	orig := make([]swiss.Competitor, len(comps))
	for i := range comps {
		orig[i] = comps[i].Clone()
	}

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	got, changed, err := RefreshRatings(context.Background(), srv.Client(),
		comps, func(id int) string { return fmt.Sprintf("%v/p/%d", srv.URL, id) },
		nil, log)
	require.NoError(t, err)

	assert.Equal(t, 1, changed)
	assert.Equal(t, 1650, got[0].Rating)
	assert.Equal(t, 1420, got[1].Rating)
	assert.Equal(t, comps[2].Rating, got[2].Rating)
	assert.Equal(t, comps[3].Rating, got[3].Rating)
	assert.Equal(t, orig, comps, "input must not be modified")

	// only the failed fetch for competitor 4 is logged, and only to log
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, 4, hook.LastEntry().Data["id"])
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}

func TestRefreshRatingsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := RefreshRatings(ctx, http.DefaultClient, swiss.Sample(2),
		func(id int) string { return "http://127.0.0.1:1/" }, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
