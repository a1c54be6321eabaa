/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHttpClient(t *testing.T) {
	var hits atomic.Int32
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		hits.Add(1)
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Cache-Control", "no-store")
		fmt.Fprint(w, "<table id=\"members\"></table>")
	}))
	defer srv.Close()

	client := NewCachedHttpClient(nil, 5*time.Minute)

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Errorf("Failed to read response body")
		}
		if len(data) == 0 {
			t.Errorf("Empty data")
		}
		if i > 0 {
			if resp.Header.Get("X-From-Cache") != "1" {
				t.Errorf("object not cached")
			}
		}
		resp.Body.Close()
	}

	if hits.Load() != 1 {
		t.Errorf("origin hit %d times; want 1", hits.Load())
	}
	if ua, _ := gotUA.Load().(string); ua != UserAgent {
		t.Errorf("User-Agent = %q; want %q", ua, UserAgent)
	}
}

func TestScoreToString(t *testing.T) {
	cases := map[float64]string{0: "0", 0.5: "½", 1: "1", 2.5: "2½", 3.3: "3.3"}
	for in, want := range cases {
		if got := ScoreToString(in); got != want {
			t.Errorf("ScoreToString(%v) = %q; want %q", in, got, want)
		}
	}
}

func TestParseDateOrZero(t *testing.T) {
	for _, s := range []string{"", "null"} {
		got, err := ParseDateOrZero(s)
		if err != nil || !got.IsZero() {
			t.Errorf("ParseDateOrZero(%q) = %v, %v; want zero", s, got, err)
		}
	}

	got, err := ParseDateOrZero("2025-03-14T19:30:05.123456")
	if err != nil {
		t.Fatalf("ParseDateOrZero returned error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 14 ||
		got.Hour() != 19 {
		t.Errorf("ParseDateOrZero parsed %v", got)
	}
}
