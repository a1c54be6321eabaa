/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/gregjones/httpcache"
	"github.com/spf13/cobra"

	"github.com/mikeb26/swisspair/internal"
	"github.com/mikeb26/swisspair/roster"
	"github.com/mikeb26/swisspair/store"
	"github.com/mikeb26/swisspair/swiss"
)

const (
	spinCharSet     = 11
	defaultSampleSz = 8
)

// swisspair sample
func sampleCmd(a *app) *cobra.Command {
	var (
		out    string
		format string
	)
	cmd := &cobra.Command{
		Use:   "sample [count]",
		Short: "Print a roster of sample competitors",
		Args:  cobra.MaximumNArgs(1),
		Long: heredoc.Doc(`sample prints count (default 8) fresh competitors named
			"Player 1".."Player N" and rated 1300, 1400, ... as a roster
			file suitable for "swisspair create".`),
		Annotations: map[string]string{noStoreAnnotation: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			n := defaultSampleSz
			if len(args) == 1 {
				var err error
				n, err = strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("%w: count must be a positive integer",
						swiss.ErrInvalidInput)
				}
			}
			comps := swiss.Sample(n)
			if out != "" {
				return roster.SaveFile(out, comps)
			}

			f := roster.FormatJSON
			if strings.EqualFold(format, "yaml") {
				f = roster.FormatYAML
			}
			return roster.Save(cmd.OutOrStdout(), comps, f)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "",
		"Write to this file instead of stdout (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&format, "format", "json",
		"Output format for stdout: json or yaml")

	return cmd
}

// swisspair create
func createCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create name roster-file",
		Short: "Create a tournament from a roster file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, err := roster.LoadFile(args[1])
			if err != nil {
				return err
			}
			return a.createTournament(cmd, args[0], comps)
		},
	}
}

func (a *app) createTournament(cmd *cobra.Command, name string,
	comps []swiss.Competitor) error {

	t, err := store.NewTournament(name, comps)
	if err != nil {
		return err
	}
	t.Scoring = a.cfg.Scoring()
	if err := a.store.Create(cmd.Context(), t); err != nil {
		return err
	}
	a.log.WithField("tournament", t.ID).
		Infof("cli.create: created %q with %d competitors", name, len(comps))
	fmt.Fprintln(cmd.OutOrStdout(), t.ID)

	return nil
}

// swisspair fetch
func fetchCmd(a *app) *cobra.Command {
	var (
		name       string
		profileURL string
		maxAge     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "fetch registration-url",
		Short: "Create a tournament from an online registration page",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`fetch downloads a registration page, reads its members
			table (columns ID, Name, Rating and optionally Score) and
			creates a tournament from it.

			With --profile-url, each competitor's rating is refreshed from
			their profile page; the URL must contain a single %d which is
			replaced by the competitor's id. Pages are cached for --max-age,
			in the bucket when --store=s3 and in memory otherwise.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if profileURL != "" && strings.Count(profileURL, "%d") != 1 {
				return fmt.Errorf("%w: --profile-url must contain exactly one %%d",
					swiss.ErrInvalidInput)
			}

			var cache httpcache.Cache
			if s3s, ok := a.store.(*store.S3Store); ok {
				cache = s3s.Cache(ctx, internal.WebCachePrefix)
			}
			client := internal.NewCachedHttpClient(cache, maxAge)

			s := spinner.New(spinner.CharSets[spinCharSet], 100*time.Millisecond,
				spinner.WithWriter(cmd.ErrOrStderr()))
			s.Suffix = " fetching registration"
			s.Start()
			comps, err := roster.FetchRegistration(ctx, client, args[0])
			if err == nil && profileURL != "" {
				s.Suffix = " refreshing ratings"
				var changed int
				comps, changed, err = roster.RefreshRatings(ctx, client, comps,
					func(id int) string { return fmt.Sprintf(profileURL, id) },
					nil, a.log)
				if err == nil {
					a.log.Infof("cli.fetch: %d rating(s) updated", changed)
				}
			}
			s.Stop()
			if err != nil {
				return err
			}

			if name == "" {
				name = args[0]
			}
			return a.createTournament(cmd, name, comps)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Tournament name (defaults to the URL)")
	cmd.Flags().StringVar(&profileURL, "profile-url", "",
		"Profile page URL template used to refresh ratings, e.g. https://example.org/player/%d")
	cmd.Flags().DurationVar(&maxAge, "max-age", time.Hour,
		"How long fetched pages are cached")

	return cmd
}

// swisspair pair
func pairCmd(a *app) *cobra.Command {
	var (
		round     int
		strategy  string
		window    int
		byePolicy string
		apply     bool
		out       string
	)
	cmd := &cobra.Command{
		Use:   "pair tournament-id",
		Short: "Pair the next round of a tournament",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`pair computes pairings for the tournament's next round
			(or --round) and prints them. Nothing is stored unless --apply is
			given, in which case every competitor's opponents and colors are
			updated and the round is recorded.

			Strategies: greedy (default; score groups with rematch and color
			balance costs), fold (top half against bottom half) and simple
			(adjacent competitors by rating).`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := a.store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			cfg := a.cfg
			if strategy != "" {
				cfg.Strategy = strategy
			}
			if cmd.Flag("window").Changed {
				cfg.CandidateWindow = window
			}
			if byePolicy != "" {
				cfg.ByePolicy = byePolicy
			}
			strat, err := cfg.PairingStrategy(a.log)
			if err != nil {
				return err
			}

			if round == 0 {
				round = t.NextRound()
			}
			r, err := strat.Pair(t.Competitors, round)
			if err != nil {
				return fmt.Errorf("unable to pair round %d: %w", round, err)
			}
			a.warn(t.Competitors, r, cfg.WideGap)
			fmt.Fprint(cmd.OutOrStdout(), swiss.BuildPairingsOutput(r,
				t.Competitors))

			if out != "" {
				if err := writeRoundFile(out, r); err != nil {
					return err
				}
			}
			if !apply {
				return nil
			}
			if _, err := store.RecordRound(ctx, a.store, t.ID, r,
				strat.Name()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nRound %d recorded\n", r.Number)

			return nil
		},
	}
	cmd.Flags().IntVarP(&round, "round", "r", 0,
		"Round number (defaults to the round after the last recorded one)")
	cmd.Flags().StringVar(&strategy, "strategy", "",
		"Pairing strategy: greedy, fold or simple")
	cmd.Flags().IntVar(&window, "window", swiss.DefaultCandidateWindow,
		"Number of candidates the greedy strategy considers per competitor")
	cmd.Flags().StringVar(&byePolicy, "bye-policy", "",
		"Bye selection: lowest-rated or rotate")
	cmd.Flags().BoolVar(&apply, "apply", false,
		"Apply the round and record it in the store")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Also write the round to this file")

	return cmd
}

func writeRoundFile(path string, r *swiss.Round) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %v: %w", path, err)
	}
	if err := roster.WriteRound(f, r, time.Now().UTC()); err != nil {
		f.Close()
		return fmt.Errorf("unable to write %v: %w", path, err)
	}
	return f.Close()
}

// warn logs review findings; they never block a round.
func (a *app) warn(comps []swiss.Competitor, r *swiss.Round, wideGap int) {
	report, err := swiss.Review(comps, r, wideGap)
	if err != nil {
		a.log.WithError(err).Warn("cli.review: unable to review round")
		return
	}
	for _, w := range report.Warnings {
		a.log.WithField("round", r.Number).Warnf("cli.review: %v", w)
	}
}

// swisspair import
func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import tournament-id round-file",
		Short: "Apply a saved round file to a tournament",
		Args:  cobra.ExactArgs(2),
		Long: heredoc.Doc(`import reads a round file, either one written by
			"swisspair pair --out" or the older nested
			white_player/black_player layout, and records it against
			the tournament.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, ts, err := roster.LoadRoundFile(args[1])
			if err != nil {
				return err
			}
			t, err := a.store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			a.warn(t.Competitors, r, a.cfg.WideGap)

			if _, err := store.RecordRound(ctx, a.store, t.ID, r,
				"import"); err != nil {
				return err
			}
			when := ""
			if !ts.IsZero() {
				when = " (paired " + ts.Format(time.DateTime) + ")"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Round %d recorded%v\n", r.Number,
				when)

			return nil
		},
	}
}

// swisspair result
func resultCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "result tournament-id round board white|black|draw",
		Short: "Record the result of one board",
		Args:  cobra.ExactArgs(4),
		Long: heredoc.Doc(`result records who won a board of an applied round and
			credits both competitors' scores; 1-0, 0-1 and 1/2-1/2 are
			accepted too. Points follow the tournament's scoring, and
			ratings are adjusted when it was created with elo_k set. A
			board's result cannot be changed once recorded.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			round, err := strconv.Atoi(args[1])
			if err != nil || round < 1 {
				return fmt.Errorf("%w: round must be a positive integer",
					swiss.ErrInvalidInput)
			}
			board, err := strconv.Atoi(args[2])
			if err != nil || board < 1 {
				return fmt.Errorf("%w: board must be a positive integer",
					swiss.ErrInvalidInput)
			}
			res, err := swiss.ParseResult(args[3])
			if err != nil {
				return err
			}

			t, err := store.RecordResult(cmd.Context(), a.store, args[0], round,
				board, res)
			if err != nil {
				return err
			}
			pending := 0
			for _, rec := range t.Rounds {
				if rec.Number == round {
					pending = rec.Pending()
				}
			}
			a.log.WithField("tournament", t.ID).
				Infof("cli.result: round %d board %d %v", round, board, res)
			fmt.Fprintf(cmd.OutOrStdout(), "Round %d board %d: %v (%d board(s) pending)\n",
				round, board, res, pending)

			return nil
		},
	}
}

// swisspair standings
func standingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "standings tournament-id",
		Short: "Show standings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), swiss.BuildStandingsOutput(t.Competitors))
			return nil
		},
	}
}

// swisspair stats
func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats tournament-id",
		Short: "Show each competitor's color balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), swiss.BuildColorStatsOutput(t.Competitors))
			return nil
		},
	}
}

// swisspair list
func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tournaments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids, err := a.store.List(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				t, err := a.store.Get(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-36v  %-24v  players:%-4d rounds:%d\n",
					t.ID, t.Name, len(t.Competitors), len(t.Rounds))
			}
			return nil
		},
	}
}

// swisspair delete
func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete tournament-id",
		Short: "Delete a stored tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.Delete(cmd.Context(), args[0])
		},
	}
}
