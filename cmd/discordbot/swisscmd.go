/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/mikeb26/swisspair/store"
	"github.com/mikeb26/swisspair/swiss"
)

type SwissSubCommand string

const (
	SwissHelpCmd      SwissSubCommand = "help"
	SwissListCmd      SwissSubCommand = "list"
	SwissPairingsCmd  SwissSubCommand = "pairings"
	SwissStandingsCmd SwissSubCommand = "standings"
	SwissStatsCmd     SwissSubCommand = "stats"
)

var swissSubCmdHdlrs = map[SwissSubCommand]CmdHandler{
	SwissHelpCmd:      swissHelpCmdHandler,
	SwissListCmd:      swissListCmdHandler,
	SwissPairingsCmd:  swissPairingsCmdHandler,
	SwissStandingsCmd: swissStandingsCmdHandler,
	SwissStatsCmd:     swissStatsCmdHandler,
}

func swissCommand() *discordgo.ApplicationCommand {
	tourneyOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "tournament",
		Description: "Tournament id or name (as returned by list)",
		Required:    true,
	}
	broadcastOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}

	return &discordgo.ApplicationCommand{
		Name:        string(SwissCmd),
		Description: "Swiss pairing commands; try /swiss help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissHelpCmd),
				Description: "Show usage for swiss",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissListCmd),
				Description: "List tournaments",
				Options:     []*discordgo.ApplicationCommandOption{broadcastOpt},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissPairingsCmd),
				Description: "Show pairings for a round (default is the latest)",
				Options: []*discordgo.ApplicationCommandOption{
					tourneyOpt,
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "round",
						Description: "Round number",
						Required:    false,
					},
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissStandingsCmd),
				Description: "Show current standings",
				Options: []*discordgo.ApplicationCommandOption{tourneyOpt,
					broadcastOpt},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissStatsCmd),
				Description: "Show each competitor's color balance",
				Options: []*discordgo.ApplicationCommandOption{tourneyOpt,
					broadcastOpt},
			},
		},
	}
}

func swissCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := swissHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := swissSubCmdHdlrs[SwissSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newEphemeralResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

var helpText = heredoc.Doc(`**/swiss** shows tournaments paired by swisspair.

	- **/swiss list**: tournaments and how many rounds have been played
	- **/swiss pairings** *tournament* [*round*]: pairings for a round, the latest by default
	- **/swiss standings** *tournament*: standings by score then rating
	- **/swiss stats** *tournament*: white/black counts and color balance

	Add *broadcast:True* to share the answer with the channel.`)

func swissHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

// subOptions holds the options common to the tournament subcommands.
type subOptions struct {
	tournament string
	round      int64
	broadcast  bool
}

func parseSubOptions(inter *discordgo.Interaction) subOptions {
	var opts subOptions
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return opts
	}
	for _, opt := range data.Options[0].Options {
		switch opt.Name {
		case "tournament":
			opts.tournament = strings.TrimSpace(opt.StringValue())
		case "round":
			opts.round = opt.IntValue()
		case "broadcast":
			opts.broadcast = opt.BoolValue()
		}
	}
	return opts
}

// findTournament looks the tournament up by id first and then by name.
func findTournament(ctx context.Context, ref string) (*store.Tournament, error) {
	t, err := tourneys.Get(ctx, ref)
	if err == nil {
		return t, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	ids, err := tourneys.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		t, err := tourneys.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}

	return nil, fmt.Errorf("%w: %v", store.ErrNotFound, ref)
}

// tournamentResponse resolves the tournament named in inter and renders it
// with render inside a code block.
func tournamentResponse(ctx context.Context, inter *discordgo.Interaction,
	what string,
	render func(opts subOptions, t *store.Tournament) (string, error)) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	opts := parseSubOptions(inter)
	if opts.tournament == "" {
		resp.Data.Content = "Please provide a tournament."
		logrus.Infof("discordbot.%v: %v", what, resp.Data.Content)
		return resp
	}

	t, err := findTournament(ctx, opts.tournament)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching %v for %v: %v", what,
			opts.tournament, err)
		logrus.Infof("discordbot.%v: %v", what, resp.Data.Content)
		return resp
	}

	out, err := render(opts, t)
	if err != nil {
		resp.Data.Content = err.Error()
		logrus.Infof("discordbot.%v: %v", what, resp.Data.Content)
		return resp
	}
	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("**%v**\n```\n%s```", t.Name,
		truncateContent(out))

	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func swissPairingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return tournamentResponse(ctx, inter, "pairings",
		func(opts subOptions, t *store.Tournament) (string, error) {
			if len(t.Rounds) == 0 {
				return "", fmt.Errorf("no rounds have been paired for %v", t.Name)
			}
			n := int(opts.round)
			if n == 0 {
				n = t.Rounds[len(t.Rounds)-1].Number
			}
			r, ok := t.Round(n)
			if !ok {
				return "", fmt.Errorf("round %d has not been paired for %v", n,
					t.Name)
			}
			return swiss.BuildPairingsOutput(r, t.Competitors), nil
		})
}

func swissStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return tournamentResponse(ctx, inter, "standings",
		func(_ subOptions, t *store.Tournament) (string, error) {
			return swiss.BuildStandingsOutput(t.Competitors), nil
		})
}

func swissStatsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return tournamentResponse(ctx, inter, "stats",
		func(_ subOptions, t *store.Tournament) (string, error) {
			return swiss.BuildColorStatsOutput(t.Competitors), nil
		})
}

func swissListCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	opts := parseSubOptions(inter)

	ids, err := tourneys.List(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error listing tournaments: %v", err)
		logrus.Infof("discordbot.list: %v", resp.Data.Content)
		return resp
	}
	if len(ids) == 0 {
		resp.Data.Content = "No tournaments found."
		return resp
	}

	var sb strings.Builder
	for _, id := range ids {
		t, err := tourneys.Get(ctx, id)
		if err != nil {
			logrus.WithError(err).WithField("tournament", id).
				Warn("discordbot.list: skipping")
			continue
		}
		sb.WriteString(fmt.Sprintf("- **%v** (rounds:%d players:%d) `%v`\n",
			t.Name, len(t.Rounds), len(t.Competitors), t.ID))
	}
	resp.Data.Content = truncateContent(sb.String())

	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1900 // keep space for the title and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
