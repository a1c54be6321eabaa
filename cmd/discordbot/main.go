/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/mikeb26/swisspair/internal/cli"
	"github.com/mikeb26/swisspair/store"
)

// Bot credentials come from the environment.
const (
	envPubKey  = "SWISSPAIR_DISCORD_PUBKEY"
	envToken   = "SWISSPAIR_DISCORD_TOKEN"
	envAppID   = "SWISSPAIR_DISCORD_APPID"
	envCmdID   = "SWISSPAIR_DISCORD_CMDID"
	envCmdHash = "SWISSPAIR_DISCORD_CMDHASH"
	envPort    = "PORT"

	requestTimeout = 2500 * time.Millisecond
)

var (
	botPubKey ed25519.PublicKey
	botAppId  string
	client    *discordgo.Session

	// tourneys is the store every command handler reads from.
	tourneys store.Store
)

type TopLevelCommand string

const (
	SwissCmd TopLevelCommand = "swiss"
)

type CmdHandler func(ctx context.Context,
	i *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	SwissCmd: swissCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		logrus.Warn("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logrus.Warnf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		logrus.Warnf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, string(body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// discord expects an answer within 3 seconds
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp := dispatch(ctx, &inter)
	if resp == nil {
		logrus.Warnf("discordbot.int: unimplemented interaction type %v",
			inter.Type)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		logrus.Errorf("discordbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		logrus.Warnf("discordbot.int: failed to write resp: err:%v", err)
	}
}

// dispatch routes a verified interaction. It returns nil for interaction
// types the bot does not handle.
func dispatch(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	switch inter.Type {
	case discordgo.InteractionPing:
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponsePong,
		}
	case discordgo.InteractionApplicationCommand:
		name := inter.ApplicationCommandData().Name
		hdlr, ok := topLevelCmdHdlrs[TopLevelCommand(name)]
		if !ok {
			return &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: fmt.Sprintf("unknown command '%v'", name),
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			}
		}
		return hdlr(ctx, inter)
	}

	return nil
}

func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand,
	lastHash string) bool {

	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		logrus.Errorf("discordbot.reg: failed to marshal cmd: %v", err)
		return false
	}
	hash := sha256.Sum256(cmdJson)
	hexString := hex.EncodeToString(hash[:])

	shouldUpdate := (hexString != lastHash)
	if shouldUpdate {
		logrus.Infof("discordbot.reg: updating cmd reg; please set %v=%v",
			envCmdHash, hexString)
	}

	return shouldUpdate
}

func registerSlashCommands() {
	swissCmd := swissCommand()
	cmdID := os.Getenv(envCmdID)

	if cmdID == "" {
		cmd, err := client.ApplicationCommandCreate(botAppId, "", swissCmd)
		if err != nil {
			logrus.Errorf("discordbot.reg: failed to register %v: %v",
				swissCmd.Name, err)
			return
		}

		logrus.Infof("discordbot.reg: registered %v(cmdID:%v)", cmd.Name, cmd.ID)
	} else if shouldUpdateCmdRegistration(swissCmd, os.Getenv(envCmdHash)) {
		cmd, err := client.ApplicationCommandEdit(botAppId, "", cmdID, swissCmd)
		if err != nil {
			logrus.Errorf("discordbot.reg: failed to update %v: %v",
				swissCmd.Name, err)
			return
		}

		logrus.Infof("discordbot.reg: updated %v(cmdID:%v)", cmd.Name, cmd.ID)
	}
}

func initBot(ctx context.Context) error {
	pubKeyBytes, err := hex.DecodeString(os.Getenv(envPubKey))
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		return fmt.Errorf("discordbot.init: invalid %v", envPubKey)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)
	botAppId = os.Getenv(envAppID)

	client, err = discordgo.New("Bot " + os.Getenv(envToken))
	if err != nil {
		return fmt.Errorf("discordbot.init: failed to initialize discord client: %w",
			err)
	}

	cfg, err := cli.LoadConfig(cli.DefaultConfigPath())
	if err != nil {
		return err
	}
	tourneys, err = cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	logrus.Infof("discordbot.init: using %v store", cfg.Store)

	return nil
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})

	if err := initBot(context.Background()); err != nil {
		logrus.Fatal(err)
	}
	go registerSlashCommands()

	port := os.Getenv(envPort)
	if port == "" {
		port = "8080"
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	logrus.Infof("discordbot.main: starting server on %v:%v", hostname, port)

	http.HandleFunc("/DiscordBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logrus.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	logrus.Info("discordbot.main: exiting")
}
