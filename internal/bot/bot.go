// Package bot runs the Discord frontend. It registers a single /ask
// slash command and forwards questions to the HTTP query API, so the
// bot process never needs the snapshot or an API key of its own.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/labsmc/wikigpt/internal/config"
)

// ErrNoToken is returned when the bot token is missing from configuration.
var ErrNoToken = errors.New("bot: discord token is not configured")

// queryTimeout bounds a single round trip to the query API. Generation
// can take a while, so this is generous.
const queryTimeout = 60 * time.Second

// discordMessageLimit is Discord's maximum message length.
const discordMessageLimit = 2000

const userFacingError = "Something went wrong while answering your question. Please try again later."

// Bot bridges Discord slash commands to the query API.
type Bot struct {
	session *discordgo.Session
	client  *http.Client
	apiURL  string
	logger  *slog.Logger
}

// New creates a Bot from configuration. The session is not opened yet.
func New(cfg config.Discord, logger *slog.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages

	return &Bot{
		session: session,
		client:  &http.Client{Timeout: queryTimeout},
		apiURL:  strings.TrimRight(cfg.APIBaseURL, "/") + "/api/v1/query",
		logger:  logger,
	}, nil
}

// Run opens the gateway connection, registers the /ask command and
// blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("discord bot ready", "user", r.User.Username)
	})
	b.session.AddHandler(b.handleInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	defer func() {
		if err := b.session.Close(); err != nil {
			b.logger.Warn("closing discord session", "error", err)
		}
	}()

	cmd := &discordgo.ApplicationCommand{
		Name:        "ask",
		Description: "Ask WikiGPT a question about the MCLabs wiki",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "question",
				Description: "Your question",
				Required:    true,
			},
		},
	}
	registered, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
	if err != nil {
		return fmt.Errorf("registering /ask command: %w", err)
	}
	defer func() {
		if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, "", registered.ID); err != nil {
			b.logger.Warn("removing /ask command", "error", err)
		}
	}()

	b.logger.Info("discord bot running", "api_url", b.apiURL)
	<-ctx.Done()
	return nil
}

// handleInteraction answers /ask. The response is deferred first because
// retrieval plus generation routinely exceeds Discord's 3 second
// interaction deadline.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != "ask" {
		return
	}

	var question string
	for _, opt := range data.Options {
		if opt.Name == "question" {
			question = opt.StringValue()
		}
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Error("deferring interaction", "error", err)
		return
	}

	content := b.answer(question)
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	if err != nil {
		b.logger.Error("editing interaction response", "error", err)
	}
}

// answer calls the query API and returns the message to show the user.
// Failures are logged in full but surfaced to Discord as a generic line.
func (b *Bot) answer(question string) string {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		b.logger.Error("encoding query request", "error", err)
		return userFacingError
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL, bytes.NewReader(body))
	if err != nil {
		b.logger.Error("building query request", "error", err)
		return userFacingError
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.Error("calling query api", "error", err)
		return userFacingError
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		b.logger.Error("reading query response", "error", err)
		return userFacingError
	}

	if resp.StatusCode != http.StatusOK {
		b.logger.Warn("query api returned error",
			"status", resp.StatusCode,
			"body", string(raw),
		)
		return userFacingError
	}

	var parsed struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		b.logger.Error("decoding query response", "error", err)
		return userFacingError
	}
	if parsed.Answer == "" {
		return "No answer returned."
	}

	return truncate(parsed.Answer, discordMessageLimit)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	const ellipsis = "…"
	return string(runes[:limit-1]) + ellipsis
}
