// Package telegram runs a long-polling Telegram front end for the
// advisor. Every non-command message is treated as an advice statement.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/clients"
	"github.com/unwraplabs/tyrion/internal/services/advisor"
	"github.com/unwraplabs/tyrion/internal/services/promptbuilder"
)

const (
	apiBase     = "https://api.telegram.org"
	pollTimeout = 30 * time.Second
)

// Bot polls the Telegram Bot API and answers advice queries in chat.
// When an LLM is provided, replies are phrased by the model; otherwise
// the plain plan rendering is sent.
type Bot struct {
	token      string
	httpClient *http.Client
	advisor    *advisor.Service
	llm        clients.LLMClient
	prompts    *promptbuilder.PromptBuilder
	logger     *zap.Logger
	offset     int64
}

func NewBot(token string, svc *advisor.Service, llm clients.LLMClient, logger *zap.Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	return &Bot{
		token: token,
		httpClient: &http.Client{
			Timeout: pollTimeout + 10*time.Second,
		},
		advisor: svc,
		llm:     llm,
		prompts: promptbuilder.NewPromptBuilder(),
		logger:  logger,
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("context done, stopping telegram bot")
			return ctx.Err()
		default:
		}

		updates, err := b.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Error("failed to get telegram updates", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			b.offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		b.reply(ctx, chatID, "Hi, I am Tyrion, your DeFi yield advisor. "+
			"Tell me about your risk appetite and I will suggest where to put your funds. "+
			"Use /advise <statement> or just write to me.")
		return
	case strings.HasPrefix(text, "/advise"):
		text = strings.TrimSpace(strings.TrimPrefix(text, "/advise"))
		if text == "" {
			b.reply(ctx, chatID, "Tell me what you are looking for, e.g. \"/advise low risk options for my USDC\".")
			return
		}
	}

	advice, err := b.advisor.Advise(ctx, advisor.AdviceRequest{Statement: text})
	if err != nil {
		b.logger.Error("advise failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.reply(ctx, chatID, "Something went wrong while computing your advice, please try again later.")
		return
	}

	b.reply(ctx, chatID, b.renderReply(ctx, advice))
}

// renderReply phrases the advice through the LLM when one is configured,
// falling back to the plain rendering on any failure.
func (b *Bot) renderReply(ctx context.Context, advice advisor.Advice) string {
	rendered := renderAdvice(advice)
	if b.llm == nil || advice.Plan.IsEmpty() {
		return rendered
	}

	reply, err := b.llm.Complete(ctx, promptbuilder.ReplySystemPrompt, b.prompts.BuildReplyPrompt(advice.Plan))
	if err != nil {
		b.logger.Warn("llm reply rendering failed, sending plain rendering", zap.Error(err))
		return rendered
	}
	if reply = strings.TrimSpace(reply); reply == "" {
		return rendered
	}
	return reply
}

func renderAdvice(advice advisor.Advice) string {
	if advice.Plan.IsEmpty() {
		return "No investment opportunities found for your wallet and constraints."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Risk profile: %s\n\nTop investment options:\n", advice.Profile))
	for i, leg := range advice.Plan.Flat {
		sb.WriteString(fmt.Sprintf("%d. %s %s (%s)\n", i+1, leg.Protocol, leg.PoolName, leg.Asset))
		sb.WriteString(fmt.Sprintf("   Net APY: %.2f%%, risk: %s\n", leg.APY, leg.RiskRating))
		sb.WriteString(fmt.Sprintf("   Invest: %s %s (%s%%)\n",
			leg.AllocatedAmount.String(), leg.Asset, leg.PercentAllocation.StringFixed(2)))
	}
	return sb.String()
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.sendMessage(ctx, chatID, text); err != nil {
		b.logger.Error("failed to send telegram message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

type update struct {
	UpdateID int64    `json:"update_id"`
	Message  *message `json:"message"`
}

type message struct {
	Text string `json:"text"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

type updatesResponse struct {
	OK          bool     `json:"ok"`
	Result      []update `json:"result"`
	Description string   `json:"description"`
}

func (b *Bot) getUpdates(ctx context.Context) ([]update, error) {
	url := fmt.Sprintf("%s/bot%s/getUpdates?timeout=%d&offset=%d",
		apiBase, b.token, int(pollTimeout.Seconds()), b.offset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	var parsed updatesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, "parse response")
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram api error: %s", parsed.Description)
	}

	return parsed.Result, nil
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", apiBase, b.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram api returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
