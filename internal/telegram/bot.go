package telegram

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/observability"
	"solana-token-scanner/internal/reporting"
)

// SecretHeader carries the webhook secret on every delivery.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// maxWebhookBody caps the size of a webhook delivery.
const maxWebhookBody = 1 << 20

// Default polling settings.
const (
	DefaultPollTimeout = 30 * time.Second
	DefaultRetryDelay  = 3 * time.Second
)

// API is the subset of the Bot API used by Bot.
type API interface {
	GetUpdates(ctx context.Context, offset int64, pollTimeout time.Duration) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text, parseMode string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
}

// ReportBuilder validates addresses and builds reports.
type ReportBuilder interface {
	Validate(ctx context.Context, text string) (domain.AssetIdentifier, error)
	Build(ctx context.Context, id domain.AssetIdentifier) (string, error)
	BuildPairs(ctx context.Context, id domain.AssetIdentifier) (string, error)
}

// Bot routes incoming messages to the report pipeline and replies.
type Bot struct {
	api         API
	reports     ReportBuilder
	logger      *zap.Logger
	pollTimeout time.Duration
	retryDelay  time.Duration
	secret      string

	wg sync.WaitGroup
}

// BotOption configures Bot.
type BotOption func(*Bot)

// WithPollTimeout sets the long polling timeout.
func WithPollTimeout(d time.Duration) BotOption {
	return func(b *Bot) {
		b.pollTimeout = d
	}
}

// WithRetryDelay sets the pause after a failed getUpdates call.
func WithRetryDelay(d time.Duration) BotOption {
	return func(b *Bot) {
		b.retryDelay = d
	}
}

// WithWebhookSecret requires deliveries to carry secret in SecretHeader.
func WithWebhookSecret(secret string) BotOption {
	return func(b *Bot) {
		b.secret = secret
	}
}

// NewBot creates a new bot.
func NewBot(api API, reports ReportBuilder, logger *zap.Logger, opts ...BotOption) *Bot {
	b := &Bot{
		api:         api,
		reports:     reports,
		logger:      logger.Named("telegram"),
		pollTimeout: DefaultPollTimeout,
		retryDelay:  DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Poll long-polls for updates until ctx is cancelled. Each update is handled
// on its own goroutine; Poll waits for in-flight handlers before returning.
func (b *Bot) Poll(ctx context.Context) error {
	defer b.wg.Wait()

	var offset int64
	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Warn("getUpdates failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(b.retryDelay):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			b.dispatch(ctx, u)
		}
	}
}

// WebhookHandler returns a handler for webhook deliveries. Updates are
// acknowledged immediately and handled in the background.
func (b *Bot) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if b.secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(b.secret)) != 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var u Update
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&u); err != nil {
			b.logger.Debug("Invalid webhook payload", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		b.dispatch(context.WithoutCancel(r.Context()), u)
		w.WriteHeader(http.StatusOK)
	})
}

// Wait blocks until every in-flight update has been handled.
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) dispatch(ctx context.Context, u Update) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.HandleUpdate(ctx, u)
	}()
}

// HandleUpdate handles a single update. Non-text updates are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, u Update) {
	if u.Message == nil || strings.TrimSpace(u.Message.Text) == "" {
		observability.RecordTelegramUpdate("ignored")
		return
	}
	b.HandleMessage(ctx, u.Message.Chat.ID, u.Message.Text)
}

// HandleMessage replies to a text message: commands are routed, anything
// else is treated as a token address.
func (b *Bot) HandleMessage(ctx context.Context, chatID int64, text string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		observability.RecordTelegramUpdate("address")
		b.handleAddress(ctx, chatID, text, false)
		return
	}

	observability.RecordTelegramUpdate("command")
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	// Commands in groups arrive as /cmd@BotName.
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/start":
		b.send(ctx, chatID, reporting.WelcomeMessage, ParseModeNone)
	case "/help":
		b.send(ctx, chatID, reporting.HelpMessage, ParseModeHTML)
	case "/pairs":
		if len(fields) < 2 {
			b.send(ctx, chatID, reporting.PairsUsageMessage, ParseModeHTML)
			return
		}
		b.handleAddress(ctx, chatID, fields[1], true)
	default:
		b.send(ctx, chatID, reporting.UnknownCommandMessage, ParseModeNone)
	}
}

func (b *Bot) handleAddress(ctx context.Context, chatID int64, text string, pairs bool) {
	id, err := b.reports.Validate(ctx, text)
	if err != nil {
		b.send(ctx, chatID, reporting.InvalidAddressMessage, ParseModeNone)
		return
	}

	b.send(ctx, chatID, reporting.AckMessage(id.String()), ParseModeHTML)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.api.SendChatAction(ctx, chatID, ChatActionTyping); err != nil {
			b.logger.Debug("sendChatAction failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}()

	var report string
	if pairs {
		report, err = b.reports.BuildPairs(ctx, id)
	} else {
		report, err = b.reports.Build(ctx, id)
	}
	if err != nil {
		b.send(ctx, chatID, errorMessage(err), ParseModeNone)
		return
	}

	b.send(ctx, chatID, report, ParseModeHTML)
}

func (b *Bot) send(ctx context.Context, chatID int64, text, parseMode string) {
	err := b.api.SendMessage(ctx, chatID, text, parseMode)
	observability.RecordTelegramSend(err)
	if err != nil {
		b.logger.Warn("sendMessage failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// errorMessage maps a pipeline error to the message shown to the user.
func errorMessage(err error) string {
	var mErr *domain.MissingDataError
	if errors.As(err, &mErr) {
		return reporting.MissingDataMessage
	}
	return reporting.GenericErrorMessage
}
