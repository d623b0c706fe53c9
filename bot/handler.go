package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/MarginallyHarmless/MovieBot/config"
	"github.com/MarginallyHarmless/MovieBot/models"
	"github.com/MarginallyHarmless/MovieBot/services"
)

// MovieStore is the slice of the collection store the listener uses.
type MovieStore interface {
	InsertIfAbsent(ctx context.Context, m models.Movie) (*models.Movie, error)
	Count(ctx context.Context) (int, error)
	Recent(ctx context.Context, limit int) ([]models.Movie, error)
}

// MetadataResolver resolves a chat-detected reference to a normalized movie.
type MetadataResolver interface {
	ResolveRef(ctx context.Context, ref models.ExternalRef) (*models.Movie, error)
}

// Notifier is the capability the listener uses to acknowledge a saved movie.
// The only chat-visible success signal is one fixed reaction on the
// originating message.
type Notifier interface {
	Acknowledge(ctx context.Context, chatID int64, messageID int) error
}

// message is the slice of an incoming chat message the pipeline needs.
type message struct {
	ChatID     int64
	MessageID  int
	Text       string
	SenderID   int64
	SenderName string
}

// Handler wires the Telegram bot to the extract/resolve/persist pipeline.
type Handler struct {
	bot      *tgbot.Bot
	store    MovieStore
	metadata MetadataResolver
	notifier Notifier
	log      *slog.Logger
}

// NewHandler creates the Telegram listener and registers its handlers.
func NewHandler(cfg *config.Config, store MovieStore, metadata MetadataResolver, log *slog.Logger) (*Handler, error) {
	b, err := tgbot.New(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	h := &Handler{
		bot:      b,
		store:    store,
		metadata: metadata,
		notifier: &telegramNotifier{bot: b},
		log:      log.With("component", "bot"),
	}

	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, h.startHandler)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/stats", tgbot.MatchTypeExact, h.statsHandler)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/recent", tgbot.MatchTypePrefix, h.recentHandler)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "", tgbot.MatchTypeContains, h.messageHandler)

	return h, nil
}

// Start begins long polling. Blocks until the context is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped")
}

func (h *Handler) messageHandler(ctx context.Context, b *tgbot.Bot, update *tgmodels.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	msg := message{
		ChatID:    update.Message.Chat.ID,
		MessageID: update.Message.ID,
		Text:      update.Message.Text,
	}
	if update.Message.From != nil {
		msg.SenderID = update.Message.From.ID
		msg.SenderName = displayName(update.Message.From)
	}

	h.processMessage(ctx, msg)
}

// processMessage runs the per-message pipeline: extract refs, then for each
// ref sequentially resolve, persist, acknowledge. Refs are handled in order
// so reactions appear predictably, and every per-ref failure is swallowed
// after logging; one bad link never blocks the others.
func (h *Handler) processMessage(ctx context.Context, msg message) {
	refs := services.ExtractRefs(msg.Text)
	if len(refs) == 0 {
		return
	}

	log := h.log.With("chat_id", msg.ChatID, "message_id", msg.MessageID)
	log.Debug("Movie links detected", "count", len(refs))

	for _, ref := range refs {
		movie, err := h.metadata.ResolveRef(ctx, ref)
		if err != nil {
			log.Warn("Skipping unresolvable ref", "service", ref.Service, "id", ref.ID, "error", err)
			continue
		}

		movie.AddedByUsername = msg.SenderName
		movie.AddedByAvatar = h.avatarURL(ctx, msg.SenderID)
		movie.SourceURL = ref.URL

		inserted, err := h.store.InsertIfAbsent(ctx, *movie)
		if err != nil {
			if errors.Is(err, services.ErrDuplicate) {
				log.Debug("Movie already in collection", "tmdb_id", movie.TMDBID)
			} else {
				log.Error("Failed to save movie", "tmdb_id", movie.TMDBID, "error", err)
			}
			continue
		}

		log.Info("Movie saved", "tmdb_id", inserted.TMDBID, "title", inserted.Title)

		if err := h.notifier.Acknowledge(ctx, msg.ChatID, msg.MessageID); err != nil {
			log.Warn("Failed to acknowledge message", "error", err)
		}
	}
}

func (h *Handler) startHandler(ctx context.Context, b *tgbot.Bot, update *tgmodels.Update) {
	h.reply(ctx, update, "Send me IMDb or Rotten Tomatoes links and I'll add the movies to our collection. Try /stats or /recent.")
}

func (h *Handler) statsHandler(ctx context.Context, b *tgbot.Bot, update *tgmodels.Update) {
	count, err := h.store.Count(ctx)
	if err != nil {
		h.log.Error("Failed to count movies", "error", err)
		return
	}
	h.reply(ctx, update, fmt.Sprintf("📊 We have %d movies in the collection!", count))
}

func (h *Handler) recentHandler(ctx context.Context, b *tgbot.Bot, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}

	limit := 5
	fields := strings.Fields(update.Message.Text)
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
			limit = min(n, 10)
		}
	}

	movies, err := h.store.Recent(ctx, limit)
	if err != nil {
		h.log.Error("Failed to list recent movies", "error", err)
		return
	}
	if len(movies) == 0 {
		h.reply(ctx, update, "No movies in the collection yet!")
		return
	}

	lines := []string{"Recently added movies:"}
	for _, m := range movies {
		line := "- " + m.Title
		if m.Year > 0 {
			line += fmt.Sprintf(" (%d)", m.Year)
		}
		if m.AddedByUsername != "" {
			line += " - added by " + m.AddedByUsername
		}
		lines = append(lines, line)
	}
	h.reply(ctx, update, strings.Join(lines, "\n"))
}

func (h *Handler) reply(ctx context.Context, update *tgmodels.Update, text string) {
	if update.Message == nil {
		return
	}
	_, err := h.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
	if err != nil {
		h.log.Error("Failed to send message", "error", err)
	}
}

func displayName(u *tgmodels.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		name = u.Username
	}
	return name
}
