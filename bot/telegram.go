package bot

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// ackEmoji is the fixed acknowledgement glyph. Success is signalled only by
// this reaction; the bot posts nothing else on success and nothing at all on
// failure.
const ackEmoji = "👀"

// telegramNotifier acknowledges a message with a reaction.
type telegramNotifier struct {
	bot *tgbot.Bot
}

func (n *telegramNotifier) Acknowledge(ctx context.Context, chatID int64, messageID int) error {
	_, err := n.bot.SetMessageReaction(ctx, &tgbot.SetMessageReactionParams{
		ChatID:    chatID,
		MessageID: messageID,
		Reaction: []tgmodels.ReactionType{
			{
				Type: tgmodels.ReactionTypeTypeEmoji,
				ReactionTypeEmoji: &tgmodels.ReactionTypeEmoji{
					Type:  "emoji",
					Emoji: ackEmoji,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set reaction: %w", err)
	}
	return nil
}

// avatarURL fetches the sender's profile photo URL, best effort. Attribution
// is optional; any failure just leaves the field empty.
func (h *Handler) avatarURL(ctx context.Context, userID int64) string {
	if h.bot == nil || userID == 0 {
		return ""
	}

	photos, err := h.bot.GetUserProfilePhotos(ctx, &tgbot.GetUserProfilePhotosParams{
		UserID: userID,
		Limit:  1,
	})
	if err != nil || photos == nil || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return ""
	}

	file, err := h.bot.GetFile(ctx, &tgbot.GetFileParams{
		FileID: photos.Photos[0][0].FileID,
	})
	if err != nil {
		return ""
	}

	return h.bot.FileDownloadLink(file)
}
