package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/duolove/duolove/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// invitePayloadPrefix — полезная нагрузка /start из пригласительной ссылки бота.
const invitePayloadPrefix = "invite_"

func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	b.withUserCheck(func(ctx context.Context, update tgbotapi.Update, user *models.User) {
		text := update.Message.Text
		chatID := update.Message.Chat.ID

		b.logger.Infof("Processing message from user %d: %s", user.TelegramID, text)

		if update.Message.IsCommand() && update.Message.Command() == "start" {
			b.handleStart(ctx, chatID, user, update.Message.CommandArguments())
			return
		}

		b.sendMessage(chatID, "Откройте DuoLove, чтобы играть вместе с партнёром 👇", b.openAppKeyboard(""))
	})(update)
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, user *models.User, payload string) {
	if inviterID, ok := parseInvitePayload(payload); ok && inviterID != user.TelegramID {
		b.logger.Infof("User %d opened invite from %d", user.TelegramID, inviterID)
		text := "💌 Вас пригласили в пару!\n\n" +
			"Откройте DuoLove, чтобы принять приглашение и начать играть вдвоём."
		b.sendMessage(chatID, text, b.openAppKeyboard(fmt.Sprintf("%s%d", invitePayloadPrefix, inviterID)))
		return
	}

	welcomeText := "Добро пожаловать в DuoLove! 💕\n\n" +
		"Мини-игры для двоих: пригласите партнёра по ссылке из приложения и играйте вместе."
	b.sendMessage(chatID, welcomeText, b.openAppKeyboard(""))
}

func parseInvitePayload(payload string) (int64, bool) {
	if !strings.HasPrefix(payload, invitePayloadPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(payload, invitePayloadPrefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
