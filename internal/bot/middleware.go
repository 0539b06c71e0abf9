package bot

import (
	"context"
	"strings"

	"github.com/duolove/duolove/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// withUserCheck лениво заводит пользователя при первом контакте с ботом.
func (b *Bot) withUserCheck(handler func(context.Context, tgbotapi.Update, *models.User)) func(tgbotapi.Update) {
	return func(update tgbotapi.Update) {
		ctx := context.Background()
		from := update.Message.From

		user, err := b.service.GetUser(ctx, from.ID)
		if err != nil {
			b.logger.Errorf("Failed to get user: %v", err)
			b.sendMessage(update.Message.Chat.ID, "Произошла ошибка. Попробуйте позже.", nil)
			return
		}

		if user == nil {
			if err := b.service.CreateUser(ctx, from.ID, displayName(from)); err != nil {
				b.logger.Errorf("Failed to create user: %v", err)
				b.sendMessage(update.Message.Chat.ID, "Произошла ошибка. Попробуйте позже.", nil)
				return
			}
			user, err = b.service.GetUser(ctx, from.ID)
			if err != nil {
				b.logger.Errorf("Failed to get user after creation: %v", err)
				return
			}
		}

		handler(ctx, update, user)
	}
}

func displayName(from *tgbotapi.User) string {
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name == "" {
		name = from.UserName
	}
	return name
}
