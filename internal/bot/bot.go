package bot

import (
	"github.com/duolove/duolove/config"
	"github.com/duolove/duolove/internal/service"
	"github.com/duolove/duolove/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	API     *tgbotapi.BotAPI
	service *service.Service
	logger  *utils.Logger
	config  *config.Config
}

func NewBot(
	api *tgbotapi.BotAPI,
	service *service.Service,
	logger *utils.Logger,
	config *config.Config,
) *Bot {
	return &Bot{
		API:     api,
		service: service,
		logger:  logger,
		config:  config,
	}
}

func (b *Bot) Start() {
	b.logger.Info("Starting bot...")
	updates := b.API.GetUpdatesChan(tgbotapi.NewUpdate(0))
	for update := range updates {
		b.logger.Debugf("Received update: %+v", update)
		if update.Message != nil {
			b.HandleUpdate(update)
		}
	}
}

func (b *Bot) Stop() {
	b.API.StopReceivingUpdates()
}

// BotInfo — идентичность бота для /api/bot/info.
func (b *Bot) BotInfo() map[string]interface{} {
	return map[string]interface{}{
		"id":         b.API.Self.ID,
		"username":   b.API.Self.UserName,
		"first_name": b.API.Self.FirstName,
		"is_bot":     b.API.Self.IsBot,
	}
}

// sendMessage - унифицированная функция для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string, replyMarkup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	if _, err := b.API.Send(msg); err != nil {
		b.logger.Errorf("Failed to send message: %v", err)
	}
}

// openAppKeyboard — инлайн-кнопка запуска мини-приложения.
func (b *Bot) openAppKeyboard(startParam string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("💕 Открыть DuoLove", b.config.MiniAppURL(startParam)),
		),
	)
}
