package notifier

import (
	"context"

	"github.com/mymmrac/telego"
)

type SendFunc func(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)

func (f SendFunc) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	return f(ctx, params)
}

func NewTelegramBotWithSender(send SendFunc, chatID int64) *TelegramBot {
	return &TelegramBot{bot: send, chatID: chatID}
}
