package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
)

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot шлёт в чат сводки обновлений истории и предсказания.
type TelegramBot struct {
	bot    messageSender
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (b *TelegramBot) NotifyUpdate(ctx context.Context, result entity.UpdateResult) error {
	text := fmt.Sprintf(
		"🎯 <b>3 星彩 history updated</b>\n\n"+
			"📥 <b>Fetched:</b> %d\n"+
			"➕ <b>Added:</b> %d\n"+
			"📚 <b>Total:</b> %d",
		result.Fetched,
		result.Added,
		result.Total,
	)

	return b.send(ctx, text)
}

func (b *TelegramBot) NotifyPrediction(ctx context.Context, prediction entity.Prediction) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🔮 <b>Predictions</b> (%s", prediction.Mode)
	if prediction.Mode == entity.PredictionWeighted {
		fmt.Fprintf(&sb, ", %s", prediction.Window.Key())
	}
	sb.WriteString(")\n\n")

	for i, set := range prediction.Sets {
		fmt.Fprintf(&sb, "%d. <code>%s</code>\n", i+1, formatSet(set))
	}

	return b.send(ctx, sb.String())
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func (b *TelegramBot) send(ctx context.Context, text string) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	logger(ctx).Debug("telegram message sent")

	return nil
}

func formatSet(d value.Digits) string {
	return fmt.Sprintf("%d %d %d", d[0], d[1], d[2])
}
