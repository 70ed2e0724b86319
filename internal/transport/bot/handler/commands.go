package handler

import (
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"threestar/internal/domain/entity"
	"threestar/internal/domain/service/predictor"
	"threestar/internal/domain/value"
	"threestar/internal/transport/bot/view"
	"threestar/pkg/logx"
)

const predictCallbackPrefix = "predict:"

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnPredict(ctx *th.Context, msg telego.Message) error {
	args, err := ParsePredictArgs(commandArgs(msg.Text))
	if err != nil {
		return h.send(ctx, msg.Chat.ID, fmt.Sprintf(view.PredictUsage, maxSets))
	}

	_, err = ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      tu.ID(msg.Chat.ID),
		Text:        h.PredictText(ctx, args),
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: rerollKeyboard(args),
	})
	return err
}

func (h *Handler) OnPickAll(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.PickAllText(ctx))
}

func (h *Handler) OnHistory(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.HistoryText(ctx, commandArgs(msg.Text)))
}

func (h *Handler) OnUpdate(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.UpdateText(ctx))
}

// Формат callback: "predict:<mode> <window> <count>".
func (h *Handler) OnPredictCallback(ctx *th.Context, query telego.CallbackQuery) error {
	args, err := ParsePredictArgs(strings.Fields(strings.TrimPrefix(query.Data, predictCallbackPrefix)))
	if err != nil {
		args = PredictArgs{Mode: entity.PredictionUniform, Window: value.WindowAll, Count: predictor.DefaultSets}
	}

	if query.Message != nil {
		_, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:      tu.ID(query.Message.GetChat().ID),
			MessageID:   query.Message.GetMessageID(),
			Text:        h.PredictText(ctx, args),
			ParseMode:   telego.ModeHTML,
			ReplyMarkup: rerollKeyboard(args),
		})
		// тот же текст Telegram отвергает, это не ошибка для пользователя
		if err != nil {
			logger(ctx).Debug("EditMessageText", logx.Error(err))
		}
	}

	// убираем часики на кнопке
	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))
}

func rerollKeyboard(args PredictArgs) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(view.RerollButton).WithCallbackData(predictCallbackPrefix + args.String()),
		),
	)
}

func commandArgs(text string) []string {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return nil
	}
	return parts[1:]
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    tu.ID(chatID),
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	return err
}
