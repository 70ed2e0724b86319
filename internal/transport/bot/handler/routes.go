package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"threestar/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	bh.HandleMessage(h.OnStart, th.CommandEqual("start"))
	bh.HandleMessage(h.OnStart, th.CommandEqual("help"))
	bh.HandleMessage(h.OnPredict, th.CommandEqual("predict"))
	bh.HandleMessage(h.OnPickAll, th.CommandEqual("pickall"))
	bh.HandleMessage(h.OnHistory, th.CommandEqual("history"))

	bh.HandleCallbackQuery(h.OnPredictCallback, th.CallbackDataPrefix(predictCallbackPrefix))

	// обновление истории ходит на внешний сайт и пишет файл, только для админа
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))
	adminGroup.HandleMessage(h.OnUpdate, th.CommandEqual("update"))
}
