package view

const (
	StartMessage = "🎯 <b>Welcome to 3-Star Lotto</b>\n\n" +
		"/predict - 5 random sets\n" +
		"/predict weighted 近50期 3 - weighted by history\n" +
		"/pickall - 10 weighted sets over all history\n" +
		"/history 10 - last draws\n" +
		"/update - fetch new draws (admin)"

	PredictUsage = "❌ Usage: /predict [uniform|weighted] [近10期|近50期|近100期|全部] [count 1-%d]"

	PredictTitleUniform  = "🔮 <b>Predictions</b> (uniform)\n\n"
	PredictTitleWeighted = "🔮 <b>Predictions</b> (weighted, %s)\n\n"
	PickAllTitle         = "🎰 <b>Computer picks</b>\n\n"
	SetItemTemplate      = "%d. <code>%d %d %d</code>\n"

	HistoryTitle        = "📚 <b>Last %d of %d draws</b>\n\n"
	HistoryItemTemplate = "<code>%d %d %d</code> %s\n"
	HistoryEmpty        = "📭 History is empty. Run /update first."

	UpdateSuccess = "✅ Data updated: +%d (total %d)"
	UpdateNoData  = "⚠️ The lottery site returned no draws, history left as is."
	UpdateFailed  = "❌ Update failed: %s"

	PredictFailed = "❌ Prediction failed: %s"
	HistoryFailed = "❌ Could not read history: %s"

	RerollButton = "🎲 Again"
)
