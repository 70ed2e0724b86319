package httpx

type Option func(*LoggingRoundTripper)

func WithLogFieldMaxLen(logFieldMaxLen int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = logFieldMaxLen
	}
}

func WithSensitiveDataMasker(sensitiveDataMasker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.sensitiveDataMasker = sensitiveDataMasker
	}
}

// WithResponseBody включает или отключает дамп тела ответа (HTML-страницы
// бывают по несколько сотен килобайт).
func WithResponseBody(dump bool) Option {
	return func(rt *LoggingRoundTripper) {
		rt.dumpResponseBody = dump
	}
}
