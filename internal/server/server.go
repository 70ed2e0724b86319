package server

// Server объединяет HTTP-обработчики по сущностям. Пока он один: LottoServer.
type Server struct {
	LottoServer
}

func NewServer(
	lottoServer LottoServer,
) Server {
	return Server{
		LottoServer: lottoServer,
	}
}
