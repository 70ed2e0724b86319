package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	// История тиражей
	NoData         failure.ErrorCode = "NoData"         // сайт не вернул ни одной строки
	FetchFailed    failure.ErrorCode = "FetchFailed"    // сеть или разбор страницы после всех попыток
	SchemaMismatch failure.ErrorCode = "SchemaMismatch" // в файле нет колонок d1,d2,d3
	StorageFailed  failure.ErrorCode = "StorageFailed"
)
