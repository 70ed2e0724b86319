package entity

// UpdateResult - итог одного обновления истории.
type UpdateResult struct {
	Fetched int // строк пришло с сайта
	Added   int // max(0, после - до), может недосчитывать
	Total   int // записей в истории после слияния
}
