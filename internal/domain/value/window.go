package value

import "strings"

// Window - суффикс хронологической истории, по которому считаются частоты.
type Window struct {
	key  string
	size int
}

//nolint:gochecknoglobals
var (
	WindowLast10  = Window{key: "近10期", size: 10}
	WindowLast50  = Window{key: "近50期", size: 50}
	WindowLast100 = Window{key: "近100期", size: 100}
	WindowAll     = Window{key: "全部", size: 0}
)

//nolint:gochecknoglobals
var windowAliases = map[string]Window{
	"近10期":    WindowLast10,
	"last10":  WindowLast10,
	"近50期":    WindowLast50,
	"last50":  WindowLast50,
	"近100期":   WindowLast100,
	"last100": WindowLast100,
	"全部":      WindowAll,
	"all":     WindowAll,
}

// ParseWindow возвращает окно по ключу. Любой неизвестный или пустой ключ
// означает всю историю.
func ParseWindow(key string) Window {
	if w, ok := LookupWindow(key); ok {
		return w
	}
	return WindowAll
}

// LookupWindow - строгий вариант ParseWindow: ok=false для неизвестного ключа.
func LookupWindow(key string) (Window, bool) {
	w, ok := windowAliases[strings.ToLower(strings.TrimSpace(key))]
	return w, ok
}

func (w Window) Key() string {
	if w.key == "" {
		return WindowAll.key
	}
	return w.key
}

// Size - длина окна, 0 для всей истории.
func (w Window) Size() int {
	return w.size
}

// Bounds возвращает начало и конец среза последних Size() элементов из n.
func (w Window) Bounds(n int) (from, to int) {
	if w.size <= 0 || n <= w.size {
		return 0, n
	}
	return n - w.size, n
}
