package fetcher

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"threestar/internal/domain/value"
)

//nolint:gochecknoglobals
var (
	imgDigit    = regexp.MustCompile(`(?i)([0-9])\.(?:png|gif|jpg|jpeg|webp)`)
	digitRun    = regexp.MustCompile(`[0-9]+`)
	blockMarker = []string{"ball", "num", "number", "win", "result"}
)

// RowExtractor достаёт тройки цифр из разобранной страницы в порядке
// документа. Пустой результат значит «этот способ не подошёл».
type RowExtractor interface {
	Name() string
	Extract(doc *html.Node) []value.Digits
}

// DefaultExtractors - таблица, затем блоки с шарами, затем весь текст.
func DefaultExtractors() []RowExtractor {
	return []RowExtractor{
		TableExtractor{},
		BlockExtractor{},
		TextExtractor{},
	}
}

// TableExtractor читает строки таблиц: ячейка с одной цифрой или картинка
// с цифрой в alt либо в имени файла.
type TableExtractor struct{}

func (TableExtractor) Name() string { return "table" }

func (TableExtractor) Extract(doc *html.Node) []value.Digits {
	var rows []value.Digits

	for _, tr := range findAll(doc, func(n *html.Node) bool { return n.DataAtom == atom.Tr }) {
		var digits []int

		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.DataAtom != atom.Td {
				continue
			}

			digits = append(digits, cellDigits(c)...)
			if len(digits) >= 3 {
				break
			}
		}

		if len(digits) >= 3 {
			rows = append(rows, value.Digits{digits[0], digits[1], digits[2]})
		}
	}

	return rows
}

func cellDigits(td *html.Node) []int {
	if n, ok := singleDigit(textContent(td, "")); ok {
		return []int{n}
	}

	var digits []int

	for _, img := range findAll(td, func(n *html.Node) bool { return n.DataAtom == atom.Img }) {
		if n, ok := singleDigit(attr(img, "alt")); ok {
			digits = append(digits, n)
			continue
		}

		if m := imgDigit.FindStringSubmatch(attr(img, "src")); m != nil {
			n, _ := strconv.Atoi(m[1])
			digits = append(digits, n)
		}
	}

	return digits
}

// BlockExtractor ищет элементы, у которых в class есть ball/num/win/result,
// и берёт из их текста отдельно стоящие цифры тройками.
type BlockExtractor struct{}

func (BlockExtractor) Name() string { return "block" }

func (BlockExtractor) Extract(doc *html.Node) []value.Digits {
	var rows []value.Digits

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isResultBlock(n) {
			rows = append(rows, triples(isolatedDigits(textContent(n, " ")))...)
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return rows
}

func isResultBlock(n *html.Node) bool {
	class := strings.ToLower(attr(n, "class"))
	if class == "" {
		return false
	}

	for _, marker := range blockMarker {
		if strings.Contains(class, marker) {
			return true
		}
	}

	return false
}

// TextExtractor - последний вариант: все отдельно стоящие цифры страницы.
type TextExtractor struct{}

func (TextExtractor) Name() string { return "text" }

func (TextExtractor) Extract(doc *html.Node) []value.Digits {
	return triples(isolatedDigits(textContent(doc, " ")))
}

func triples(digits []int) []value.Digits {
	rows := make([]value.Digits, 0, len(digits)/3)

	for i := 0; i+2 < len(digits); i += 3 {
		rows = append(rows, value.Digits{digits[i], digits[i+1], digits[i+2]})
	}

	return rows
}

// isolatedDigits возвращает цифры, не входящие в более длинные числа:
// из "第 113000123 期 1 2 3" получится [1 2 3].
func isolatedDigits(s string) []int {
	var digits []int

	for _, run := range digitRun.FindAllString(s, -1) {
		if len(run) == 1 {
			digits = append(digits, int(run[0]-'0'))
		}
	}

	return digits
}

func singleDigit(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}

	return int(s[0] - '0'), true
}

// textContent склеивает текстовые узлы через sep, пропуская script и style.
func textContent(n *html.Node, sep string) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(parts, sep)
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			found = append(found, n)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}
