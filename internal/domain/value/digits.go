package value

import (
	"math"
	"strconv"
	"strings"
)

const (
	MinDigit = 0
	MaxDigit = 9

	// DigitCount - количество различных цифр, 0..9.
	DigitCount = MaxDigit - MinDigit + 1
)

// Digits - три цифры тиража или предсказания, по позициям.
type Digits [3]int

func (d Digits) Valid() bool {
	for _, n := range d {
		if !IsDigit(n) {
			return false
		}
	}
	return true
}

// String склеивает цифры без разделителей: {1,2,3} -> "123".
func (d Digits) String() string {
	var sb strings.Builder
	for _, n := range d {
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}

func IsDigit(n int) bool {
	return n >= MinDigit && n <= MaxDigit
}

// ParseDigit разбирает поле CSV. Пустое, нечисловое, дробное или вне 0..9
// значение считается отсутствующим (ok == false), а не нулём.
// Целые числа вида "7.0" принимаются: так их пишет pandas при пропусках.
func ParseDigit(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n, IsDigit(n)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}

	n := int(f)

	return n, IsDigit(n)
}
