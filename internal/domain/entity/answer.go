package entity

import (
	"sort"
	"strings"
)

// Choice индекс выбранного варианта (0 = A) или NoAnswer.
type Choice int

// NoAnswer вопрос без уверенного ответа (пусто, исправление или двойная метка).
const NoAnswer Choice = -1

// Letters буквы вариантов ответа.
const Letters = "ABCDE"

// DigitsTopToBottom значения строк блока ID сверху вниз.
const DigitsTopToBottom = "1234567890"

// String возвращает букву варианта или "-".
func (c Choice) String() string {
	if c < 0 || int(c) >= len(Letters) {
		return "-"
	}
	return Letters[c : c+1]
}

// ChoiceFromLetter разбирает букву A..E (в любом регистре).
func ChoiceFromLetter(letter byte) (Choice, bool) {
	i := strings.IndexByte(Letters, upper(letter))
	if i < 0 {
		return NoAnswer, false
	}
	return Choice(i), true
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// AnswerVector ответы по порядку вопросов.
type AnswerVector []Choice

// String возвращает ответы строкой букв, например "AB-DE".
func (v AnswerVector) String() string {
	var sb strings.Builder
	for _, c := range v {
		sb.WriteString(c.String())
	}
	return sb.String()
}

// AnswerKey номер вопроса (с 1) -> правильный вариант.
type AnswerKey map[int]Choice

// Questions возвращает номера вопросов ключа по возрастанию.
func (k AnswerKey) Questions() []int {
	qs := make([]int, 0, len(k))
	for q := range k {
		qs = append(qs, q)
	}
	sort.Ints(qs)
	return qs
}

// Lookup возвращает правильный вариант для вопроса с индексом i (с 0).
func (k AnswerKey) Lookup(i int) (Choice, bool) {
	if k == nil {
		return NoAnswer, false
	}
	c, ok := k[i+1]
	return c, ok
}
