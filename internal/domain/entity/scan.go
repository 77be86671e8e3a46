package entity

// ScanRequest параметры одного прохода распознавания.
type ScanRequest struct {
	Key         AnswerKey // может быть nil
	ActiveItems int       // сколько первых вопросов проверять, 1..MaxItems
}

// Items возвращает число активных вопросов, приведённое к [1, MaxItems].
func (r ScanRequest) Items() int {
	switch {
	case r.ActiveItems <= 0 || r.ActiveItems > MaxItems:
		return MaxItems
	default:
		return r.ActiveItems
	}
}

// ScanResult итог одного прохода распознавания.
type ScanResult struct {
	Answers     AnswerVector
	StudentID   string
	Score       int  // число совпадений с ключом среди первых ActiveItems
	Graded      bool // ключ был передан
	ActiveItems int
	Markers     MarkerSet
	Warnings    []string // замечания к качеству снимка, на результат не влияют
	Annotated   []byte   // JPEG с разметкой
}
