// Package keyfile разбирает текстовые файлы ключа ответов и списка группы.
package keyfile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"omr-bot/internal/domain/entity"
)

var (
	keyLine   = regexp.MustCompile(`^(\d+)\s*:\s*([A-Ea-e])`)
	studentID = regexp.MustCompile(`^\d{5}$`)
)

// ParseAnswerKey читает ключ ответов.
// Первая непустая строка: название теста, далее строки вида "12: B".
// Строки другого вида пропускаются.
func ParseAnswerKey(r io.Reader) (string, entity.AnswerKey, error) {
	lines, err := nonEmptyLines(r)
	if err != nil {
		return "", nil, fmt.Errorf("read answer key: %w", err)
	}

	key := entity.AnswerKey{}
	if len(lines) == 0 {
		return "", key, nil
	}

	for _, ln := range lines[1:] {
		m := keyLine.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		q, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		c, _ := entity.ChoiceFromLetter(m[2][0])
		key[q] = c
	}
	return lines[0], key, nil
}

// FormatAnswerKey пишет ключ в том же формате, вопросы по возрастанию.
func FormatAnswerKey(w io.Writer, examName string, key entity.AnswerKey) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, examName)
	for _, q := range key.Questions() {
		fmt.Fprintf(bw, "%d: %s\n", q, key[q])
	}
	return bw.Flush()
}

// ParseRoster читает список группы.
// Первая непустая строка: название группы, далее "Фамилия Имя, 00001".
// Номер: последнее поле после запятой, пробелы удаляются, ровно 5 цифр.
func ParseRoster(r io.Reader) (string, map[string]string, error) {
	lines, err := nonEmptyLines(r)
	if err != nil {
		return "", nil, fmt.Errorf("read roster: %w", err)
	}

	roster := make(map[string]string)
	if len(lines) == 0 {
		return "", roster, nil
	}

	for _, ln := range lines[1:] {
		parts := strings.Split(ln, ",")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		id := strings.ReplaceAll(parts[len(parts)-1], " ", "")
		if !studentID.MatchString(id) {
			continue
		}
		roster[id] = strings.TrimSpace(strings.Join(parts[:len(parts)-1], ","))
	}
	return lines[0], roster, nil
}

func nonEmptyLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ln := strings.TrimSpace(scanner.Text()); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines, scanner.Err()
}
