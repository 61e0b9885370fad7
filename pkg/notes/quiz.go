package notes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"ai-studynotes-be/pkg/study"
)

// QuizTag is the fence tag that marks the machine-readable quiz block.
const QuizTag = "json"

// wrapperKeys are accepted when the model wraps the quiz array in an object.
var wrapperKeys = []string{"quiz", "questions", "flashcards"}

// QuizExtraction is the outcome of ExtractQuiz. Warning is set when a quiz block
// was found but could not be read; Items is then empty.
type QuizExtraction struct {
	Items   []study.QuizItem
	Found   bool
	Warning string
}

type rawQuizItem struct {
	Question json.RawMessage `json:"question"`
	Answer   json.RawMessage `json:"answer"`
}

// ExtractQuiz reads the first ```json block of a notes document into quiz items.
// It never fails: a missing block yields no items, a malformed block yields no items and a warning.
func ExtractQuiz(raw string) QuizExtraction {
	return Parse(raw).Quiz()
}

// Quiz extracts quiz items from an already parsed document.
func (d Document) Quiz() QuizExtraction {
	out := QuizExtraction{Items: []study.QuizItem{}}

	block, ok := d.FirstBlock(QuizTag)
	if !ok {
		return out
	}
	out.Found = true

	records, err := decodeQuizRecords([]byte(strings.TrimSpace(block.Content)))
	if err != nil {
		out.Warning = fmt.Sprintf("could not parse quiz data: %v", err)
		return out
	}

	for _, r := range records {
		question := rawText(r.Question)
		if question == "" {
			continue
		}
		out.Items = append(out.Items, study.QuizItem{
			Question: question,
			Answer:   rawText(r.Answer),
		})
	}
	return out
}

func decodeQuizRecords(data []byte) ([]rawQuizItem, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty quiz block")
	}

	var records []rawQuizItem
	if data[0] != '{' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(wrapper))
	for key := range wrapper {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, accepted := range wrapperKeys {
		for _, key := range keys {
			if strings.EqualFold(key, accepted) {
				if err := json.Unmarshal(wrapper[key], &records); err != nil {
					return nil, err
				}
				return records, nil
			}
		}
	}
	return nil, fmt.Errorf("quiz object has no %s array", strings.Join(wrapperKeys, "/"))
}

// rawText renders a JSON value as display text: strings unquoted, other values compacted.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}
