package notes

import (
	"testing"

	"ai-studynotes-be/pkg/study"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractQuizPhotosynthesis(t *testing.T) {
	got := ExtractQuiz(photosynthesisNotes)

	assert.True(t, got.Found)
	assert.Empty(t, got.Warning)
	assert.Equal(t, []study.QuizItem{{
		Question: "What does photosynthesis convert?",
		Answer:   "Light into chemical energy",
	}}, got.Items)
}

func TestExtractQuizIsIdempotent(t *testing.T) {
	doc := "## Quiz\n```json\n[" +
		`{"question":"Q1","answer":"A1"},` +
		`{"question":"Q2","answer":"A2"},` +
		`{"question":"Q3","answer":"A3"}` +
		"]\n```"

	first := ExtractQuiz(doc)
	second := ExtractQuiz(doc)

	assert.Equal(t, first, second)
	require.Len(t, first.Items, 3)
	assert.Equal(t, "Q1", first.Items[0].Question)
	assert.Equal(t, "Q3", first.Items[2].Question)
}

func TestExtractQuizMalformedBlock(t *testing.T) {
	got := ExtractQuiz("## Quiz Yourself!\n```json\n[{\"question\": \"unterminated\n```")

	assert.True(t, got.Found)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
	assert.Contains(t, got.Warning, "could not parse quiz data")
}

func TestExtractQuizWithoutBlock(t *testing.T) {
	got := ExtractQuiz("## Title\nNo quiz today\n```text\nA -> B\n```")

	assert.False(t, got.Found)
	assert.Empty(t, got.Warning)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestExtractQuizTolerance(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  []study.QuizItem
	}{
		{
			name:  "capitalised keys",
			block: `[{"Question":"Q","Answer":"A"}]`,
			want:  []study.QuizItem{{Question: "Q", Answer: "A"}},
		},
		{
			name:  "wrapped in object",
			block: `{"quiz":[{"question":"Q","answer":"A"}]}`,
			want:  []study.QuizItem{{Question: "Q", Answer: "A"}},
		},
		{
			name:  "non string answer",
			block: `[{"question":"2+2?","answer":4},{"question":"List","answer":["a", "b"]}]`,
			want:  []study.QuizItem{{Question: "2+2?", Answer: "4"}, {Question: "List", Answer: `["a","b"]`}},
		},
		{
			name:  "records without question skipped",
			block: `[{"answer":"orphan"},{"question":"  ","answer":"x"},{"question":"Kept"}]`,
			want:  []study.QuizItem{{Question: "Kept", Answer: ""}},
		},
		{
			name:  "empty array",
			block: `[]`,
			want:  []study.QuizItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractQuiz("```json\n" + tt.block + "\n```")
			assert.Empty(t, got.Warning)
			assert.Equal(t, tt.want, got.Items)
		})
	}
}

func TestExtractQuizUsesFirstJSONBlock(t *testing.T) {
	doc := "```text\nflow\n```\n```json\n[{\"question\":\"first\",\"answer\":\"1\"}]\n```\n" +
		"```json\n[{\"question\":\"second\",\"answer\":\"2\"}]\n```"

	got := ExtractQuiz(doc)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "first", got.Items[0].Question)
}

func TestExtractQuizRejectsUnknownWrapper(t *testing.T) {
	got := ExtractQuiz("```json\n{\"items\":[]}\n```")

	assert.Empty(t, got.Items)
	assert.NotEmpty(t, got.Warning)
}

func TestExtractQuizToleratesFenceDrift(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain", "## Quiz\n```json\n[{\"question\":\"Q\",\"answer\":\"A\"}]\n```"},
		{"crlf", "## Quiz\r\n```json\r\n[{\"question\":\"Q\",\"answer\":\"A\"}]\r\n```"},
		{"bracket after tag", "## Quiz\n```json [\n{\"question\":\"Q\",\"answer\":\"A\"}\n]\n```"},
		{"fence after payload", "## Quiz\n```json\n[{\"question\":\"Q\",\"answer\":\"A\"}]```\n## Outro\nbye"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractQuiz(tt.raw)
			assert.True(t, got.Found)
			assert.Empty(t, got.Warning)
			assert.Equal(t, []study.QuizItem{{Question: "Q", Answer: "A"}}, got.Items)
		})
	}
}
