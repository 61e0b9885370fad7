package study

import "time"

// SourceReference names the video a study set is generated from (usually a URL).
type SourceReference = string

// AudioArtifact is the decoded audio of a source plus its provenance.
type AudioArtifact struct {
	Bytes  []byte
	Title  string
	Format string // file extension without dot, e.g. "mp3"
}

// QuizItem is one flashcard.
type QuizItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ImageArtifact is an optional illustration. A nil *ImageArtifact means absent.
type ImageArtifact struct {
	Bytes    []byte
	MimeType string
}

// NarrationAudio is a spoken rendition of the notes. It is delivered once and never stored.
type NarrationAudio struct {
	Bytes    []byte
	MimeType string
}

// PipelineResult is the cached output of the mandatory chain. It is replaced as a unit.
type PipelineResult struct {
	SourceRef   SourceReference `json:"source_ref"`
	Title       string          `json:"title"`
	Notes       string          `json:"notes"`
	Quiz        []QuizItem      `json:"quiz"`
	GeneratedAt time.Time       `json:"generated_at"`
}

const UnknownTitle = "Unknown Video Title"
