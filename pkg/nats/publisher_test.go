package nats

import (
	"encoding/json"
	"testing"
	"time"

	"ai-studynotes-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "study.study_set_generated", Subject("STUDY_SET_GENERATED"))
}

func TestEncodeEnvelope(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	evt := events.BaseEvent{Type: "STUDY_SET_GENERATED", Key: "id-1", Data: map[string]interface{}{"title": "Leaves"}, OccurredAt: at}

	data, err := encode(evt)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "STUDY_SET_GENERATED", got["type"])
	assert.Equal(t, "2026-03-01T03:00:00Z", got["occurred_at"])
	assert.Equal(t, "Leaves", got["data"].(map[string]interface{})["title"])
}
