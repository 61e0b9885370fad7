package events

import "time"

const TypeStudySetGenerated = "STUDY_SET_GENERATED"

// StudySetGenerated announces a persisted study set. Notes are not included; consumers
// fetch them through the history API when they need them.
func StudySetGenerated(studySetID, sessionID, sourceRef, title string, cards int, generatedAt time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeStudySetGenerated,
		Key:  studySetID,
		Data: map[string]interface{}{
			"study_set_id": studySetID,
			"session_id":   sessionID,
			"source_ref":   sourceRef,
			"title":        title,
			"card_count":   cards,
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
		OccurredAt: time.Now(),
	}
}
