package specification

import "gorm.io/gorm"

// BySessionId filters study sets of one pipeline session.
type BySessionId struct {
	SessionId string
}

func (s BySessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}

// BySourceRef filters study sets generated from one source.
type BySourceRef struct {
	SourceRef string
}

func (s BySourceRef) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_ref = ?", s.SourceRef)
}

// NewestFirst orders by generation time, latest first.
type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return OrderBy{Field: "generated_at", Desc: true}.Apply(db)
}
