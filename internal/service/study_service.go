package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"ai-studynotes-be/internal/dto"
	"ai-studynotes-be/internal/entity"
	"ai-studynotes-be/internal/pkg/logger"
	"ai-studynotes-be/internal/repository/contract"
	"ai-studynotes-be/internal/repository/specification"
	"ai-studynotes-be/internal/repository/unitofwork"
	"ai-studynotes-be/pkg/notes"
	"ai-studynotes-be/pkg/pipeline"
	"ai-studynotes-be/pkg/store"
	"ai-studynotes-be/pkg/study"

	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = HistoryRetention
)

var errHistoryDisabled = fmt.Errorf("%w: study set history is disabled", study.ErrConfiguration)

type IStudyService interface {
	Generate(ctx context.Context, sessionId string, req *dto.GenerateStudySetRequest) (*dto.GenerateStudySetResponse, error)
	Current(ctx context.Context, sessionId string) (*dto.StudySetResponse, error)
	Clear(ctx context.Context, sessionId string) error
	Flashcard(ctx context.Context, sessionId string) (*dto.FlashcardResponse, error)
	Next(ctx context.Context, sessionId string) (*dto.FlashcardResponse, error)
	Previous(ctx context.Context, sessionId string) (*dto.FlashcardResponse, error)
	Narration(ctx context.Context, sessionId string) (*study.NarrationAudio, error)
	History(ctx context.Context, sessionId string, limit int) (*dto.StudySetHistoryListResponse, error)
	HistoryItem(ctx context.Context, sessionId string, id uuid.UUID) (*dto.StudySetHistoryResponse, error)
	ClearHistory(ctx context.Context, sessionId string) error
}

type studyService struct {
	runner           *pipeline.Runner
	sessions         contract.SessionRepository
	publisherService IPublisherService
	uowFactory       unitofwork.RepositoryFactory
	locks            *sessionLocks
	logger           logger.ILogger
}

// NewStudyService wires the pipeline to the session cache. publisherService and uowFactory
// are nil when study set history is disabled.
func NewStudyService(
	runner *pipeline.Runner,
	sessions contract.SessionRepository,
	publisherService IPublisherService,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IStudyService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &studyService{
		runner:           runner,
		sessions:         sessions,
		publisherService: publisherService,
		uowFactory:       uowFactory,
		locks:            newSessionLocks(),
		logger:           log,
	}
}

func (s *studyService) Generate(ctx context.Context, sessionId string, req *dto.GenerateStudySetRequest) (*dto.GenerateStudySetResponse, error) {
	ref := req.Normalize()

	unlock := s.locks.lock(sessionId)
	defer unlock()

	session, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	if !req.Refresh {
		if _, ok := session.Cached(ref); ok {
			s.runner.Metrics().Reused()
			s.logger.Info("STUDY", "Reusing cached study set", map[string]interface{}{
				"session_id": sessionId,
				"source_ref": ref,
			})
			res := &dto.GenerateStudySetResponse{
				StudySetResponse: buildStudySetResponse(session),
				Reused:           true,
				Warnings:         []string{},
			}
			return res, nil
		}
	}

	// A new source drops the previous artifacts before any stage runs.
	if session.Begin(ref) {
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}

	out, err := s.runner.Run(ctx, ref)
	if err != nil {
		return nil, err
	}

	session.Commit(out.Result)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	s.recordHistory(ctx, sessionId, out.Result)

	extras := s.runner.Enrich(ctx, out.Result, true)

	res := &dto.GenerateStudySetResponse{
		StudySetResponse: buildStudySetResponse(session),
		Image:            imageDTO(extras.Image),
		Narration:        narrationDTO(extras.Narration),
		Warnings:         append(append([]string{}, out.Warnings...), extras.Warnings...),
	}
	if extras.NarrationErr != nil {
		res.NarrationError = extras.NarrationErr.Error()
	}
	return res, nil
}

func (s *studyService) Current(ctx context.Context, sessionId string) (*dto.StudySetResponse, error) {
	session, err := s.requireResult(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	res := buildStudySetResponse(session)
	return &res, nil
}

func (s *studyService) Clear(ctx context.Context, sessionId string) error {
	unlock := s.locks.lock(sessionId)
	defer unlock()

	return s.sessions.Delete(ctx, sessionId)
}

func (s *studyService) Flashcard(ctx context.Context, sessionId string) (*dto.FlashcardResponse, error) {
	session, err := s.requireResult(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	res := buildFlashcardResponse(session)
	return &res, nil
}

func (s *studyService) Next(ctx context.Context, sessionId string) (*dto.FlashcardResponse, error) {
	return s.advance(ctx, sessionId, true)
}

func (s *studyService) Previous(ctx context.Context, sessionId string) (*dto.FlashcardResponse, error) {
	return s.advance(ctx, sessionId, false)
}

func (s *studyService) advance(ctx context.Context, sessionId string, forward bool) (*dto.FlashcardResponse, error) {
	unlock := s.locks.lock(sessionId)
	defer unlock()

	session, err := s.requireResult(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	session.Advance(forward)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	res := buildFlashcardResponse(session)
	return &res, nil
}

// Narration synthesizes the cached notes again. Audio is never stored.
func (s *studyService) Narration(ctx context.Context, sessionId string) (*study.NarrationAudio, error) {
	session, err := s.requireResult(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return s.runner.Narrate(ctx, session.Result.Notes)
}

func (s *studyService) History(ctx context.Context, sessionId string, limit int) (*dto.StudySetHistoryListResponse, error) {
	if s.uowFactory == nil {
		return nil, errHistoryDisabled
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.StudySetRepository().Count(ctx, specification.BySessionId{SessionId: sessionId})
	if err != nil {
		return nil, err
	}
	sets, err := uow.StudySetRepository().FindAll(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.NewestFirst{},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.StudySetHistoryListResponse{
		Total: total,
		Items: make([]*dto.StudySetHistoryResponse, 0, len(sets)),
	}
	for _, set := range sets {
		res.Items = append(res.Items, historyDTO(set))
	}
	return res, nil
}

func (s *studyService) HistoryItem(ctx context.Context, sessionId string, id uuid.UUID) (*dto.StudySetHistoryResponse, error) {
	if s.uowFactory == nil {
		return nil, errHistoryDisabled
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	set, err := uow.StudySetRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.BySessionId{SessionId: sessionId},
	)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, fmt.Errorf("%w: %s", study.ErrNoStudySet, id)
	}
	return historyDTO(set), nil
}

func (s *studyService) ClearHistory(ctx context.Context, sessionId string) error {
	if s.uowFactory == nil {
		return errHistoryDisabled
	}
	return s.uowFactory.NewUnitOfWork(ctx).StudySetRepository().DeleteBySession(ctx, sessionId)
}

func (s *studyService) loadSession(ctx context.Context, sessionId string) (*store.Session, error) {
	session, ok, err := s.sessions.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if !ok {
		return store.NewSession(sessionId), nil
	}
	return session, nil
}

func (s *studyService) requireResult(ctx context.Context, sessionId string) (*store.Session, error) {
	session, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session.Result == nil {
		return nil, study.ErrNoStudySet
	}
	return session, nil
}

// recordHistory hands the result to the consumer. Failures only cost the history entry.
func (s *studyService) recordHistory(ctx context.Context, sessionId string, result study.PipelineResult) {
	if s.publisherService == nil {
		return
	}
	msg := dto.StudySetGeneratedMessage{
		SessionId:   sessionId,
		SourceRef:   result.SourceRef,
		Title:       result.Title,
		Notes:       result.Notes,
		Quiz:        quizDTO(result.Quiz),
		GeneratedAt: result.GeneratedAt,
	}
	payload, err := json.Marshal(msg)
	if err == nil {
		err = s.publisherService.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Warn("STUDY", "Failed to queue study set for history", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func historyDTO(set *entity.StudySet) *dto.StudySetHistoryResponse {
	return &dto.StudySetHistoryResponse{
		Id:          set.Id,
		SourceRef:   set.SourceRef,
		Title:       set.Title,
		Notes:       set.Notes,
		Quiz:        quizDTO(set.Quiz),
		GeneratedAt: set.GeneratedAt,
	}
}

func buildStudySetResponse(session *store.Session) dto.StudySetResponse {
	result := session.Result
	return dto.StudySetResponse{
		SourceRef:   result.SourceRef,
		Title:       result.Title,
		Notes:       result.Notes,
		StudyNotes:  notes.Parse(result.Notes).WithoutQuiz(),
		Quiz:        quizDTO(result.Quiz),
		GeneratedAt: result.GeneratedAt,
		Flashcard:   buildFlashcardResponse(session),
	}
}

func buildFlashcardResponse(session *store.Session) dto.FlashcardResponse {
	nav := session.Navigator
	res := dto.FlashcardResponse{
		Position:    nav.Position(),
		Total:       nav.Count,
		CanNext:     nav.CanNext(),
		CanPrevious: nav.CanPrevious(),
	}
	if card, ok := session.Card(); ok {
		res.Card = &dto.QuizItemDTO{Question: card.Question, Answer: card.Answer}
	}
	return res
}

func quizDTO(items []study.QuizItem) []dto.QuizItemDTO {
	res := make([]dto.QuizItemDTO, 0, len(items))
	for _, item := range items {
		res = append(res, dto.QuizItemDTO{Question: item.Question, Answer: item.Answer})
	}
	return res
}

func imageDTO(img *study.ImageArtifact) *dto.MediaDTO {
	if img == nil {
		return nil
	}
	return &dto.MediaDTO{MimeType: img.MimeType, Base64: base64.StdEncoding.EncodeToString(img.Bytes)}
}

func narrationDTO(audio *study.NarrationAudio) *dto.MediaDTO {
	if audio == nil {
		return nil
	}
	return &dto.MediaDTO{MimeType: audio.MimeType, Base64: base64.StdEncoding.EncodeToString(audio.Bytes)}
}
