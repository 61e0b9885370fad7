package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-studynotes-be/internal/dto"
	"ai-studynotes-be/internal/entity"
	"ai-studynotes-be/internal/pkg/logger"
	"ai-studynotes-be/internal/repository/unitofwork"
	"ai-studynotes-be/pkg/events"
	"ai-studynotes-be/pkg/study"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// HistoryRetention is how many study sets are kept per session.
const HistoryRetention = 50

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	events     events.Publisher
	logger     logger.ILogger
}

// NewConsumerService persists every generated study set published on topicName.
// eventPublisher may be nil when no broker is configured.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IConsumerService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		events:     eventPublisher,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.StudySetGeneratedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal study set message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Redelivery cannot fix a bad payload.
		msg.Ack()
		return
	}

	set := &entity.StudySet{
		Id:          uuid.New(),
		SessionId:   payload.SessionId,
		SourceRef:   payload.SourceRef,
		Title:       payload.Title,
		Notes:       payload.Notes,
		Quiz:        make([]study.QuizItem, 0, len(payload.Quiz)),
		GeneratedAt: payload.GeneratedAt,
		CreatedAt:   time.Now(),
	}
	for _, q := range payload.Quiz {
		set.Quiz = append(set.Quiz, study.QuizItem{Question: q.Question, Answer: q.Answer})
	}

	var pruned int64
	err := cs.uowFactory.WithinTransaction(ctx, func(uow unitofwork.UnitOfWork) error {
		if err := uow.StudySetRepository().Create(ctx, set); err != nil {
			return err
		}
		n, err := uow.StudySetRepository().PruneSession(ctx, set.SessionId, HistoryRetention)
		pruned = n
		return err
	})
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to persist study set", map[string]interface{}{
			"session_id": payload.SessionId,
			"source_ref": payload.SourceRef,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("CONSUMER", "Study set persisted", map[string]interface{}{
		"study_set_id": set.Id.String(),
		"session_id":   set.SessionId,
		"cards":        len(set.Quiz),
		"pruned":       pruned,
	})

	if cs.events != nil {
		event := events.StudySetGenerated(set.Id.String(), set.SessionId, set.SourceRef, set.Title, len(set.Quiz), set.GeneratedAt)
		if err := cs.events.Publish(ctx, event); err != nil {
			cs.logger.Warn("CONSUMER", "Failed to publish study set event", map[string]interface{}{
				"study_set_id": set.Id.String(),
				"error":        err.Error(),
			})
		}
	}

	msg.Ack()
}
