package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ClinicScheduling/internal/config"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

const publishTimeout = 5 * time.Second

// Publisher публикует заявки на генерацию слотов в topic exchange
type Publisher struct {
	session    *session
	routingKey string
	logger     Logger
}

// NewPublisher подключается к брокеру и объявляет exchange
func NewPublisher(cfg config.RabbitMQConfig, logger Logger) (*Publisher, error) {
	s, err := dial(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := s.declareExchange(); err != nil {
		_ = s.close()
		return nil, err
	}

	logger.Info("RabbitMQ: publisher ready, exchange=%s, routing_key=%s", cfg.Exchange, cfg.RoutingKey)

	return &Publisher{session: s, routingKey: cfg.RoutingKey, logger: logger}, nil
}

// Enqueue публикует заявку; ждет только подтверждения записи в сокет, не генерации
func (p *Publisher) Enqueue(ctx context.Context, req domain.GenerationRequest) error {
	msg, err := newPublishing(req)
	if err != nil {
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.session.channel.PublishWithContext(pubCtx, p.session.cfg.Exchange, p.routingKey, false, false, msg)
	if err != nil {
		p.logger.Error("RabbitMQ: failed to publish message id=%s: %v", msg.MessageId, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.logger.Info("RabbitMQ: published message id=%s, reason=%s, schedules=%d", msg.MessageId, req.Reason, len(req.ScheduleIDs))
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.session.close()
}

func newPublishing(req domain.GenerationRequest) (amqp.Publishing, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    req.RequestedAt,
		Type:         req.Reason,
		Body:         body,
	}, nil
}
