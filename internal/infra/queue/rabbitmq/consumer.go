package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ClinicScheduling/internal/config"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// Consumer читает заявки из очереди и передает их раннеру генерации
// Сообщение подтверждается после успешной передачи, а не после генерации
type Consumer struct {
	session *session
	handoff Handoff
	logger  Logger
	wg      sync.WaitGroup
}

// NewConsumer подключается к брокеру
func NewConsumer(cfg config.RabbitMQConfig, handoff Handoff, logger Logger) (*Consumer, error) {
	s, err := dial(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Consumer{session: s, handoff: handoff, logger: logger}, nil
}

// Start объявляет топологию и запускает чтение очереди в отдельной горутине
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.session.declareExchange(); err != nil {
		return err
	}

	queue, err := c.session.declareQueue()
	if err != nil {
		return err
	}

	if err := c.session.channel.Qos(c.session.cfg.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("%w: qos: %v", ErrTopology, err)
	}

	consumerID := fmt.Sprintf("consumer-%s-%d", queue.Name, time.Now().UnixNano())
	msgs, err := c.session.channel.Consume(
		queue.Name,
		consumerID,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("%w: consume: %v", ErrTopology, err)
	}

	c.logger.Info("RabbitMQ: consumer started, queue=%s, binding=%s, exchange=%s",
		queue.Name, c.session.cfg.RoutingKey, c.session.cfg.Exchange)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("RabbitMQ: consumer stopping, queue=%s", queue.Name)
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("RabbitMQ: delivery channel closed, queue=%s", queue.Name)
					return
				}
				c.handleDelivery(ctx, msg)
			}
		}
	}()

	return nil
}

// Close закрывает канал и ждет завершения горутины чтения
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	err := c.session.close()
	c.wg.Wait()
	return err
}

func (c *Consumer) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	req, err := decodeRequest(msg.Body)
	if err != nil {
		c.logger.Error("RabbitMQ: dropping message id=%s: %v", msg.MessageId, err)
		if err := msg.Nack(false, false); err != nil {
			c.logger.Error("RabbitMQ: nack failed: %v", err)
		}
		return
	}

	if err := c.handoff.Enqueue(ctx, req); err != nil {
		// Повторная неудача отбрасывается: периодический прогон доберет расписания
		requeue := !msg.Redelivered
		c.logger.Warn("RabbitMQ: handoff failed for message id=%s, requeue=%t: %v", msg.MessageId, requeue, err)
		if err := msg.Nack(false, requeue); err != nil {
			c.logger.Error("RabbitMQ: nack failed: %v", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("RabbitMQ: ack failed: %v", err)
	}
}

func decodeRequest(body []byte) (domain.GenerationRequest, error) {
	var req domain.GenerationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if req.Reason == "" {
		req.Reason = domain.GenerationReasonScheduleCreated
	}
	return req, nil
}
