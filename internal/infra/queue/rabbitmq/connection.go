package rabbitmq

import (
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ClinicScheduling/internal/config"
)

const (
	declareAttempts = 3
	retryDelay      = 500 * time.Millisecond
)

// session соединение и канал к брокеру
type session struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     config.RabbitMQConfig
	logger  Logger
}

func dial(cfg config.RabbitMQConfig, logger Logger) (*session, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	return &session{conn: conn, channel: channel, cfg: cfg, logger: logger}, nil
}

// retry повторяет объявление топологии, брокер может быть еще не готов
func (s *session) retry(what string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= declareAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		s.logger.Warn("RabbitMQ: %s failed, attempt %d/%d: %v", what, attempt, declareAttempts, err)
		if attempt < declareAttempts {
			time.Sleep(retryDelay)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrTopology, what, err)
}

func (s *session) declareExchange() error {
	return s.retry("declare exchange "+s.cfg.Exchange, func() error {
		return s.channel.ExchangeDeclare(
			s.cfg.Exchange,
			amqp.ExchangeTopic,
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		)
	})
}

func (s *session) declareQueue() (amqp.Queue, error) {
	var queue amqp.Queue
	err := s.retry("declare queue "+s.cfg.Queue, func() error {
		var err error
		queue, err = s.channel.QueueDeclare(
			s.cfg.Queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		return err
	})
	if err != nil {
		return amqp.Queue{}, err
	}

	err = s.retry("bind queue "+queue.Name, func() error {
		return s.channel.QueueBind(queue.Name, s.cfg.RoutingKey, s.cfg.Exchange, false, nil)
	})
	return queue, err
}

func (s *session) close() error {
	if s == nil {
		return nil
	}
	chErr := s.channel.Close()
	connErr := s.conn.Close()
	if errors.Is(chErr, amqp.ErrClosed) {
		chErr = nil
	}
	if errors.Is(connErr, amqp.ErrClosed) {
		connErr = nil
	}
	return errors.Join(chErr, connErr)
}
