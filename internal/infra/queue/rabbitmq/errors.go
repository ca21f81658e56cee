package rabbitmq

import "errors"

var (
	// ErrConnect ошибка подключения к брокеру
	ErrConnect = errors.New("rabbitmq: failed to connect")

	// ErrTopology ошибка объявления exchange/очереди
	ErrTopology = errors.New("rabbitmq: failed to declare topology")

	// ErrPublish ошибка публикации сообщения
	ErrPublish = errors.New("rabbitmq: failed to publish")

	// ErrBadMessage сообщение не удалось разобрать
	ErrBadMessage = errors.New("rabbitmq: bad message")
)
