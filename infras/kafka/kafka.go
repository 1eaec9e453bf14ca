package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"docemania/config"
	"docemania/infras/otel"
	"docemania/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	writeTimeout        = 10 * time.Second
	consumerMaxAttempts = 3

	otelAttrTopic = "kafka.topic"

	headerError         = "x-error"
	headerOriginalTopic = "x-original-topic"
)

var consumerRetryWait = time.Second

var (
	ErrEmptyTopic   = errors.New("kafka topic cannot be empty")
	ErrNoDeadLetter = errors.New("no dead-letter topic configured")
)

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage(topic string) (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Topic: topic,
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

// DecodeKafkaMessage unmarshals the JSON payload of msg into a T.
func DecodeKafkaMessage[T any](msg kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		log.Error().Err(err).Str("topic", msg.Topic).Msg("Failed to unmarshal Kafka message value from JSON")

		return value, fmt.Errorf("failed to unmarshal Kafka message value from JSON: %w", err)
	}

	return value, nil
}

// Handler processes one message. A nil error commits the offset.
type Handler func(ctx context.Context, message kafkaGo.Message) error

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error
	Close() error
}

type kafkaClientImpl struct {
	config *config.Config
	otel   otel.Otel
	dialer *kafkaGo.Dialer
	writer *kafkaGo.Writer
}

func New(config *config.Config, otel otel.Otel) Client {
	var mechanism sasl.Mechanism
	if config.Kafka.SASL.Username != "" {
		mechanism = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	dialer := &kafkaGo.Dialer{
		DualStack:     true,
		SASLMechanism: mechanism,
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Transport:              &kafkaGo.Transport{SASL: mechanism},
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config: config,
		otel:   otel,
		dialer: dialer,
		writer: writer,
	}
}

func (k *kafkaClientImpl) reader(consumerGroup, topic string) *kafkaGo.Reader {
	groupID := k.config.Kafka.ConsumerGroup
	if consumerGroup != "" {
		groupID = consumerGroup
	}

	return kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if topic == "" {
		return ErrEmptyTopic
	}

	scope.SetAttribute(otelAttrTopic, topic)

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage(topic)
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to convert message to Kafka message.")

			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	if err = k.writer.WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Info().Str("topic", topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

// Consume blocks until ctx is done. Messages are handled one at a time and a
// message's offset is committed only once it was handled or dead-lettered, so a
// later commit never acknowledges an earlier failure.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error {
	if topic == "" {
		return ErrEmptyTopic
	}

	reader := k.reader(consumerGroup, topic)
	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka reader.")
		}
	}()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", topic).Msg("Consumer context done.")

				return nil
			}

			log.Error().Err(err).Str("topic", topic).Msg("Failed to read message from Kafka.")

			if wait(ctx, consumerRetryWait) != nil {
				return nil
			}

			continue
		}

		log.Info().Str("topic", topic).Str("key", string(msg.Key)).Msg("Received message from Kafka.")

		if err := deliver(ctx, msg, func(ctx context.Context, msg kafkaGo.Message) error {
			return k.handle(ctx, msg, handler)
		}, k.deadLetter); err != nil {
			log.Info().Str("topic", topic).Int64("offset", msg.Offset).Msg("Consumer stopped before the message was settled.")

			return nil
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("Failed to commit Kafka message.")
		}
	}
}

// deliver runs handle until it succeeds. From the consumerMaxAttempts-th failure on
// the message is offered to park instead; a parked message counts as settled.
// It returns an error only when ctx ends first, so the offset is never
// committed for an unsettled message.
func deliver(ctx context.Context, msg kafkaGo.Message, handle Handler, park func(context.Context, kafkaGo.Message, error) error) error {
	for attempt := 1; ; attempt++ {
		err := handle(ctx, msg)
		if err == nil {
			return nil
		}

		log.Error().Err(err).Str("topic", msg.Topic).Int64("offset", msg.Offset).Int("attempt", attempt).Msg("Failed to handle Kafka message.")

		if attempt >= consumerMaxAttempts {
			parkErr := park(ctx, msg, err)
			if parkErr == nil {
				return nil
			}

			log.Error().Err(parkErr).Str("topic", msg.Topic).Int64("offset", msg.Offset).Msg("Failed to dead-letter Kafka message.")
		}

		if err := wait(ctx, consumerRetryWait); err != nil {
			return err
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// deadLetter republishes msg on the configured dead-letter topic with the failure
// and the source topic in its headers.
func (k *kafkaClientImpl) deadLetter(ctx context.Context, msg kafkaGo.Message, cause error) error {
	topic := k.config.Kafka.Topics.DeadLetter
	if topic == "" {
		return ErrNoDeadLetter
	}

	parked := kafkaGo.Message{
		Topic: topic,
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(slices.Clone(msg.Headers),
			kafkaGo.Header{Key: headerError, Value: []byte(cause.Error())},
			kafkaGo.Header{Key: headerOriginalTopic, Value: []byte(msg.Topic)},
		),
	}

	if err := k.writer.WriteMessages(ctx, parked); err != nil {
		return fmt.Errorf("failed to write dead-letter message: %w", err)
	}

	log.Warn().Str("topic", msg.Topic).Str("dead_letter", topic).Int64("offset", msg.Offset).Msg("Message moved to dead-letter topic.")

	return nil
}

func (k *kafkaClientImpl) handle(ctx context.Context, msg kafkaGo.Message, handler Handler) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrTopic:  msg.Topic,
		"kafka.offset": msg.Offset,
	})

	return handler(ctx, msg)
}

func (k *kafkaClientImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}
