package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
)

type Producer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewProducer(rabbitmqURL string) (*Producer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to open a channel")
	}

	producer := &Producer{
		conn:    conn,
		channel: ch,
	}

	// 声明exchanges和queues
	if err := setupTopology(ch); err != nil {
		producer.Close()
		return nil, errors.Wrap(err, "failed to setup topology")
	}

	return producer, nil
}

// setupTopology 声明交换机和队列并绑定，生产者和消费者都会调用，声明是幂等的
func setupTopology(ch *amqp091.Channel) error {
	bindings := []struct {
		exchange string
		queue    string
	}{
		{EngagementEventExchange, EngagementEventQueue},
		{MediaCleanupEventExchange, MediaCleanupEventQueue},
	}
	for _, b := range bindings {
		if err := ch.ExchangeDeclare(
			b.exchange,
			"direct",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,   // arguments
		); err != nil {
			return errors.Wrapf(err, "failed to declare exchange %s", b.exchange)
		}
		if _, err := ch.QueueDeclare(
			b.queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		); err != nil {
			return errors.Wrapf(err, "failed to declare queue %s", b.queue)
		}
		if err := ch.QueueBind(b.queue, "", b.exchange, false, nil); err != nil {
			return errors.Wrapf(err, "failed to bind queue %s", b.queue)
		}
	}
	return nil
}

func (p *Producer) publish(ctx context.Context, exchange string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal event")
	}

	err = p.channel.PublishWithContext(
		ctx,
		exchange,
		"",
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return errors.Wrapf(err, "failed to publish to %s", exchange)
	}
	return nil
}

func (p *Producer) PublishEngagementEvent(ctx context.Context, event *EngagementEvent) error {
	if err := p.publish(ctx, EngagementEventExchange, event); err != nil {
		return err
	}
	hlog.CtxDebugf(ctx, "Published engagement event: %+v", event)
	return nil
}

func (p *Producer) PublishMediaCleanupEvent(ctx context.Context, event *MediaCleanupEvent) error {
	if err := p.publish(ctx, MediaCleanupEventExchange, event); err != nil {
		return err
	}
	hlog.CtxInfof(ctx, "Published media cleanup event: %s, %d objects", event.EventID, len(event.URLs))
	return nil
}

func (p *Producer) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
