package mq

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

type EngagementEventHandler interface {
	HandleEngagementEvent(ctx context.Context, event *EngagementEvent) error
}

type MediaCleanupEventHandler interface {
	HandleMediaCleanupEvent(ctx context.Context, event *MediaCleanupEvent) error
}

func NewConsumer(rabbitmqURL string) (*Consumer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to open a channel")
	}

	// 设置QoS，限制未确认消息数量
	if err = ch.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.Wrap(err, "failed to set QoS")
	}

	if err = setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.Wrap(err, "failed to setup topology")
	}

	return &Consumer{conn: conn, channel: ch}, nil
}

func (c *Consumer) ConsumeEngagementEvents(ctx context.Context, handler EngagementEventHandler) error {
	return c.consume(ctx, EngagementEventQueue, func(body []byte) (bool, error) {
		var event EngagementEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return false, err
		}
		return true, handler.HandleEngagementEvent(ctx, &event)
	})
}

func (c *Consumer) ConsumeMediaCleanupEvents(ctx context.Context, handler MediaCleanupEventHandler) error {
	return c.consume(ctx, MediaCleanupEventQueue, func(body []byte) (bool, error) {
		var event MediaCleanupEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return false, err
		}
		return true, handler.HandleMediaCleanupEvent(ctx, &event)
	})
}

// consume 注册消费者并在后台处理消息。handle 返回 decoded=false 表示消息无法解析，
// 直接丢弃；处理失败的消息重新入队
func (c *Consumer) consume(ctx context.Context, queue string, handle func(body []byte) (decoded bool, err error)) error {
	msgs, err := c.channel.Consume(
		queue,
		"",    // consumer
		false, // auto-ack (设置为false，手动确认)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return errors.Wrapf(err, "failed to register a consumer on %s", queue)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				hlog.Infof("%s consumer context cancelled", queue)
				return
			case d, ok := <-msgs:
				if !ok {
					hlog.Infof("%s consumer channel closed", queue)
					return
				}

				decoded, err := handle(d.Body)
				if !decoded {
					hlog.Errorf("Failed to unmarshal message from %s: %v", queue, err)
					d.Nack(false, false) // 拒绝消息，不重新入队
					continue
				}
				if err != nil {
					hlog.Errorf("Failed to handle message from %s: %v", queue, err)
					d.Nack(false, !d.Redelivered) // 第一次失败重新入队，再次失败丢弃
					continue
				}

				d.Ack(false) // 确认消息
			}
		}
	}()

	return nil
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
