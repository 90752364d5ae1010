// Package messaging 订单事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/mq"
)

// KafkaPublisher 将订单事件投递到 Kafka 主题
type KafkaPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaPublisher 创建事件发布器
func NewKafkaPublisher(producer *mq.KafkaProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// PublishOrderPlaced 发布下单事件，以订单号作为分区键保证同单有序
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event *domain.OrderPlacedEvent) error {
	return p.producer.SendMessage(ctx, p.topic, event.OrderNo, event)
}

// PublishOrderStatusChanged 发布状态流转事件
func (p *KafkaPublisher) PublishOrderStatusChanged(ctx context.Context, event *domain.OrderStatusChangedEvent) error {
	return p.producer.SendMessage(ctx, p.topic, event.OrderNo, event)
}

// NoopPublisher 未配置 Kafka 时的空实现
type NoopPublisher struct{}

// PublishOrderPlaced 丢弃事件
func (NoopPublisher) PublishOrderPlaced(context.Context, *domain.OrderPlacedEvent) error {
	return nil
}

// PublishOrderStatusChanged 丢弃事件
func (NoopPublisher) PublishOrderStatusChanged(context.Context, *domain.OrderStatusChangedEvent) error {
	return nil
}
