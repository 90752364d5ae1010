package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/idgen"
)

// OrderPlacedEvent 下单成功事件
type OrderPlacedEvent struct {
	EventID    string          `json:"event_id"`
	OrderID    uint            `json:"order_id"`
	OrderNo    string          `json:"order_no"`
	UserID     string          `json:"user_id"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Currency   string          `json:"currency"`
	ItemCount  int             `json:"item_count"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewOrderPlacedEvent 从订单构建下单事件
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		EventID:    fmt.Sprintf("EVT-%d", idgen.GenID()),
		OrderID:    order.ID,
		OrderNo:    order.OrderNo,
		UserID:     order.UserID,
		GrandTotal: order.GrandTotal,
		Currency:   order.Currency,
		ItemCount:  len(order.Items),
		OccurredAt: time.Now(),
	}
}

// OrderStatusChangedEvent 状态流转事件
type OrderStatusChangedEvent struct {
	EventID    string    `json:"event_id"`
	OrderID    uint      `json:"order_id"`
	OrderNo    string    `json:"order_no"`
	UserID     string    `json:"user_id"`
	From       Status    `json:"from"`
	To         Status    `json:"to"`
	Note       string    `json:"note,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderStatusChangedEvent 从最近一次流转构建事件
func NewOrderStatusChangedEvent(order *Order, change StatusChange) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		EventID:    fmt.Sprintf("EVT-%d", idgen.GenID()),
		OrderID:    order.ID,
		OrderNo:    order.OrderNo,
		UserID:     order.UserID,
		From:       change.From,
		To:         change.To,
		Note:       change.Note,
		ActorID:    change.ActorID,
		OccurredAt: time.Now(),
	}
}

// EventPublisher 订单事件发布接口，发布失败只记录日志不阻断主流程
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *OrderStatusChangedEvent) error
}
