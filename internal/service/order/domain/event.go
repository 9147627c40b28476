// internal/service/order/domain/event.go
package domain

import "time"

// EventName 是领域事件的封闭集合。
// 事件通过显式注册的处理器分发，不使用字符串自由订阅。
type EventName string

const (
	EventCancelRequested     EventName = "order.request_cancel"
	EventCancelCompleted     EventName = "order.cancel_complete"
	EventCancelCompletedShop EventName = "order.cancel_complete_shop"
	EventCanceled            EventName = "order.canceled"
	EventShipmentCompleted   EventName = "order.shipment_complete"
)

// CancelRequestedEvent 在买家/卖家提交取消申请后发出，通知客户。
type CancelRequestedEvent struct {
	EventID    string     `json:"eventId"`
	OrderID    string     `json:"orderId"`
	CustomerID string     `json:"customerId"`
	Reason     string     `json:"reason"`
	CancelType CancelType `json:"cancelType"`
	At         time.Time  `json:"at"`
}

// CancelCompletedEvent 在取消 saga 提交后发给客户。
type CancelCompletedEvent struct {
	EventID    string    `json:"eventId"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	At         time.Time `json:"at"`
}

// CancelCompletedShopEvent 仅对店铺子订单发出，通知店铺侧。
type CancelCompletedShopEvent struct {
	EventID string    `json:"eventId"`
	OrderID string    `json:"orderId"`
	StoreID string    `json:"storeId"`
	At      time.Time `json:"at"`
}

// CanceledEvent 是面向横切订阅方（如积分退还）的通用取消事件。
type CanceledEvent struct {
	EventID    string    `json:"eventId"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	StoreID    string    `json:"storeId"`
	IsSubOrder bool      `json:"isSubOrder"`
	At         time.Time `json:"at"`
}

// ShipmentCompletedEvent 在整单发货后发出。
type ShipmentCompletedEvent struct {
	EventID    string    `json:"eventId"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	StoreID    string    `json:"storeId"`
	ShippedAt  time.Time `json:"shippedAt"`
}
