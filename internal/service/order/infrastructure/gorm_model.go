// internal/service/order/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

// OrderModel 对应数据库中的 orders 表。
// 结算/账单快照以 JSON 列落在订单行上，应用侧通过类型化的值对象读写。
type OrderModel struct {
	ID         string  `gorm:"column:id;primaryKey;size:36"`
	ParentID   *string `gorm:"column:parent_id;size:36;index"`
	StoreID    string  `gorm:"column:store_id;size:36;index"`
	CustomerID string  `gorm:"column:customer_id;size:36;index"`

	Status            string  `gorm:"column:status;size:32;index"`
	FulfillmentStatus string  `gorm:"column:fulfillment_status;size:32"`
	PaymentStatus     string  `gorm:"column:payment_status;size:32"`
	CancelStatus      *string `gorm:"column:cancel_status;size:32"`
	CancelType        *string `gorm:"column:cancel_type;size:16"`
	CancelReason      string  `gorm:"column:cancel_reason;type:text"`

	Total         int64 `gorm:"column:total"`
	ShippingTotal int64 `gorm:"column:shipping_total"`

	MetadataPrice   *domain.SettlementSnapshot `gorm:"column:metadata_price;type:json;serializer:json"`
	MetadataBilling *domain.BillingSnapshot    `gorm:"column:metadata_billing;type:json;serializer:json"`

	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	ShippedAt  *time.Time `gorm:"column:shipped_at;index"`
	CanceledAt *time.Time `gorm:"column:canceled_at"`

	Items        []OrderItemModel   `gorm:"foreignKey:OrderID"`
	Discounts    []DiscountModel    `gorm:"many2many:order_discounts;joinForeignKey:OrderID;joinReferences:DiscountID"`
	Payments     []PaymentModel     `gorm:"foreignKey:OrderID"`
	Fulfillments []FulfillmentModel `gorm:"foreignKey:OrderID"`
	Returns      []ReturnModel      `gorm:"foreignKey:OrderID"`
	Claims       []ClaimModel       `gorm:"foreignKey:OrderID"`
	Swaps        []SwapModel        `gorm:"foreignKey:OrderID"`
	Refunds      []RefundModel      `gorm:"foreignKey:OrderID"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 对应 order_items 表
type OrderItemModel struct {
	ID        string `gorm:"column:id;primaryKey;size:36"`
	OrderID   string `gorm:"column:order_id;size:36;index"`
	VariantID string `gorm:"column:variant_id;size:36"`
	UnitPrice int64  `gorm:"column:unit_price"`
	Quantity  int    `gorm:"column:quantity"`
}

func (OrderItemModel) TableName() string { return "order_items" }

// DiscountModel 对应 discounts 表
type DiscountModel struct {
	ID               string  `gorm:"column:id;primaryKey;size:36"`
	Type             string  `gorm:"column:type;size:16"`
	RuleValue        int64   `gorm:"column:rule_value"`
	UsageCount       int     `gorm:"column:usage_count"`
	ParentDiscountID *string `gorm:"column:parent_discount_id;size:36"`
}

func (DiscountModel) TableName() string { return "discounts" }

// UserDiscountModel 对应 user_discounts 表（用户持有折扣的授予记录）
type UserDiscountModel struct {
	ID         string `gorm:"column:id;primaryKey;size:36"`
	DiscountID string `gorm:"column:discount_id;size:36;index"`
	CustomerID string `gorm:"column:customer_id;size:36;index"`
}

func (UserDiscountModel) TableName() string { return "user_discounts" }

// PaymentModel 对应 payments 表
type PaymentModel struct {
	ID         string     `gorm:"column:id;primaryKey;size:36"`
	OrderID    string     `gorm:"column:order_id;size:36;index"`
	ProviderID string     `gorm:"column:provider_id;size:64"`
	Amount     int64      `gorm:"column:amount"`
	CanceledAt *time.Time `gorm:"column:canceled_at"`
}

func (PaymentModel) TableName() string { return "payments" }

// FulfillmentModel 对应 fulfillments 表
type FulfillmentModel struct {
	ID         string     `gorm:"column:id;primaryKey;size:36"`
	OrderID    string     `gorm:"column:order_id;size:36;index"`
	CanceledAt *time.Time `gorm:"column:canceled_at"`
}

func (FulfillmentModel) TableName() string { return "fulfillments" }

// ReturnModel 对应 returns 表
type ReturnModel struct {
	ID      string `gorm:"column:id;primaryKey;size:36"`
	OrderID string `gorm:"column:order_id;size:36;index"`
	Status  string `gorm:"column:status;size:32"`
}

func (ReturnModel) TableName() string { return "returns" }

// ClaimModel 对应 claims 表
type ClaimModel struct {
	ID         string     `gorm:"column:id;primaryKey;size:36"`
	OrderID    string     `gorm:"column:order_id;size:36;index"`
	CanceledAt *time.Time `gorm:"column:canceled_at"`
}

func (ClaimModel) TableName() string { return "claims" }

// SwapModel 对应 swaps 表
type SwapModel struct {
	ID         string     `gorm:"column:id;primaryKey;size:36"`
	OrderID    string     `gorm:"column:order_id;size:36;index"`
	CanceledAt *time.Time `gorm:"column:canceled_at"`
}

func (SwapModel) TableName() string { return "swaps" }

// RefundModel 对应 refunds 表
type RefundModel struct {
	ID      string `gorm:"column:id;primaryKey;size:36"`
	OrderID string `gorm:"column:order_id;size:36;index"`
	Amount  int64  `gorm:"column:amount"`
}

func (RefundModel) TableName() string { return "refunds" }

// StoreModel 对应 stores 表
type StoreModel struct {
	ID           string     `gorm:"column:id;primaryKey;size:36"`
	OwnerID      string     `gorm:"column:owner_id;size:36"`
	PlanType     string     `gorm:"column:plan_type;size:16"`
	MarginRate   *float64   `gorm:"column:margin_rate"`
	SpecRate     *float64   `gorm:"column:spec_rate"`
	SpecStartsAt *time.Time `gorm:"column:spec_starts_at"`
	SpecEndsAt   *time.Time `gorm:"column:spec_ends_at"`
}

func (StoreModel) TableName() string { return "stores" }

// VariantModel 对应 product_variants 表，库存适配器只关心库存数
type VariantModel struct {
	ID                string `gorm:"column:id;primaryKey;size:36"`
	InventoryQuantity int    `gorm:"column:inventory_quantity"`
}

func (VariantModel) TableName() string { return "product_variants" }
