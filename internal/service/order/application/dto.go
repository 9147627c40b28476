// internal/service/order/application/dto.go
package application

// Actor 是调用方身份，由接口层从会话解析后传入。
// 核心只做归属判断，不关心身份是如何认证的。
type Actor struct {
	CustomerID string
	StoreID    string
	Admin      bool
}

// OwnsStore 判断调用方是否代表某店铺
func (a Actor) OwnsStore(storeID string) bool {
	return a.Admin || (a.StoreID != "" && a.StoreID == storeID)
}

// OwnsCustomer 判断调用方是否为某客户本人
func (a Actor) OwnsCustomer(customerID string) bool {
	return a.Admin || (a.CustomerID != "" && a.CustomerID == customerID)
}

// RequestCancelCommand 是取消申请的入参
type RequestCancelCommand struct {
	OrderID    string
	Reason     string
	CancelType string
}
