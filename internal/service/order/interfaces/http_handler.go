// internal/service/order/interfaces/http_handler.go
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/application"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

const serviceName = "order-service"

// OrderHandler 封装了订单服务的 HTTP 处理器。
// 身份从网关注入的请求头解析，核心逻辑全部在 application 层。
type OrderHandler struct {
	cancelRequest *application.CancelRequestService
	cancellation  *application.CancellationSaga
	settlement    *application.SettlementService
	billing       *application.BillingService
}

// NewOrderHandler 创建一个新的 HTTP 处理器实例
func NewOrderHandler(
	cancelRequest *application.CancelRequestService,
	cancellation *application.CancellationSaga,
	settlement *application.SettlementService,
	billing *application.BillingService,
) *OrderHandler {
	return &OrderHandler{
		cancelRequest: cancelRequest,
		cancellation:  cancellation,
		settlement:    settlement,
		billing:       billing,
	}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/request_cancel", h.requestCancelHandler)
	mux.HandleFunc("/close_cancel_request", h.closeCancelRequestHandler)
	mux.HandleFunc("/cancel_order", h.cancelOrderHandler)
	mux.HandleFunc("/mark_shipped", h.markShippedHandler)
	mux.HandleFunc("/capture_price", h.capturePriceHandler)
	mux.HandleFunc("/clear_price_snapshot", h.clearPriceSnapshotHandler)
	mux.HandleFunc("/store_billing", h.storeBillingHandler)
}

// actorFromRequest 从网关注入的请求头解析调用方身份
func actorFromRequest(r *http.Request) application.Actor {
	return application.Actor{
		CustomerID: r.Header.Get("X-Customer-Id"),
		StoreID:    r.Header.Get("X-Store-Id"),
		Admin:      r.Header.Get("X-Admin") == "true",
	}
}

func (h *OrderHandler) requestCancelHandler(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	tracer := otel.Tracer(serviceName)
	ctx, span := tracer.Start(ctx, "http.RequestCancel")
	defer span.End()

	orderID := r.URL.Query().Get("orderId")
	span.SetAttributes(attribute.String("order.id", orderID))

	err := h.cancelRequest.RequestCancel(ctx, actorFromRequest(r), application.RequestCancelCommand{
		OrderID:    orderID,
		Reason:     r.URL.Query().Get("reason"),
		CancelType: r.URL.Query().Get("cancel_type"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, map[string]string{"order_id": orderID, "status": "cancel_requested"})
}

func (h *OrderHandler) closeCancelRequestHandler(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	tracer := otel.Tracer(serviceName)
	ctx, span := tracer.Start(ctx, "http.CloseCancelRequest")
	defer span.End()

	orderID := r.URL.Query().Get("orderId")
	if err := h.cancelRequest.CloseCancelRequest(ctx, orderID); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, map[string]string{"order_id": orderID, "status": "pending"})
}

func (h *OrderHandler) cancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	tracer := otel.Tracer(serviceName)
	ctx, span := tracer.Start(ctx, "http.CancelOrder")
	defer span.End()

	orderID := r.URL.Query().Get("orderId")
	span.SetAttributes(attribute.String("order.id", orderID))

	if err := h.cancellation.Cancel(ctx, actorFromRequest(r), orderID); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, map[string]string{"order_id": orderID, "status": "canceled"})
}

func (h *OrderHandler) markShippedHandler(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	tracer := otel.Tracer(serviceName)
	ctx, span := tracer.Start(ctx, "http.MarkShipped")
	defer span.End()

	orderID := r.URL.Query().Get("orderId")
	if err := h.cancelRequest.MarkShipped(ctx, actorFromRequest(r), orderID); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, map[string]string{"order_id": orderID, "fulfillment_status": "shipped"})
}

func (h *OrderHandler) capturePriceHandler(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	tracer := otel.Tracer(serviceName)
	ctx, span := tracer.Start(ctx, "http.CapturePrice")
	defer span.End()

	snapshot, err := h.settlement.CapturePriceByID(ctx, r.URL.Query().Get("orderId"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, snapshot)
}

func (h *OrderHandler) clearPriceSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	tracer := otel.Tracer(serviceName)
	ctx, span := tracer.Start(ctx, "http.ClearPriceSnapshot")
	defer span.End()

	orderID := r.URL.Query().Get("orderId")
	if err := h.settlement.ClearSnapshot(ctx, orderID); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, map[string]string{"order_id": orderID, "snapshot": "cleared"})
}

// storeBillingHandler 聚合店铺月账单。
// year/month 缺省取上一个自然月。
func (h *OrderHandler) storeBillingHandler(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	tracer := otel.Tracer(serviceName)
	ctx, span := tracer.Start(ctx, "http.StoreBilling")
	defer span.End()

	storeID := r.URL.Query().Get("storeId")
	span.SetAttributes(attribute.String("store.id", storeID))

	actor := actorFromRequest(r)
	if !actor.OwnsStore(storeID) {
		writeError(ctx, w, domain.NotAllowed("actor does not own store %s", storeID))
		return
	}

	var start, end time.Time
	if p := r.URL.Query().Get("period_start"); p != "" {
		var err error
		if start, err = time.Parse(time.RFC3339, p); err != nil {
			writeError(ctx, w, domain.InvalidData("invalid period_start %q", p))
			return
		}
		if end, err = time.Parse(time.RFC3339, r.URL.Query().Get("period_end")); err != nil {
			writeError(ctx, w, domain.InvalidData("invalid period_end %q", r.URL.Query().Get("period_end")))
			return
		}
	} else {
		prev := time.Now().AddDate(0, -1, 0)
		start, end = application.MonthlyPeriod(prev.Year(), prev.Month(), time.Local)
	}

	summary, err := h.billing.AggregateBilling(ctx, storeID, start, end)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, summary)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError 把领域错误映射到 HTTP 状态码
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotAllowed):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidData):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logger.Ctx(ctx).Error().Err(err).Msg("request failed")
	}
	http.Error(w, err.Error(), status)
}
