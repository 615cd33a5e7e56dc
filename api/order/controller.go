/*
Package order - 订单 API 控制器

错误处理原则:
1. 参数绑定错误: 使用 response.HandleError 直接返回 400
2. 业务错误: 使用 response.HandleAppError 自动映射状态码
*/
package order

import (
	"context"
	"net/http"
	"time"

	"pizzeria/api/response"
	orderapp "pizzeria/application/order"

	"github.com/gin-gonic/gin"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
}

// NewController 创建订单控制器
func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{orderService: orderService}
}

// RegisterRoutes 注册订单路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.GET("", c.ListOrders)
		orderGroup.POST("", c.CreateOrder)
		orderGroup.GET("/:id", c.GetOrder)
		orderGroup.DELETE("/:id", c.DeleteOrder)
		orderGroup.GET("/customer/:customerId", c.ListByCustomer)
		orderGroup.GET("/status/:status", c.ListByStatus)
		orderGroup.GET("/search/date-range", c.ListByDateRange)

		orderGroup.PUT("/:id/confirm", c.transition(c.orderService.ConfirmOrder, "order confirmed"))
		orderGroup.PUT("/:id/start-preparing", c.transition(c.orderService.StartPreparing, "order preparation started"))
		orderGroup.PUT("/:id/mark-ready", c.transition(c.orderService.MarkReady, "order ready"))
		orderGroup.PUT("/:id/mark-in-delivery", c.transition(c.orderService.MarkInDelivery, "order out for delivery"))
		orderGroup.PUT("/:id/mark-delivered", c.transition(c.orderService.MarkDelivered, "order delivered"))
		orderGroup.PUT("/:id/cancel", c.CancelOrder)

		orderGroup.POST("/:id/items", c.AddItem)
		orderGroup.DELETE("/:id/items/:itemId", c.RemoveItem)
	}
}

// CreateOrder 创建订单
// POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	order, err := c.orderService.CreateOrder(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, order, "order created successfully")
}

// GetOrder 获取订单信息
// GET /api/v1/orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.orderService.GetOrder(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "order retrieved successfully")
}

// ListOrders GET /api/v1/orders
func (c *Controller) ListOrders(ctx *gin.Context) {
	orders, err := c.orderService.ListOrders(ctx.Request.Context())
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "orders retrieved successfully")
}

// ListByCustomer GET /api/v1/orders/customer/:customerId
func (c *Controller) ListByCustomer(ctx *gin.Context) {
	orders, err := c.orderService.ListOrdersByCustomer(ctx.Request.Context(), ctx.Param("customerId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "customer orders retrieved successfully")
}

// ListByStatus GET /api/v1/orders/status/:status
func (c *Controller) ListByStatus(ctx *gin.Context) {
	orders, err := c.orderService.ListOrdersByStatus(ctx.Request.Context(), ctx.Param("status"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "orders retrieved successfully")
}

// DateRangeQuery 时间格式为 RFC3339
type DateRangeQuery struct {
	Start time.Time `form:"start" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
	End   time.Time `form:"end" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
}

// ListByDateRange GET /api/v1/orders/search/date-range?start=&end=
func (c *Controller) ListByDateRange(ctx *gin.Context) {
	var q DateRangeQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.HandleError(ctx, err, "start and end must be RFC3339 timestamps", http.StatusBadRequest)
		return
	}

	orders, err := c.orderService.ListOrdersByDateRange(ctx.Request.Context(), q.Start, q.End)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "orders retrieved successfully")
}

// transition 生成无请求体的状态流转处理函数
func (c *Controller) transition(apply func(context.Context, string) (*orderapp.OrderResponse, error), message string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		order, err := apply(ctx.Request.Context(), ctx.Param("id"))
		if err != nil {
			response.HandleAppError(ctx, err)
			return
		}
		response.HandleSuccess(ctx, order, message)
	}
}

// CancelOrder PUT /api/v1/orders/:id/cancel, body optional: {"reason": "..."}
func (c *Controller) CancelOrder(ctx *gin.Context) {
	var req orderapp.ChangeStatusRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
			return
		}
	}

	order, err := c.orderService.CancelOrder(ctx.Request.Context(), ctx.Param("id"), req.Reason)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "order cancelled")
}

// AddItem POST /api/v1/orders/:id/items
func (c *Controller) AddItem(ctx *gin.Context) {
	var req orderapp.AddOrderItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	order, err := c.orderService.AddOrderItem(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "item added")
}

// RemoveItem DELETE /api/v1/orders/:id/items/:itemId
func (c *Controller) RemoveItem(ctx *gin.Context) {
	order, err := c.orderService.RemoveOrderItem(ctx.Request.Context(), ctx.Param("id"), ctx.Param("itemId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "item removed")
}

// DeleteOrder DELETE /api/v1/orders/:id
func (c *Controller) DeleteOrder(ctx *gin.Context) {
	if err := c.orderService.DeleteOrder(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}
