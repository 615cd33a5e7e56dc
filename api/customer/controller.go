package customer

import (
	"net/http"

	"pizzeria/api/response"
	customerapp "pizzeria/application/customer"

	"github.com/gin-gonic/gin"
)

// Controller Customer controller
type Controller struct {
	customerService *customerapp.ApplicationService
}

// NewController Create customer controller
func NewController(customerService *customerapp.ApplicationService) *Controller {
	return &Controller{customerService: customerService}
}

// RegisterRoutes Register customer routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	customerGroup := router.Group("/customers")
	{
		customerGroup.POST("", c.CreateCustomer)
		customerGroup.GET("", c.ListCustomers)
		customerGroup.GET("/:id", c.GetCustomer)
		customerGroup.PUT("/:id", c.UpdateCustomer)
		customerGroup.DELETE("/:id", c.DeleteCustomer)
		customerGroup.GET("/email/:email", c.GetCustomerByEmail)
	}
}

// CreateCustomer Create customer
func (c *Controller) CreateCustomer(ctx *gin.Context) {
	var req customerapp.CustomerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	customer, err := c.customerService.CreateCustomer(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, customer, "customer created successfully")
}

// GetCustomer Get customer information
func (c *Controller) GetCustomer(ctx *gin.Context) {
	customer, err := c.customerService.GetCustomer(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, customer, "customer retrieved successfully")
}

func (c *Controller) GetCustomerByEmail(ctx *gin.Context) {
	customer, err := c.customerService.GetCustomerByEmail(ctx.Request.Context(), ctx.Param("email"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, customer, "customer retrieved successfully")
}

// ListCustomers Get all customers
func (c *Controller) ListCustomers(ctx *gin.Context) {
	customers, err := c.customerService.ListCustomers(ctx.Request.Context())
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, customers, "customers retrieved successfully")
}

// UpdateCustomer Replace customer profile
func (c *Controller) UpdateCustomer(ctx *gin.Context) {
	var req customerapp.CustomerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	customer, err := c.customerService.UpdateCustomer(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, customer, "customer updated successfully")
}

func (c *Controller) DeleteCustomer(ctx *gin.Context) {
	if err := c.customerService.DeleteCustomer(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleNoContent(ctx)
}
