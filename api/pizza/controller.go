package pizza

import (
	"net/http"

	"pizzeria/api/response"
	pizzaapp "pizzeria/application/pizza"

	"github.com/gin-gonic/gin"
)

// Controller 菜单控制器
type Controller struct {
	pizzaService *pizzaapp.ApplicationService
}

func NewController(pizzaService *pizzaapp.ApplicationService) *Controller {
	return &Controller{pizzaService: pizzaService}
}

// RegisterRoutes 注册菜单路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	pizzaGroup := router.Group("/pizzas")
	{
		pizzaGroup.GET("", c.ListAvailable)
		pizzaGroup.POST("", c.CreatePizza)
		pizzaGroup.GET("/search", c.Search)
		pizzaGroup.GET("/:id", c.GetPizza)
		pizzaGroup.PUT("/:id", c.UpdatePizza)
		pizzaGroup.DELETE("/:id", c.DeletePizza)
	}
}

func (c *Controller) CreatePizza(ctx *gin.Context) {
	var req pizzaapp.PizzaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	pizza, err := c.pizzaService.CreatePizza(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, pizza, "pizza created successfully")
}

func (c *Controller) GetPizza(ctx *gin.Context) {
	pizza, err := c.pizzaService.GetPizza(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, pizza, "pizza retrieved successfully")
}

// ListAvailable 只返回可售的披萨
func (c *Controller) ListAvailable(ctx *gin.Context) {
	pizzas, err := c.pizzaService.ListAvailablePizzas(ctx.Request.Context())
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, pizzas, "pizzas retrieved successfully")
}

// Search GET /api/v1/pizzas/search?name=
func (c *Controller) Search(ctx *gin.Context) {
	name := ctx.Query("name")
	if name == "" {
		response.HandleError(ctx, nil, "query parameter name is required", http.StatusBadRequest)
		return
	}

	pizzas, err := c.pizzaService.SearchPizzas(ctx.Request.Context(), name)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, pizzas, "pizzas retrieved successfully")
}

func (c *Controller) UpdatePizza(ctx *gin.Context) {
	var req pizzaapp.PizzaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	pizza, err := c.pizzaService.UpdatePizza(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, pizza, "pizza updated successfully")
}

func (c *Controller) DeletePizza(ctx *gin.Context) {
	if err := c.pizzaService.DeletePizza(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}
