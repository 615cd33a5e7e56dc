package pizza

import "time"

// PizzaRequest 创建与更新菜单共用的入参。价格为十进制字符串，例如 "45.90"。
type PizzaRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Size        string `json:"size" binding:"required"`
	Available   *bool  `json:"available"`
}

type PizzaResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	Size        string    `json:"size"`
	SizeCM      int       `json:"size_cm"`
	Available   bool      `json:"available"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
