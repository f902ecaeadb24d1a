package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tableserve/restaurant-system/services"
	"github.com/tableserve/restaurant-system/utils"
)

type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{Service: service}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, &CustomError{"invalid " + param})
		return 0, false
	}
	return uint(id), true
}

// CreateOrder -> POST /orders, builds an order from cart contents
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type itemReq struct {
		MenuItemID          uint                   `json:"menu_item_id" binding:"required"`
		Quantity            int                    `json:"quantity" binding:"required"`
		Customizations      map[string]interface{} `json:"customizations"`
		SpecialInstructions string                 `json:"special_instructions"`
	}
	var body struct {
		OrderType           string    `json:"order_type" binding:"required"`
		TableID             *uint     `json:"table_id"`
		CustomerID          *uint     `json:"customer_id"`
		CustomerName        string    `json:"customer_name"`
		CustomerPhone       string    `json:"customer_phone"`
		SpecialInstructions string    `json:"special_instructions"`
		Items               []itemReq `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	input := services.CreateOrderInput{
		OrderType:           body.OrderType,
		TableID:             body.TableID,
		CustomerID:          body.CustomerID,
		CustomerName:        body.CustomerName,
		CustomerPhone:       body.CustomerPhone,
		SpecialInstructions: body.SpecialInstructions,
	}
	for _, item := range body.Items {
		input.Items = append(input.Items, services.CreateOrderItemInput{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			Customizations:      item.Customizations,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	order, err := oc.Service.Create(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> GET /orders?status=&order_type=&customer_id=
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	filters := services.OrderFilters{
		Status:    c.Query("status"),
		OrderType: c.Query("order_type"),
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, &CustomError{"invalid customer_id"})
			return
		}
		customerID := uint(id)
		filters.CustomerID = &customerID
	}

	orders, err := oc.Service.FindAll(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetKitchenOrders -> GET /orders/kitchen, active queue oldest-first
func (oc *OrderController) GetKitchenOrders(c *gin.Context) {
	orders, err := oc.Service.KitchenOrders()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen orders", orders)
}

// GetMyOrders -> GET /orders/my-orders, customer id from the token
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, &CustomError{"user id not found in context"})
		return
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, &CustomError{"invalid user id type"})
		return
	}

	orders, err := oc.Service.OrdersForCustomer(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My orders", orders)
}

// GetOrderByID -> GET /orders/:order_id with items, table and customer info
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Service.FindOne(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> PATCH /orders/:order_id/status
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.UpdateStatus(id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// UpdateOrderItemStatus -> PATCH /orders/:order_id/items/:item_id
func (oc *OrderController) UpdateOrderItemStatus(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := oc.Service.UpdateItemStatus(orderID, itemID, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order item updated", item)
}

// UpdateOrderPayment -> PATCH /orders/:order_id/payment
func (oc *OrderController) UpdateOrderPayment(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		PaymentStatus       string  `json:"payment_status" binding:"required"`
		PaymentMethod       *string `json:"payment_method"`
		TipCents            *int64  `json:"tip_cents"`
		AmountReceivedCents *int64  `json:"amount_received_cents"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.UpdatePayment(id, services.PaymentUpdateInput{
		PaymentStatus:       body.PaymentStatus,
		PaymentMethod:       body.PaymentMethod,
		TipCents:            body.TipCents,
		AmountReceivedCents: body.AmountReceivedCents,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order payment updated", order)
}
