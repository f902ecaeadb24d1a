package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tableserve/restaurant-system/events"
	"github.com/tableserve/restaurant-system/models"
	"github.com/tableserve/restaurant-system/utils"
)

// orderNumberRetries bounds how often a creation is retried after an
// order-number collision before it surfaces as a conflict.
const orderNumberRetries = 3

// OrderService is the order lifecycle engine: it creates orders with their
// monetary totals, answers the read views, and drives the status and
// payment state machines. Every successful mutation is broadcast through
// the hub; storage writes are durable, notification is best-effort.
type OrderService struct {
	DB     *gorm.DB
	Hub    *events.Hub
	Policy TransitionPolicy
}

func NewOrderService(db *gorm.DB, hub *events.Hub) *OrderService {
	return &OrderService{DB: db, Hub: hub}
}

type CreateOrderItemInput struct {
	MenuItemID          uint
	Quantity            int
	Customizations      map[string]interface{}
	SpecialInstructions string
}

type CreateOrderInput struct {
	OrderType           string
	TableID             *uint
	CustomerID          *uint
	CustomerName        string
	CustomerPhone       string
	SpecialInstructions string
	Items               []CreateOrderItemInput
}

// Create validates the cart, snapshots current menu prices, computes the
// totals and persists order + items as one transaction. The order comes
// back in PENDING/PENDING state and a new_order event is emitted.
func (s *OrderService) Create(in CreateOrderInput) (*models.Order, error) {
	if !models.ValidOrderType(in.OrderType) {
		return nil, &ValidationError{Message: "invalid order type: " + in.OrderType}
	}
	if len(in.Items) == 0 {
		return nil, &ValidationError{Message: "order must contain at least one item"}
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("quantity for menu item %d must be positive", item.MenuItemID)}
		}
	}

	var (
		order *models.Order
		err   error
	)
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		order, err = s.createOnce(in)
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "could not allocate a unique order number"}
		}
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s created (%s, total %s)",
		order.OrderNumber, order.OrderType, utils.FormatCents(order.TotalCents))
	s.Hub.NotifyNewOrder(order)
	return order, nil
}

func (s *OrderService) createOnce(in CreateOrderInput) (*models.Order, error) {
	var orderID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var table *models.Table
		if in.TableID != nil {
			table = &models.Table{}
			if err := tx.First(table, *in.TableID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "table", ID: fmt.Sprint(*in.TableID)}
				}
				return err
			}
		}

		var subtotal int64
		items := make([]models.OrderItem, 0, len(in.Items))
		for _, item := range in.Items {
			var menuItem models.MenuItem
			if err := tx.First(&menuItem, item.MenuItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "menu item", ID: fmt.Sprint(item.MenuItemID)}
				}
				return err
			}
			if !menuItem.IsAvailable {
				return &ValidationError{Message: fmt.Sprintf("menu item %q is not available", menuItem.Name)}
			}

			subtotal += menuItem.PriceCents * int64(item.Quantity)

			customizations := ""
			if len(item.Customizations) > 0 {
				raw, err := json.Marshal(item.Customizations)
				if err != nil {
					return &ValidationError{Message: "customizations payload is not serializable"}
				}
				customizations = string(raw)
			}
			items = append(items, models.OrderItem{
				MenuItemID:          menuItem.ID,
				Quantity:            item.Quantity,
				UnitPriceCents:      menuItem.PriceCents, // snapshot, survives later price edits
				Customizations:      customizations,
				SpecialInstructions: item.SpecialInstructions,
				Status:              models.ItemStatusPending,
			})
		}

		orderNumber, err := nextOrderNumber(tx)
		if err != nil {
			return err
		}
		tax := utils.TaxCents(subtotal)

		order := models.Order{
			OrderNumber:         orderNumber,
			OrderType:           in.OrderType,
			TableID:             in.TableID,
			CustomerID:          in.CustomerID,
			CustomerName:        in.CustomerName,
			CustomerPhone:       in.CustomerPhone,
			Status:              models.OrderStatusPending,
			PaymentStatus:       models.PaymentStatusPending,
			SubtotalCents:       subtotal,
			TaxCents:            tax,
			TotalCents:          utils.OrderTotalCents(subtotal, tax, 0, 0),
			SpecialInstructions: in.SpecialInstructions,
			OrderItems:          items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		orderID = order.ID

		if table != nil && in.OrderType == models.OrderTypeDineIn && table.Status == models.TableStatusAvailable {
			table.Status = models.TableStatusOccupied
			if err := tx.Save(table).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindOne(orderID)
}

// nextOrderNumber allocates the next sequence value from the counter row.
// The row lock serialises concurrent creations for the rest of the
// transaction. SQLite has no FOR UPDATE; its single-writer lock gives the
// same serialisation.
func nextOrderNumber(tx *gorm.DB) (string, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var counter models.OrderCounter
	if err := q.FirstOrCreate(&counter, models.OrderCounter{ID: 1}).Error; err != nil {
		return "", err
	}
	counter.LastValue++
	if err := tx.Save(&counter).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%04d", counter.LastValue), nil
}

type OrderFilters struct {
	Status     string
	OrderType  string
	CustomerID *uint
}

func (s *OrderService) preloaded() *gorm.DB {
	return s.DB.
		Preload("OrderItems").
		Preload("OrderItems.MenuItem").
		Preload("Table")
}

// FindAll lists orders newest-first for management views. Filter values
// outside the enums are rejected rather than matched against nothing.
func (s *OrderService) FindAll(filters OrderFilters) ([]models.Order, error) {
	q := s.preloaded()
	if filters.Status != "" {
		if !models.ValidOrderStatus(filters.Status) {
			return nil, &ValidationError{Message: "invalid order status: " + filters.Status}
		}
		q = q.Where("status = ?", filters.Status)
	}
	if filters.OrderType != "" {
		if !models.ValidOrderType(filters.OrderType) {
			return nil, &ValidationError{Message: "invalid order type: " + filters.OrderType}
		}
		q = q.Where("order_type = ?", filters.OrderType)
	}
	if filters.CustomerID != nil {
		q = q.Where("customer_id = ?", *filters.CustomerID)
	}
	var orders []models.Order
	err := q.Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (s *OrderService) FindOne(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.preloaded().First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: fmt.Sprint(id)}
		}
		return nil, err
	}
	return &order, nil
}

// KitchenOrders returns the active queue oldest-first: the kitchen serves
// in arrival order, unlike the newest-first management listings.
func (s *OrderService) KitchenOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.preloaded().
		Where("status IN ?", []string{
			models.OrderStatusPending,
			models.OrderStatusConfirmed,
			models.OrderStatusPreparing,
		}).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// OrdersForCustomer lists a customer's own orders, newest first.
func (s *OrderService) OrdersForCustomer(customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.preloaded().
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// UpdateStatus drives the order status machine. COMPLETED stamps
// completed_at exactly once; leaving a dine-in table's last active order
// releases the table for cleaning.
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: fmt.Sprint(id)}
			}
			return err
		}
		if err := s.Policy.CheckOrderTransition(order.Status, status); err != nil {
			return err
		}

		order.Status = status
		if status == models.OrderStatusCompleted && order.CompletedAt == nil {
			now := time.Now()
			order.CompletedAt = &now
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if models.TerminalOrderStatus(status) && order.OrderType == models.OrderTypeDineIn && order.TableID != nil {
			return releaseTable(tx, &order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}
	s.Hub.NotifyOrderUpdate(order.ID, order.Status)
	return order, nil
}

// releaseTable moves a dine-in table to CLEANING once its last active
// order leaves the floor.
func releaseTable(tx *gorm.DB, order *models.Order) error {
	var active int64
	err := tx.Model(&models.Order{}).
		Where("table_id = ? AND id != ? AND status NOT IN ?",
			*order.TableID, order.ID,
			[]string{models.OrderStatusCompleted, models.OrderStatusCancelled}).
		Count(&active).Error
	if err != nil || active > 0 {
		return err
	}
	return tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", *order.TableID, models.TableStatusOccupied).
		Update("status", models.TableStatusCleaning).Error
}

// UpdateItemStatus moves a single item through its preparation states,
// independent of the order-level status.
func (s *OrderService) UpdateItemStatus(orderID, itemID uint, status string) (*models.OrderItem, error) {
	if !models.ValidItemStatus(status) {
		return nil, &ValidationError{Message: "invalid item status: " + status}
	}

	var item models.OrderItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Order{}, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: fmt.Sprint(orderID)}
			}
			return err
		}
		if err := tx.Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order item", ID: fmt.Sprint(itemID)}
			}
			return err
		}
		item.Status = status
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}

	s.Hub.NotifyItemUpdate(orderID, itemID, status)
	return &item, nil
}

type PaymentUpdateInput struct {
	PaymentStatus       string
	PaymentMethod       *string
	TipCents            *int64
	AmountReceivedCents *int64
}

// UpdatePayment drives the payment sub-state machine. A positive tip
// re-derives the total from subtotal/tax/discount/tip; cash payments must
// cover the full amount due; PAID stamps completed_at if unset.
func (s *OrderService) UpdatePayment(id uint, in PaymentUpdateInput) (*models.Order, error) {
	if in.PaymentMethod != nil && !models.ValidPaymentMethod(*in.PaymentMethod) {
		return nil, &ValidationError{Message: "invalid payment method: " + *in.PaymentMethod}
	}
	if in.TipCents != nil && *in.TipCents < 0 {
		return nil, &ValidationError{Message: "tip must not be negative"}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: fmt.Sprint(id)}
			}
			return err
		}
		if err := CheckPaymentTransition(order.PaymentStatus, in.PaymentStatus); err != nil {
			return err
		}

		if in.PaymentMethod != nil {
			order.PaymentMethod = in.PaymentMethod
		}
		if in.TipCents != nil && *in.TipCents > 0 {
			order.TipCents = *in.TipCents
			order.TotalCents = utils.OrderTotalCents(
				order.SubtotalCents, order.TaxCents, order.DiscountCents, order.TipCents)
		}

		if in.PaymentStatus == models.PaymentStatusPaid {
			if order.PaymentMethod != nil && *order.PaymentMethod == models.PaymentMethodCash {
				if in.AmountReceivedCents == nil {
					return &ValidationError{Message: "amount_received_cents is required for cash payments"}
				}
				if *in.AmountReceivedCents < order.TotalCents {
					return &InsufficientPaymentError{
						ReceivedCents: *in.AmountReceivedCents,
						DueCents:      order.TotalCents,
					}
				}
			}
			if order.CompletedAt == nil {
				now := time.Now()
				order.CompletedAt = &now
			}
		}

		order.PaymentStatus = in.PaymentStatus
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Order %s payment -> %s (total %s)",
		order.OrderNumber, order.PaymentStatus, utils.FormatCents(order.TotalCents))
	s.Hub.NotifyOrderUpdate(order.ID, order.Status)
	return order, nil
}
