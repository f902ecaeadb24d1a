package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tableserve/restaurant-system/controllers"
	"github.com/tableserve/restaurant-system/events"
	"github.com/tableserve/restaurant-system/models"
	"github.com/tableserve/restaurant-system/services"
	"github.com/tableserve/restaurant-system/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

// testEnv is a full controller stack on an in-memory database, with the
// auth middlewares replaced by a stub that injects userID/role directly.
type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	userID uint
	role   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
	))

	hub := events.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)

	env := &testEnv{db: db, userID: 1, role: "staff"}

	orderService := services.NewOrderService(db, hub)
	orderCtrl := controllers.NewOrderController(orderService)
	menuCtrl := controllers.NewMenuController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	tableCtrl := controllers.NewTableController(db)
	userCtrl := controllers.NewUserController(db)

	auth := func(c *gin.Context) {
		c.Set("user_id", env.userID)
		c.Set("role", env.role)
	}

	r := gin.New()
	r.POST("/register", userCtrl.Register)
	r.POST("/login", userCtrl.Login)
	r.GET("/profile", auth, userCtrl.GetProfile)
	r.GET("/users", auth, userCtrl.GetAllUsers)

	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.POST("/categories", categoryCtrl.CreateCategory)
	r.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	r.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

	r.GET("/menus", menuCtrl.GetAllMenuItems)
	r.GET("/menus/by-category", menuCtrl.GetMenuItemsByCategory)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuItemByID)
	r.POST("/menus", menuCtrl.CreateMenuItem)
	r.PATCH("/menus/:menu_id", menuCtrl.UpdateMenuItem)
	r.PATCH("/menus/:menu_id/availability", menuCtrl.ToggleAvailability)
	r.DELETE("/menus/:menu_id", menuCtrl.DeleteMenuItem)

	r.GET("/tables", tableCtrl.GetAllTables)
	r.POST("/tables", tableCtrl.CreateTable)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	r.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	r.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
	r.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/orders/kitchen", orderCtrl.GetKitchenOrders)
	r.GET("/orders/my-orders", auth, orderCtrl.GetMyOrders)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	r.PATCH("/orders/:order_id/items/:item_id", orderCtrl.UpdateOrderItemStatus)
	r.PATCH("/orders/:order_id/payment", orderCtrl.UpdateOrderPayment)

	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// seedCatalog creates a category with two dishes and one free table.
func (e *testEnv) seedCatalog(t *testing.T) (models.MenuItem, models.MenuItem, models.Table) {
	t.Helper()
	category := models.MenuCategory{Name: "Mains", IsActive: true}
	require.NoError(t, e.db.Create(&category).Error)
	burger := models.MenuItem{CategoryID: category.ID, Name: "Burger", PriceCents: 1000, IsAvailable: true}
	pizza := models.MenuItem{CategoryID: category.ID, Name: "Pizza", PriceCents: 1550, IsAvailable: true}
	require.NoError(t, e.db.Create(&burger).Error)
	require.NoError(t, e.db.Create(&pizza).Error)
	table := models.Table{TableNumber: "A1", Capacity: 4, Status: models.TableStatusAvailable}
	require.NoError(t, e.db.Create(&table).Error)
	return burger, pizza, table
}
