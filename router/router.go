package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tableserve/restaurant-system/controllers"
	"github.com/tableserve/restaurant-system/events"
	"github.com/tableserve/restaurant-system/middlewares"
	"github.com/tableserve/restaurant-system/services"
)

func SetupRouter(db *gorm.DB, hub *events.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Must be registered before any route: gin snapshots the handler
	// chain at registration time.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	orderService := services.NewOrderService(db, hub)

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(orderService)
	eventsCtrl := controllers.NewEventsController(hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Customer-facing reads and checkout need no login.
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenuItems)
	r.GET("/menus/by-category", menuCtrl.GetMenuItemsByCategory)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuItemByID)
	r.GET("/tables", tableCtrl.GetAllTables)

	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// Event stream; one socket per view, every client sees every event.
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("", eventsCtrl.Stream)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)

	auth.GET("/orders/my-orders", orderCtrl.GetMyOrders)

	staff := auth.Group("/")
	staff.Use(middlewares.RequireRoles("staff", "chef", "cashier"))
	{
		staff.GET("/orders", orderCtrl.GetAllOrders)
		staff.GET("/orders/kitchen", orderCtrl.GetKitchenOrders)
		staff.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		staff.PATCH("/orders/:order_id/items/:item_id", orderCtrl.UpdateOrderItemStatus)
		staff.PATCH("/orders/:order_id/payment", orderCtrl.UpdateOrderPayment)
	}

	manage := auth.Group("/")
	manage.Use(middlewares.RequireRoles("staff"))
	{
		manage.POST("/categories", categoryCtrl.CreateCategory)
		manage.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		manage.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		manage.POST("/menus", menuCtrl.CreateMenuItem)
		manage.PATCH("/menus/:menu_id", menuCtrl.UpdateMenuItem)
		manage.PATCH("/menus/:menu_id/availability", menuCtrl.ToggleAvailability)
		manage.DELETE("/menus/:menu_id", menuCtrl.DeleteMenuItem)

		manage.POST("/tables", tableCtrl.CreateTable)
		manage.GET("/tables/:table_id", tableCtrl.GetTableByID)
		manage.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
		manage.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
		manage.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	}

	return r
}
