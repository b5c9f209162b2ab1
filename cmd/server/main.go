package main

import (
	"log"
	"os"
	"time"

	"go-pos-backoffice/internal/handlers"
	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func connect() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "pos:pos@tcp(127.0.0.1:3306)/pos?charset=utf8mb4&parseTime=True&loc=Local"
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			return db
		}
		log.Printf("database connection attempt %d failed: %v", attempt, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	log.Fatal("could not connect to database: ", err)
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	db := connect()
	s := store.New(db, store.WithLegacyOwnerKeys(os.Getenv("DISABLE_LEGACY_KEYS") != "true"))
	if err := s.Migrate(); err != nil {
		log.Fatal("migration failed: ", err)
	}

	h := handlers.New(s)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", h.Login)
	r.POST("/recovery/find-business", h.FindBusiness)
	r.POST("/recovery/reset-pin", h.ResetPIN)

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", h.Register)
		log.Println("WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("Registration route is disabled.")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/profile", h.GetProfile)
		api.PUT("/profile/business", h.UpdateBusinessInfo)
		api.PUT("/profile/pin", h.ChangePIN)
		api.GET("/profile/theme", h.GetTheme)
		api.PUT("/profile/theme", h.UpdateTheme)
		api.PUT("/profile/recovery", h.UpdateRecoveryContact)
		api.DELETE("/profile", h.DeleteAccount)

		api.GET("/menu", h.ListMenuItems)
		api.POST("/menu", h.CreateMenuItem)
		api.GET("/menu/:id", h.GetMenuItem)
		api.PUT("/menu/:id", h.UpdateMenuItem)
		api.DELETE("/menu/:id", h.DeleteMenuItem)
		api.POST("/menu/deduplicate", h.RemoveDuplicateMenuItems)

		api.GET("/categories", h.ListCategories)
		api.POST("/categories", h.AddCategory)
		api.PUT("/categories/:name", h.RenameCategory)
		api.DELETE("/categories/:name", h.DeleteCategory)

		api.GET("/customers/search", h.SearchCustomers)
		api.GET("/customers/lookup", h.FindCustomerByContact)
		api.GET("/customers/marketing", h.MarketingAudience)
		api.POST("/customers/sync", h.SyncCustomers)
		api.POST("/customers", h.CreateCustomer)
		api.GET("/customers/:id", h.GetCustomer)
		api.GET("/customers/:id/summary", h.CustomerSummary)
		api.PUT("/customers/:id", h.UpdateCustomer)
		api.DELETE("/customers/:id", h.DeactivateCustomer)

		api.POST("/transactions", h.CreateTransaction)
		api.GET("/transactions", h.ListTransactions)
		api.GET("/transactions/summary", h.SalesSummary)
		api.GET("/transactions/daily", h.DailySummary)
		api.GET("/transactions/:id", h.GetTransaction)
		api.GET("/transactions/:id/receipt", h.TransactionReceipt)

		api.POST("/quotations", h.CreateQuotation)
		api.GET("/quotations", h.ListQuotations)
		api.GET("/quotations/number/:number", h.GetQuotationByNumber)
		api.GET("/quotations/:id", h.GetQuotation)
		api.PUT("/quotations/:id", h.UpdateQuotation)
		api.PUT("/quotations/:id/status", h.UpdateQuotationStatus)
		api.POST("/quotations/:id/convert", h.ConvertQuotation)
		api.DELETE("/quotations/:id", h.DeleteQuotation)

		api.POST("/documents", h.CreateDocument)
		api.GET("/documents", h.ListDocuments)
		api.GET("/documents/number/:number", h.GetDocumentByNumber)
		api.GET("/documents/:id", h.GetDocument)
		api.PUT("/documents/:id", h.UpdateDocument)
		api.PUT("/documents/:id/status", h.UpdateDocumentStatus)
		api.POST("/documents/:id/payments", h.RecordPayment)
		api.DELETE("/documents/:id", h.DeleteDocument)

		api.GET("/export/sales.xlsx", h.ExportSalesExcel)
		api.GET("/export/customers.xlsx", h.ExportCustomersExcel)
		api.GET("/export/all", h.ExportAllData)

		api.POST("/admin/migrate-legacy-keys", h.MigrateLegacyKeys)

		api.POST("/ask", h.AskAI)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Server starting on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
