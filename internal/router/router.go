package router

import (
	"time"

	"github.com/bausingcode/bausing-backend/internal/config"
	"github.com/bausingcode/bausing-backend/internal/handler"
	"github.com/bausingcode/bausing-backend/internal/infra"
	"github.com/bausingcode/bausing-backend/internal/middleware"
	"github.com/bausingcode/bausing-backend/internal/repository"
	"github.com/bausingcode/bausing-backend/internal/service"
	"github.com/bausingcode/bausing-backend/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, crmCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mpClient := infra.NewMercadoPagoClient(cfg)
	storage := infra.NewStorageClient(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	localityRepo := repository.NewLocalityRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	homepageRepo := repository.NewHomepageRepository(db)
	_ = repository.NewUserRepository(db)
	adminUserRepo := repository.NewAdminUserRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(adminUserRepo, cfg)
	pricingSvc := service.NewPricingService(pricingRepo, productRepo, localityRepo)
	catalogSvc := service.NewCatalogService(categoryRepo, productRepo)
	productSvc := service.NewProductService(productRepo, pricingSvc)
	walletSvc := service.NewWalletService(walletRepo, cfg.WalletExpirationDays)
	localitySvc := service.NewLocalityService(localityRepo)
	homepageSvc := service.NewHomepageService(homepageRepo, productRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	orderSvc := service.NewOrderService(orderRepo, productRepo, walletRepo, localityRepo, pricingSvc, mpClient, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	adminUsersH := handler.NewAdminUsersHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(catalogSvc)
	productsH := handler.NewProductsHandler(productSvc, catalogSvc)
	catalogsH := handler.NewCatalogsHandler(pricingSvc)
	localitiesH := handler.NewLocalitiesHandler(localitySvc)
	walletH := handler.NewWalletHandler(walletSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	webhooksH := handler.NewWebhooksHandler(orderSvc)
	homepageH := handler.NewHomepageHandler(homepageSvc)
	imagesH := handler.NewImagesHandler(storage, productSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, crmCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Storefront — no auth required
	r.GET("/v1/categories", categoriesH.Tree)
	r.GET("/v1/categories/:id/tree", categoriesH.Subtree)
	r.GET("/v1/products", productsH.List)
	r.GET("/v1/products/:id", productsH.Get)
	r.GET("/v1/prices/resolve", catalogsH.ResolvePrice)
	r.GET("/v1/provinces", localitiesH.ListProvinces)
	r.GET("/v1/localities", localitiesH.ListLocalities)
	r.GET("/v1/homepage", homepageH.Get)
	r.POST("/v1/addresses", localitiesH.CreateAddress)
	r.POST("/v1/orders/checkout", ordersH.Checkout)
	r.GET("/v1/orders/:id", ordersH.Get)

	// Payment gateway callback
	r.POST("/v1/webhooks/mercadopago", webhooksH.MercadoPago)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: editor, admin — editors manage content, admins everything
		staff := middleware.RequireRole("admin", "editor")
		adminOnly := middleware.RequireRole("admin")

		categories := v1.Group("/categories", staff)
		{
			categories.POST("", categoriesH.Create)
			categories.GET("/:id", categoriesH.Get)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
			categories.POST("/:id/options", categoriesH.CreateOption)
		}
		v1.DELETE("/category-options/:id", staff, categoriesH.DeleteOption)

		products := v1.Group("/products", staff)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
			products.POST("/:id/variants", productsH.AddVariant)
			products.POST("/:id/subcategories", productsH.AssignSubcategories)
			products.GET("/:id/subcategories", productsH.ListSubcategories)
			products.POST("/:id/images", imagesH.Upload)
		}
		v1.DELETE("/variants/:id", staff, productsH.DeleteVariant)
		v1.POST("/variants/:id/options", staff, productsH.AddVariantOption)
		v1.DELETE("/variant-options/:id", staff, productsH.DeleteVariantOption)
		v1.PATCH("/variant-options/:id/stock", staff, productsH.AdjustStock)
		v1.GET("/variant-options/:id/prices", staff, catalogsH.ListOptionPrices)

		catalogs := v1.Group("/catalogs", staff)
		{
			catalogs.POST("", catalogsH.Create)
			catalogs.GET("", catalogsH.List)
			catalogs.PUT("/:id", catalogsH.Update)
			catalogs.DELETE("/:id", catalogsH.Delete)
			catalogs.POST("/:id/localities", catalogsH.LinkLocality)
			catalogs.DELETE("/:id/localities/:locality_id", catalogsH.UnlinkLocality)
		}
		v1.PUT("/prices", staff, catalogsH.SetPrice)

		geo := v1.Group("", adminOnly)
		{
			geo.POST("/provinces", localitiesH.CreateProvince)
			geo.DELETE("/provinces/:id", localitiesH.DeleteProvince)
			geo.POST("/localities", localitiesH.CreateLocality)
			geo.DELETE("/localities/:id", localitiesH.DeleteLocality)
		}

		wallet := v1.Group("/users/:id/wallet", adminOnly)
		{
			wallet.POST("/movements", walletH.RecordMovement)
			wallet.GET("/movements", walletH.ListMovements)
			wallet.GET("/balance", walletH.Balance)
			wallet.GET("/expiring", walletH.ExpiringCredits)
			wallet.PATCH("/blocked", walletH.SetBlocked)
		}

		v1.GET("/orders", staff, ordersH.List)
		v1.GET("/users/:id/addresses", staff, localitiesH.ListAddresses)

		homepage := v1.Group("/homepage", staff)
		{
			homepage.PUT("/slots", homepageH.SetSlot)
			homepage.DELETE("/slots/:section/:position", homepageH.ClearSlot)
		}

		adminUsers := v1.Group("/admin-users", adminOnly)
		{
			adminUsers.POST("", adminUsersH.Create)
			adminUsers.GET("", adminUsersH.List)
			adminUsers.DELETE("/:id", adminUsersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
