package main

import (
	"database/sql"
	"log"
	"os"

	catalogUseCase "ventas/src/catalog/application/usecase"
	catalogController "ventas/src/catalog/infrastructure/controller"
	catalogPersistence "ventas/src/catalog/infrastructure/persistence"
	"ventas/src/inventory/application/service"
	"ventas/src/inventory/domain/port"
	"ventas/src/inventory/infrastructure/observers"
	refundUseCase "ventas/src/refund/application/usecase"
	refundClient "ventas/src/refund/infrastructure/client"
	refundController "ventas/src/refund/infrastructure/controller"
	refundPersistence "ventas/src/refund/infrastructure/persistence"
	salesUseCase "ventas/src/sales/application/usecase"
	salesController "ventas/src/sales/infrastructure/controller"
	"ventas/src/sales/infrastructure/gateway"
	salesPersistence "ventas/src/sales/infrastructure/persistence"
	sharedConfig "ventas/src/shared/infrastructure/config"
	"ventas/src/shared/infrastructure/database"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // Driver de PostgreSQL
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("🚀 Sistema de Ventas - Iniciando...")

	// Cargar .env si existe (en producción las variables vienen del entorno)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Archivo .env no encontrado, usando variables de entorno")
	}

	// Configurar el router con Gin
	router := gin.New()

	// Agregar middlewares básicos necesarios
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configurar Prometheus metrics si está habilitado
	if os.Getenv("PROMETHEUS_ENABLED") == "true" {
		log.Println("Registering /metrics endpoint")
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	} else {
		log.Println("Prometheus metrics disabled")
	}

	// Configurar GZIP y otros middlewares compartidos
	gzipSharedCfg := sharedConfig.DefaultSharedConfig()
	sharedConfig.SetupSharedMiddleware(router, gzipSharedCfg)

	// Obtener configuración de la base de datos de variables de entorno
	dbHost := sharedConfig.GetEnv("DB_HOST", "localhost")
	dbPort := sharedConfig.GetEnv("DB_PORT", "5432")
	dbUser := sharedConfig.GetEnv("DB_USER", "postgres")
	dbPassword := sharedConfig.GetEnv("DB_PASSWORD", "postgres")
	dbName := sharedConfig.GetEnv("DB_NAME", "ventas_db")

	connStr := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=disable"
	log.Printf("Intentando conectar a %s", dbName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("❌ Error al conectar a la base de datos: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("❌ Error al verificar la conexión a la base de datos: %v", err)
	}
	log.Printf("✅ Conexión a %s establecida con éxito", dbName)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("❌ Error ejecutando migraciones: %v", err)
	}

	// Servicio de notificaciones de inventario con sus observadores
	notifications := setupNotifications()

	// API v1 grupo de rutas
	v1 := router.Group("/api/v1")

	// Health check
	router.GET("/health", healthHandler(db))
	v1.GET("/health", healthHandler(db))

	setupModules(v1, db, notifications)

	// Iniciar el servidor
	port := sharedConfig.GetEnv("PORT", "8080")
	log.Printf("✅ Servidor de ventas iniciado en http://localhost:%s", port)
	log.Printf("✅ Health endpoint: GET http://localhost:%s/health", port)
	router.Run(":" + port)
}

// setupNotifications registra los observadores de inventario.
// El observador de Kafka solo se activa si hay broker configurado.
func setupNotifications() *service.NotificationService {
	var registered []port.InventoryObserver

	registered = append(registered,
		observers.NewEmailNotificationObserver(sharedConfig.GetEnv("ADMIN_EMAIL", "")),
		observers.NewReportInventoryObserver(),
		observers.NewPushNotificationObserver(sharedConfig.GetEnv("SMS_RECIPIENT", "")),
	)

	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		topic := sharedConfig.GetEnv("KAFKA_STOCK_TOPIC", "inventory.stock-events")
		registered = append(registered, observers.NewKafkaEventsObserver(broker, topic))
		log.Printf("✅ Observador Kafka activo (broker: %s, topic: %s)", broker, topic)
	} else {
		log.Println("⚠️  KAFKA_BROKER no configurado, eventos de stock solo locales")
	}

	notifications := service.NewNotificationService(registered...)
	log.Printf("✅ Servicio de notificaciones con %d observadores", len(notifications.RegisteredObservers()))
	return notifications
}

// setupModules cablea repositorios, casos de uso y controladores
func setupModules(router *gin.RouterGroup, db *sql.DB, notifications *service.NotificationService) {
	log.Println("Configurando módulos de ventas...")

	txManager := database.NewTxManager(db)

	// Repositorios
	userRepo := catalogPersistence.NewUserPostgresRepository(db)
	productRepo := catalogPersistence.NewProductPostgresRepository(db)
	invoiceRepo := salesPersistence.NewInvoicePostgresRepository(db)
	paymentRepo := salesPersistence.NewPaymentPostgresRepository(db)
	refundRepo := refundPersistence.NewRefundPostgresRepository(db)

	// Pasarela de pagos simulada y cliente de reembolsos
	paymentGateway := gateway.NewSimulatedPaymentGateway(gateway.DefaultGatewayConfig())
	mpClient := refundClient.NewMercadoPagoClient()

	// Casos de uso
	productUC := catalogUseCase.NewProductUseCase(productRepo)
	adjustStockUC := catalogUseCase.NewAdjustStockUseCase(productRepo, notifications)
	processSaleUC := salesUseCase.NewProcessSaleUseCase(
		userRepo, productRepo, invoiceRepo, paymentRepo, paymentGateway, notifications, txManager)
	getInvoiceUC := salesUseCase.NewGetInvoiceUseCase(invoiceRepo)
	processRefundUC := refundUseCase.NewProcessRefundUseCase(
		invoiceRepo, productRepo, refundRepo, mpClient, notifications, txManager)
	listRefundsUC := refundUseCase.NewListRefundsUseCase(refundRepo)
	getRefundUC := refundUseCase.NewGetRefundUseCase(refundRepo)

	// Controladores
	productCtrl := catalogController.NewProductController(productUC, adjustStockUC)
	saleCtrl := salesController.NewSaleController(processSaleUC, getInvoiceUC)
	refundCtrl := refundController.NewRefundController(processRefundUC, listRefundsUC, getRefundUC)

	productCtrl.RegisterRoutes(router)
	saleCtrl.RegisterRoutes(router)
	refundCtrl.RegisterRoutes(router)

	log.Println("✅ Módulos configurados exitosamente")
}

func healthHandler(db *sql.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := "ok"
		if err := db.Ping(); err != nil {
			status = "degraded"
		}
		ctx.JSON(200, gin.H{
			"status":  status,
			"service": "ventas",
		})
	}
}
