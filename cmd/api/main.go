package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/bookcatalog-api/internal/config"
	"github.com/yourusername/bookcatalog-api/internal/handler"
	"github.com/yourusername/bookcatalog-api/internal/middleware"
	pgRepo "github.com/yourusername/bookcatalog-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/bookcatalog-api/internal/repository/redis"
	"github.com/yourusername/bookcatalog-api/internal/service"
	"github.com/yourusername/bookcatalog-api/pkg/auth"
	"github.com/yourusername/bookcatalog-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	sqlDB, err := database.GetSQLDB(db)
	if err != nil {
		log.Printf("Failed to get underlying sql.DB: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	codeRepo := pgRepo.NewConfirmationCodeRepo(db)
	bookRepo := pgRepo.NewBookRepo(db)
	genreRepo := pgRepo.NewGenreRepo(db)
	authorRepo := pgRepo.NewAuthorRepo(db)
	reviewRepo := pgRepo.NewReviewRepo(db)
	favoriteRepo := pgRepo.NewFavoriteRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	refreshTokenRepo, err := pgRepo.NewRefreshTokenRepo(db)
	if err != nil {
		log.Printf("Failed to initialize RefreshTokenRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWTService
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервис отправки писем.
	// Без API ключа коды подтверждения пишутся только в лог (для локальной разработки).
	var emailService service.EmailService
	if cfg.Email.ResendAPIKey != "" {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("RESEND_API_KEY не задан: письма не отправляются, коды подтверждения пишутся в лог")
		emailService = &service.NoopEmailService{}
	}

	// Создаем контекст с отменой для корректного завершения работы горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем сервисы
	refreshTokenTTL := time.Duration(cfg.Auth.RefreshTokenLifetime) * time.Hour
	authService, err := service.NewAuthService(userRepo, codeRepo, refreshTokenRepo, jwtService, emailService, refreshTokenTTL)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}

	bookService, err := service.NewBookService(bookRepo, genreRepo, authorRepo, cacheRepo)
	if err != nil {
		log.Printf("Failed to initialize BookService: %v", err)
		os.Exit(1)
	}

	reviewService, err := service.NewReviewService(reviewRepo, bookRepo, bookService)
	if err != nil {
		log.Printf("Failed to initialize ReviewService: %v", err)
		os.Exit(1)
	}

	favoriteService, err := service.NewFavoriteService(favoriteRepo, bookRepo)
	if err != nil {
		log.Printf("Failed to initialize FavoriteService: %v", err)
		os.Exit(1)
	}

	// Запускаем фоновую задачу очистки истекших refresh-токенов
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Запуск механизма периодической очистки истекших refresh-токенов (каждый час)")

		for {
			select {
			case <-ticker.C:
				deleted, err := refreshTokenRepo.CleanupExpired(time.Now())
				if err != nil {
					log.Printf("Ошибка при очистке refresh-токенов: %v", err)
				} else if deleted > 0 {
					log.Printf("Удалено %d истекших refresh-токенов", deleted)
				}
			case <-ctx.Done():
				log.Println("Завершение работы горутины очистки токенов")
				return
			}
		}
	}()

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, bookService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8000", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Аутентификация и регистрация
	router.POST("/register/", authHandler.Register)
	router.POST("/email-confirm/", authHandler.ConfirmCode)
	router.POST("/login/", authHandler.Login)
	router.POST("/login/refresh/", authHandler.RefreshToken)
	router.POST("/logout/", authMiddleware.RequireAuth(), authHandler.Logout)
	router.POST("/logout/all/", authMiddleware.RequireAuth(), authHandler.LogoutAll)

	// Каталог книг
	book := router.Group("/book")
	{
		// Публичные маршруты каталога
		book.GET("/list/", bookHandler.ListBooks)
		book.GET("/genres/", bookHandler.ListGenres)
		book.GET("/authors/", bookHandler.ListAuthors)

		bookWithID := book.Group("/detail/:id")
		bookWithID.Use(middleware.ExtractUintParam("id", "bookID"))
		{
			bookWithID.GET("/", bookHandler.GetBookDetail)
		}

		// Отзывы: чтение публично, мутации требуют аутентификации
		book.GET("/reviews/", reviewHandler.ListReviews)
		book.POST("/reviews/", authMiddleware.RequireAuth(), reviewHandler.CreateReview)

		reviewWithID := book.Group("/reviews/:id")
		reviewWithID.Use(middleware.ExtractUintParam("id", "reviewID"), authMiddleware.RequireAuth())
		{
			reviewWithID.GET("/", reviewHandler.GetReview)
			reviewWithID.PUT("/", reviewHandler.UpdateReview)
			reviewWithID.PATCH("/", reviewHandler.PatchReview)
			reviewWithID.DELETE("/", reviewHandler.DeleteReview)
		}

		// Избранное
		book.GET("/favorites-book-list/", authMiddleware.RequireAuth(), favoriteHandler.FavoritesBookList)

		addFavorite := book.Group("/add-to-favorites/:book_id")
		addFavorite.Use(middleware.ExtractUintParam("book_id", "bookID"), authMiddleware.RequireAuth())
		{
			addFavorite.POST("/", favoriteHandler.AddToFavorites)
		}

		removeFavorite := book.Group("/remove-from-favorites/:book_id")
		removeFavorite.Use(middleware.ExtractUintParam("book_id", "bookID"), authMiddleware.RequireAuth())
		{
			removeFavorite.DELETE("/", favoriteHandler.RemoveFromFavorites)
		}

		// Администрирование каталога
		adminBooks := book.Group("")
		adminBooks.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			adminBooks.POST("/", bookHandler.CreateBook)
			adminBooks.POST("/import/", bookHandler.ImportBooks)

			adminBookWithID := adminBooks.Group("/:id")
			adminBookWithID.Use(middleware.ExtractUintParam("id", "bookID"))
			{
				adminBookWithID.PUT("/", bookHandler.UpdateBook)
				adminBookWithID.DELETE("/", bookHandler.DeleteBook)
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// После получения сигнала SIGINT или SIGTERM вызываем cancel() для завершения горутин
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	// Graceful shutdown с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
