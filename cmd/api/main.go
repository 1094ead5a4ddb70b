package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"edulearn/internal/adapter/api"
	"edulearn/internal/adapter/api/handler"
	apimiddleware "edulearn/internal/adapter/api/middleware"
	"edulearn/internal/adapter/api/router"
	"edulearn/internal/adapter/repository"
	"edulearn/internal/domain/service"
	"edulearn/internal/infrastructure/firebase"
	"edulearn/internal/infrastructure/websocket"
	"edulearn/internal/usecase"
	"edulearn/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient, cfg.StoreTimeout)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient, cfg.StoreTimeout)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient, cfg.StoreTimeout)

	authClient := firebase.NewAuthClient(fbAuth)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	notifier := service.NewNotificationService(notificationRepo, wsManager)

	authUseCase := usecase.NewAuthUseCase(authClient, userRepo)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, notifier, cfg.EmptyChatListAsNotFound)
	messageUseCase := usecase.NewMessageUseCase(chatRepo, userRepo, wsManager)

	// The socket delegates sends and room-join checks to the message engine.
	wsManager.SetChatService(messageUseCase)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	roleMiddleware := apimiddleware.NewRoleMiddleware(userRepo)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authUseCase),
		Chat:         handler.NewChatHandler(chatUseCase),
		Message:      handler.NewMessageHandler(messageUseCase),
		Notification: handler.NewNotificationHandler(notifier),
		WebSocket:    handler.NewWebSocketHandler(wsManager, authMiddleware),
		Health:       handler.NewHealthHandler(),
	}

	router.Setup(e, handlers, authMiddleware, roleMiddleware)
	router.SetupDevRouter(e, cfg.Environment, handler.NewDevTokenHandler(authClient, userRepo))

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
