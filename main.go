package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tanmayshinde-006/ProjexFlow/config"
	"github.com/tanmayshinde-006/ProjexFlow/handlers"
	"github.com/tanmayshinde-006/ProjexFlow/logging"
	"github.com/tanmayshinde-006/ProjexFlow/middleware"
	"github.com/tanmayshinde-006/ProjexFlow/services"
	"github.com/tanmayshinde-006/ProjexFlow/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("development")
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: Failed to load configuration: %v", err)
	}

	logging.InitLogger(cfg.Environment)
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting ProjexFlow API...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: MongoDB connection failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB ping failed: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Connected to MongoDB database %s", cfg.MongoDBName)

	db := client.Database(cfg.MongoDBName)
	usersCollection := db.Collection("users")
	projectsCollection := db.Collection("projects")
	tasksCollection := db.Collection("tasks")

	jwtService := utils.NewJWTService(cfg.JWTSecret, 24*time.Hour)

	userService := services.NewUserService(usersCollection, jwtService)
	projectService := services.NewProjectService(projectsCollection, tasksCollection, usersCollection)
	taskService := services.NewTaskService(tasksCollection, projectsCollection)

	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := mux.NewRouter()

	// Public routes.
	r.HandleFunc("/api/users/register", userHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/users/login", userHandler.Login).Methods(http.MethodPost)

	// Everything else requires a valid bearer token.
	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.JWTAuth(jwtService))
	protected.HandleFunc("/api/users/me", userHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/api/users/profile", userHandler.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/api/users/password", userHandler.UpdatePassword).Methods(http.MethodPut)
	protected.HandleFunc("/api/users", userHandler.GetUsers).Methods(http.MethodGet)
	projectHandler.RegisterRoutes(protected)
	taskHandler.RegisterRoutes(protected)

	corsRouter := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{"*"}),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", addr)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
