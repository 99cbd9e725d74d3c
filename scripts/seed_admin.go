package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/logging"
	"github.com/venturelink/app-venturelink/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

// Bootstraps the first admin account. Admins cannot register through the API;
// this script is how a deployment gets its initial moderator.
func main() {
	fmt.Println("🌱 Seeding admin account...")

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD environment variables are required")
	}
	if name == "" {
		name = "Platform Admin"
	}

	if err := logging.InitLogger(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize MongoDB
	config.InitMongoDB()
	if config.MongoDB == nil {
		log.Fatal("Failed to initialize MongoDB")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)

	count, err := collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		log.Fatalf("Failed to check for existing account: %v", err)
	}
	if count > 0 {
		fmt.Printf("⚠️  An account with email %s already exists, nothing to do\n", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.Profile{
		UserType:        models.RoleAdmin,
		FullName:        name,
		Email:           email,
		PasswordHash:    string(hash),
		Status:          models.ProfileStatusApproved,
		IsVerified:      true,
		IsEmailVerified: true,
	}
	admin.BeforeCreate()

	result, err := collection.InsertOne(ctx, admin)
	if err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	fmt.Printf("✅ Admin account created: %s (%v)\n", email, result.InsertedID)
	fmt.Println("\n🎉 Seeding completed successfully!")
}
