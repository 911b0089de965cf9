package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/projectdesk/projectdesk-api/internal/models"
	"github.com/projectdesk/projectdesk-api/internal/utils"
)

// ConnectMongoDB establishes a connection to MongoDB
func ConnectMongoDB(uri, dbName string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	log.Printf("Successfully connected to MongoDB: %s", uri)
	return client, nil
}

// EnsureIndexes creates the unique index backing the email natural key.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// buildSeedSuperAdmin assembles the bootstrap account document. The email goes
// through the same normalization as registration and login so a mixed-case
// ADMIN_EMAIL still matches at sign-in.
func buildSeedSuperAdmin(name, email, password string) (*models.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &models.User{
		Name:      name,
		Email:     models.NormalizeEmail(email),
		Password:  hashed,
		Role:      models.RoleSuperAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SeedSuperAdmin creates the bootstrap SuperAdmin account on first start.
// Roles themselves are a static in-process table and are never stored; only
// this one account is seeded, and only when no SuperAdmin exists yet.
func SeedSuperAdmin(db *mongo.Database, name, email, password string) error {
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping SuperAdmin seeding")
		return nil
	}

	usersCollection := db.Collection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := usersCollection.CountDocuments(ctx, bson.M{"role": models.RoleSuperAdmin})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user, err := buildSeedSuperAdmin(name, email, password)
	if err != nil {
		return err
	}

	if _, err := usersCollection.InsertOne(ctx, user); err != nil {
		return err
	}
	log.Printf("Seeded SuperAdmin account: %s", user.Email)
	return nil
}
