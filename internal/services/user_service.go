package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/projectdesk/projectdesk-api/internal/apperr"
	"github.com/projectdesk/projectdesk-api/internal/models"
	"github.com/projectdesk/projectdesk-api/internal/utils"
)

// UserService provides methods for user related operations
type UserService struct {
	usersCollection *mongo.Collection
}

// NewUserService creates a new UserService
func NewUserService(db *mongo.Database) *UserService {
	return &UserService{
		usersCollection: db.Collection("users"),
	}
}

// CreateUser inserts a new user. The caller provides an already-hashed
// password (or an empty one for external-auth-only accounts).
func (s *UserService) CreateUser(user *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user.ID = primitive.NewObjectID()
	user.Email = models.NormalizeEmail(user.Email)
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := s.usersCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("user with this email already exists")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create user", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID
func (s *UserService) GetUserByID(id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := s.usersCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to retrieve user", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email address
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := s.usersCollection.FindOne(ctx, bson.M{"email": models.NormalizeEmail(email)}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to retrieve user", err)
	}
	return &user, nil
}

// ListUsers retrieves all users, newest first
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.findUsers(bson.M{})
}

// ListUsersByRole retrieves users holding the given role, newest first.
// Managers use this to list Staff candidates for assignment.
func (s *UserService) ListUsersByRole(role models.Role) ([]models.User, error) {
	return s.findUsers(bson.M{"role": role})
}

func (s *UserService) findUsers(filter bson.M) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.usersCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list users", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to decode users", err)
	}
	return users, nil
}

// ChangeUserRole updates a user's role. Restricted to SuperAdmin at the route
// level; this service only performs the write.
func (s *UserService) ChangeUserRole(userID primitive.ObjectID, newRole models.Role) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"role":       newRole,
		"updated_at": time.Now(),
	}}
	result, err := s.usersCollection.UpdateByID(ctx, userID, update)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to update user role", err)
	}
	if result.MatchedCount == 0 {
		return nil, apperr.NotFound("user not found")
	}

	return s.GetUserByID(userID)
}

// toggleActivePipeline negates is_active inside the store so the flip is one
// atomic document operation; two concurrent toggles can never read the same
// flag and collapse into a single effective flip.
func toggleActivePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "is_active", Value: bson.D{{Key: "$not", Value: "$is_active"}}},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
	}
}

// ToggleUserActive flips a user's active flag. Toggling twice returns the
// account to its original state.
func (s *UserService) ToggleUserActive(userID primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := s.usersCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		toggleActivePipeline(),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to toggle user active status", err)
	}
	return &user, nil
}

// LinkGoogleID records the external identity linkage on first Google login.
func (s *UserService) LinkGoogleID(userID primitive.ObjectID, googleID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"google_id":  googleID,
		"updated_at": time.Now(),
	}}
	if _, err := s.usersCollection.UpdateByID(ctx, userID, update); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to link google account", err)
	}
	return nil
}

// UserRefByID resolves a weak user reference to a display snapshot.
func (s *UserService) UserRefByID(id primitive.ObjectID) (*models.UserRef, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	return &models.UserRef{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

// CreateUserWithPassword hashes the plain password and inserts the user.
// Used by SuperAdmin-initiated creation and by registration.
func (s *UserService) CreateUserWithPassword(name, email, password string, role models.Role) (*models.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}
	return s.CreateUser(&models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	})
}
