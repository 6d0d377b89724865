package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tanmayshinde-006/ProjexFlow/models"
	"github.com/tanmayshinde-006/ProjexFlow/utils"
)

type UserService struct {
	UsersCollection *mongo.Collection
	JWTService      *utils.JWTService
}

func NewUserService(usersCollection *mongo.Collection, jwtService *utils.JWTService) *UserService {
	return &UserService{
		UsersCollection: usersCollection,
		JWTService:      jwtService,
	}
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: please provide an email", ErrValidation)
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return fmt.Errorf("%w: please provide a valid email", ErrValidation)
	}
	return nil
}

// Register creates a new user account with the member role and returns the
// user along with a signed auth token.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", fmt.Errorf("%w: please provide a name", ErrValidation)
	}
	if len(name) > 50 {
		return nil, "", fmt.Errorf("%w: name cannot be more than 50 characters", ErrValidation)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	var existing models.User
	err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return nil, "", fmt.Errorf("%w: user with this email already exists", ErrInvalidOperation)
	}
	if err != mongo.ErrNoDocuments {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      models.RoleMember,
		CreatedAt: time.Now(),
	}

	result, err := s.UsersCollection.InsertOne(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to save user: %w", err)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := s.JWTService.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: please provide email and password", ErrValidation)
	}

	var user models.User
	err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
		}
		return nil, "", fmt.Errorf("failed to fetch user: %w", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	token, err := s.JWTService.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return &user, token, nil
}

// GetByID returns a single user record.
func (s *UserService) GetByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.UsersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// ProfileUpdate carries the updatable profile fields.
type ProfileUpdate struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Avatar *string `json:"avatar"`
}

// UpdateProfile updates the requester's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update *ProfileUpdate) (*models.User, error) {
	set := bson.M{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: please provide a name", ErrValidation)
		}
		if len(name) > 50 {
			return nil, fmt.Errorf("%w: name cannot be more than 50 characters", ErrValidation)
		}
		set["name"] = name
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		var existing models.User
		err := s.UsersCollection.FindOne(ctx, bson.M{"email": email, "_id": bson.M{"$ne": userID}}).Decode(&existing)
		if err == nil {
			return nil, fmt.Errorf("%w: user with this email already exists", ErrInvalidOperation)
		}
		if err != mongo.ErrNoDocuments {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		set["email"] = email
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}

	if len(set) > 0 {
		if _, err := s.UsersCollection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.GetByID(ctx, userID)
}

// UpdatePassword changes the requester's password after verifying the
// current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: please provide current and new password", ErrValidation)
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.Password, currentPassword) {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthenticated)
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.UsersCollection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"password": hashed}})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ListUsers returns every user account. Admin only.
func (s *UserService) ListUsers(ctx context.Context, requesterRole string) ([]models.User, error) {
	if requesterRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not authorized to list users", ErrPermissionDenied)
	}

	cursor, err := s.UsersCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}
