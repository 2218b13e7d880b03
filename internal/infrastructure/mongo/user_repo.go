package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d userDoc) toEntity() *entity.User {
	return &entity.User{
		ID: d.ID, Email: d.Email, PasswordHash: d.PasswordHash, FirstName: d.FirstName,
		LastName: d.LastName, Role: d.Role, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

// UserRepo implementación de UserRepository sobre MongoDB.
type UserRepo struct {
	db *mongo.Database
}

// Create inserta el usuario; el índice único de email produce ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.db.Collection(colUsers).InsertOne(ctx, userDoc{
		ID: u.ID, Email: strings.ToLower(u.Email), PasswordHash: u.PasswordHash, FirstName: u.FirstName,
		LastName: u.LastName, Role: u.Role, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail devuelve (nil, nil) si no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var doc userDoc
	err := r.db.Collection(colUsers).FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return doc.toEntity(), nil
}

// FindByID devuelve (nil, nil) si no existe.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var doc userDoc
	err := r.db.Collection(colUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return doc.toEntity(), nil
}

// Update modifica email, nombre y rol con $set; passwordHash no se toca.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	res, err := r.db.Collection(colUsers).UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"email":     strings.ToLower(u.Email),
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"role":      u.Role,
		"updatedAt": u.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return &domain.NotFoundError{Resource: "usuario", ID: u.ID}
	}
	return nil
}

// List lista usuarios del más reciente al más antiguo.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetSkip(int64(offset)).SetLimit(int64(limit))
	cur, err := r.db.Collection(colUsers).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*entity.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}
