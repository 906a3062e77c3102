package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hayasaka/monban/internal/entities"
	"github.com/hayasaka/monban/internal/repositories"
)

const (
	resourcePermissionCollection = "resource_permissions"
	uiPermissionCollection       = "ui_permissions"
)

// permissionFilterToBson converts a PermissionFilter to a mongo filter document.
// An empty ID set matches nothing; the caller short-circuits before querying.
func permissionFilterToBson(filter *repositories.PermissionFilter) bson.M {
	doc := bson.M{"_id": bson.M{"$in": filter.IDs}}
	if filter.PermissionType != "" {
		doc["permissionType"] = filter.PermissionType
	}
	return doc
}

// MongoResourcePermissionRepository implements ResourcePermissionRepository using MongoDB
type MongoResourcePermissionRepository struct {
	coll *mongo.Collection
}

// NewMongoResourcePermissionRepository creates a new MongoDB resource permission repository
func NewMongoResourcePermissionRepository(db *mongo.Database) repositories.ResourcePermissionRepository {
	return &MongoResourcePermissionRepository{coll: db.Collection(resourcePermissionCollection)}
}

// Create persists a new resource permission record
func (r *MongoResourcePermissionRepository) Create(ctx context.Context, perm *entities.ResourcePermission) error {
	if err := perm.Validate(); err != nil {
		return fmt.Errorf("invalid resource permission: %w", err)
	}
	if _, err := r.coll.InsertOne(ctx, perm); err != nil {
		return fmt.Errorf("failed to insert resource permission: %w", err)
	}
	return nil
}

// GetByID retrieves a single record by ID, nil when absent
func (r *MongoResourcePermissionRepository) GetByID(ctx context.Context, id string) (*entities.ResourcePermission, error) {
	var perm entities.ResourcePermission
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&perm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find resource permission: %w", err)
	}
	return &perm, nil
}

// List retrieves records matching the filter
func (r *MongoResourcePermissionRepository) List(ctx context.Context, filter *repositories.PermissionFilter) ([]*entities.ResourcePermission, error) {
	if filter == nil || len(filter.IDs) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, permissionFilterToBson(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to query resource permissions: %w", err)
	}
	defer cursor.Close(ctx)

	var perms []*entities.ResourcePermission
	if err := cursor.All(ctx, &perms); err != nil {
		return nil, fmt.Errorf("failed to decode resource permissions: %w", err)
	}
	return perms, nil
}

// Delete removes a record by ID. Deleting a missing ID is not an error.
func (r *MongoResourcePermissionRepository) Delete(ctx context.Context, id string) error {
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Err()
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to delete resource permission: %w", err)
	}
	return nil
}

// MongoUiPermissionRepository implements UiPermissionRepository using MongoDB
type MongoUiPermissionRepository struct {
	coll *mongo.Collection
}

// NewMongoUiPermissionRepository creates a new MongoDB UI permission repository
func NewMongoUiPermissionRepository(db *mongo.Database) repositories.UiPermissionRepository {
	return &MongoUiPermissionRepository{coll: db.Collection(uiPermissionCollection)}
}

// Create persists a new UI permission record
func (r *MongoUiPermissionRepository) Create(ctx context.Context, perm *entities.UiPermission) error {
	if err := perm.Validate(); err != nil {
		return fmt.Errorf("invalid ui permission: %w", err)
	}
	if _, err := r.coll.InsertOne(ctx, perm); err != nil {
		return fmt.Errorf("failed to insert ui permission: %w", err)
	}
	return nil
}

// GetByID retrieves a single record by ID, nil when absent
func (r *MongoUiPermissionRepository) GetByID(ctx context.Context, id string) (*entities.UiPermission, error) {
	var perm entities.UiPermission
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&perm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ui permission: %w", err)
	}
	return &perm, nil
}

// List retrieves records matching the filter
func (r *MongoUiPermissionRepository) List(ctx context.Context, filter *repositories.PermissionFilter) ([]*entities.UiPermission, error) {
	if filter == nil || len(filter.IDs) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, permissionFilterToBson(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to query ui permissions: %w", err)
	}
	defer cursor.Close(ctx)

	var perms []*entities.UiPermission
	if err := cursor.All(ctx, &perms); err != nil {
		return nil, fmt.Errorf("failed to decode ui permissions: %w", err)
	}
	return perms, nil
}

// Delete removes a record by ID. Deleting a missing ID is not an error.
func (r *MongoUiPermissionRepository) Delete(ctx context.Context, id string) error {
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Err()
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to delete ui permission: %w", err)
	}
	return nil
}
