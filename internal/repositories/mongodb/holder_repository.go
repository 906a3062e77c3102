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
	userCollection  = "users"
	roleCollection  = "roles"
	groupCollection = "groups"
)

// MongoHolderRepository implements HolderRepository over the users, roles,
// and groups collections.
type MongoHolderRepository struct {
	users  *mongo.Collection
	roles  *mongo.Collection
	groups *mongo.Collection
}

// NewMongoHolderRepository creates a new MongoDB holder repository
func NewMongoHolderRepository(db *mongo.Database) repositories.HolderRepository {
	return &MongoHolderRepository{
		users:  db.Collection(userCollection),
		roles:  db.Collection(roleCollection),
		groups: db.Collection(groupCollection),
	}
}

func (r *MongoHolderRepository) collection(holderType entities.HolderType) (*mongo.Collection, error) {
	switch holderType {
	case entities.HolderUser:
		return r.users, nil
	case entities.HolderRole:
		return r.roles, nil
	case entities.HolderGroup:
		return r.groups, nil
	default:
		return nil, fmt.Errorf("unknown holder type: %s", holderType)
	}
}

// Get retrieves a holder by ID and type, nil when absent
func (r *MongoHolderRepository) Get(ctx context.Context, id string, holderType entities.HolderType) (entities.Holder, error) {
	coll, err := r.collection(holderType)
	if err != nil {
		return nil, err
	}

	res := coll.FindOne(ctx, bson.M{"_id": id})
	holder, err := decodeHolder(res, holderType)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", holderType, err)
	}
	return holder, nil
}

// GetMany retrieves holders of one type by ID set.
// Missing IDs are simply absent from the result.
func (r *MongoHolderRepository) GetMany(ctx context.Context, ids []string, holderType entities.HolderType) ([]entities.Holder, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	coll, err := r.collection(holderType)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query %ss: %w", holderType, err)
	}
	defer cursor.Close(ctx)

	var holders []entities.Holder
	for cursor.Next(ctx) {
		holder, err := decodeHolder(cursor, holderType)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", holderType, err)
		}
		holders = append(holders, holder)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %ss: %w", holderType, err)
	}
	return holders, nil
}

// Replace persists the holder document under an optimistic version guard.
// The document is matched on ID plus the version the holder was read at;
// zero matched documents means a concurrent writer won the race.
func (r *MongoHolderRepository) Replace(ctx context.Context, holder entities.Holder) error {
	coll, err := r.collection(holder.GetType())
	if err != nil {
		return err
	}

	readVersion := holder.GetVersion()
	holder.SetVersion(readVersion + 1)

	res, err := coll.ReplaceOne(ctx, bson.M{"_id": holder.GetID(), "version": readVersion}, holder)
	if err != nil {
		holder.SetVersion(readVersion)
		return fmt.Errorf("failed to replace %s: %w", holder.GetType(), err)
	}
	if res.MatchedCount == 0 {
		holder.SetVersion(readVersion)
		return fmt.Errorf("%s %s at version %d: %w",
			holder.GetType(), holder.GetID(), readVersion, repositories.ErrVersionConflict)
	}
	return nil
}

type decoder interface {
	Decode(v interface{}) error
}

func decodeHolder(d decoder, holderType entities.HolderType) (entities.Holder, error) {
	switch holderType {
	case entities.HolderUser:
		var u entities.User
		if err := d.Decode(&u); err != nil {
			return nil, err
		}
		return &u, nil
	case entities.HolderRole:
		var role entities.Role
		if err := d.Decode(&role); err != nil {
			return nil, err
		}
		return &role, nil
	case entities.HolderGroup:
		var g entities.Group
		if err := d.Decode(&g); err != nil {
			return nil, err
		}
		return &g, nil
	default:
		return nil, fmt.Errorf("unknown holder type: %s", holderType)
	}
}
