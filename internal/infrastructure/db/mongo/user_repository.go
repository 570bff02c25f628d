package mongo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository on a single collection
// holding both Player and Publisher documents, told apart by "role".
type UserRepository struct {
	col   *mongo.Collection
	now   func() time.Time
	newID func() string
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col:   db.Collection(usersCollection),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// EnsureIndexes creates the unique email index that backs ErrDuplicateEmail
// and the role index used by the variant queries.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: fieldEmail, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{Keys: bson.D{{Key: fieldRole, Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create assigns a new ID and CreatedAt to user and inserts it. Uniqueness of
// the email is left to the index: a duplicate key error is the only signal.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	if user == nil {
		return fmt.Errorf("%w: nil user", domain.ErrInvalidOperation)
	}
	acc := user.Base()
	prevID, prevCreated := acc.ID, acc.CreatedAt
	acc.ID = r.newID()
	acc.CreatedAt = domain.NormalizeTime(r.now())

	doc, err := encodeUser(user)
	if err != nil {
		acc.ID, acc.CreatedAt = prevID, prevCreated
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		acc.ID, acc.CreatedAt = prevID, prevCreated
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID returns nil and no error when no user has the id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, bson.M{fieldID: id})
}

// GetByEmail returns nil and no error when no user has the email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{fieldEmail: email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw, err := r.col.FindOne(ctx, filter).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return decodeUser(raw)
}

// All streams every stored user. The cursor is closed when the caller stops
// ranging.
func (r *UserRepository) All(ctx context.Context) iter.Seq2[domain.User, error] {
	return r.stream(ctx, bson.M{})
}

func (r *UserRepository) Players(ctx context.Context) iter.Seq2[*domain.Player, error] {
	return ofVariant[*domain.Player](r.stream(ctx, bson.M{fieldRole: string(domain.RolePlayer)}))
}

func (r *UserRepository) Publishers(ctx context.Context) iter.Seq2[*domain.Publisher, error] {
	return ofVariant[*domain.Publisher](r.stream(ctx, bson.M{fieldRole: string(domain.RolePublisher)}))
}

func (r *UserRepository) stream(ctx context.Context, filter bson.M) iter.Seq2[domain.User, error] {
	return func(yield func(domain.User, error) bool) {
		cur, err := r.col.Find(ctx, filter)
		if err != nil {
			yield(nil, fmt.Errorf("find users: %w", err))
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			if !yield(decodeUser(cur.Current)) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(nil, fmt.Errorf("iterate users: %w", err))
		}
	}
}

// ofVariant narrows a user stream to one variant. A document whose decoded
// variant does not match the query is reported, not dropped.
func ofVariant[T domain.User](seq iter.Seq2[domain.User, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for u, err := range seq {
			if err != nil {
				if !yield(zero, err) {
					return
				}
				continue
			}
			v, ok := u.(T)
			if !ok {
				err = fmt.Errorf("%w: unexpected %s in variant query", domain.ErrUnknownVariant, u.Role())
				if !yield(zero, err) {
					return
				}
				continue
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Update overwrites every mutable field of the stored user. The filter pins
// both id and role, so a role change never matches and is reported as
// ErrInvalidOperation.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	if user == nil {
		return fmt.Errorf("%w: nil user", domain.ErrInvalidOperation)
	}
	set, err := mutableFields(user)
	if err != nil {
		return err
	}
	id := user.Base().ID

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{fieldID: id, fieldRole: string(user.Role())}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: the id is unknown or the stored role differs.
	opts := options.FindOne().SetProjection(bson.M{fieldRole: 1})
	err = r.col.FindOne(ctx, bson.M{fieldID: id}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return fmt.Errorf("%w: role of user %s cannot change", domain.ErrInvalidOperation, id)
}

// Delete permanently removes the user.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{fieldID: id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
