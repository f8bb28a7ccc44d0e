package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/ports"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository on MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type fileRefDoc struct {
	Filename string `bson:"filename"`
	Path     string `bson:"path"`
	MimeType string `bson:"mime_type"`
	Size     int64  `bson:"size"`
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone"`
	City         string             `bson:"city"`
	Role         string             `bson:"role"`
	PasswordHash string             `bson:"password_hash"`
	Identity     string             `bson:"identity,omitempty"`
	ValidProof   *fileRefDoc        `bson:"valid_proof,omitempty"`
	Image        string             `bson:"image,omitempty"`
	Skills       []string           `bson:"skills,omitempty"`
	Experience   string             `bson:"experience,omitempty"`
	Availability string             `bson:"availability,omitempty"`
	Ratings      []int              `bson:"ratings,omitempty"`
	Rating       float64            `bson:"rating,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	doc := userDoc{
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		City:         u.City,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		Identity:     u.Identity,
		Image:        u.Image,
		Skills:       u.Skills,
		Experience:   u.Experience,
		Availability: u.Availability,
		Ratings:      u.Ratings,
		Rating:       u.Rating,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.ValidProof != nil {
		doc.ValidProof = &fileRefDoc{
			Filename: u.ValidProof.Filename,
			Path:     u.ValidProof.Path,
			MimeType: u.ValidProof.MimeType,
			Size:     u.ValidProof.Size,
		}
	}
	return doc
}

func (d userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		City:         d.City,
		Role:         d.Role,
		PasswordHash: d.PasswordHash,
		Identity:     d.Identity,
		Image:        d.Image,
		Skills:       d.Skills,
		Experience:   d.Experience,
		Availability: d.Availability,
		Ratings:      d.Ratings,
		Rating:       d.Rating,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.ValidProof != nil {
		u.ValidProof = &domain.FileRef{
			Filename: d.ValidProof.Filename,
			Path:     d.ValidProof.Path,
			MimeType: d.ValidProof.MimeType,
			Size:     d.ValidProof.Size,
		}
	}
	return u
}

// Create inserts a new user. Duplicates are detected per role: the same email
// or phone may exist once as a customer and once as a labour, never twice
// under the same role.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	dupFilter := bson.M{
		"role": user.Role,
		"$or": bson.A{
			bson.M{"email": user.Email},
			bson.M{"phone": user.Phone},
		},
	}
	if err := r.coll.FindOne(ctx, dupFilter).Err(); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("check duplicate user: %w", err)
	}

	res, err := r.coll.InsertOne(ctx, toUserDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// UpdateProfile applies the partial update and returns the new document.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update ports.ProfileUpdate) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Phone != "" {
		set["phone"] = update.Phone
	}
	if update.City != "" {
		set["city"] = update.City
	}
	if len(update.Skills) > 0 {
		set["skills"] = update.Skills
	}
	if update.Experience != "" {
		set["experience"] = update.Experience
	}
	if update.Availability != "" {
		set["availability"] = update.Availability
	}
	if update.Image != "" {
		set["image"] = update.Image
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) ListLabours(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"role": domain.RoleLabour})
	if err != nil {
		return nil, fmt.Errorf("list labours: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode labour: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list labours: %w", err)
	}
	return users, nil
}

// AddRating appends the score and recomputes the aggregate in one pipeline
// update, so racing submissions cannot lose each other's scores.
func (r *UserRepository) AddRating(ctx context.Context, labourID string, score int) (float64, error) {
	oid, err := primitive.ObjectIDFromHex(labourID)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"ratings": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$ratings", bson.A{}}},
				bson.A{score},
			}},
		}},
		bson.M{"$set": bson.M{
			"rating": bson.M{"$round": bson.A{bson.M{"$avg": "$ratings"}, 1}},
		}},
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Rating float64 `bson:"rating"`
	}
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "role": domain.RoleLabour},
		pipeline,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"rating": 1}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("add rating: %w", err)
	}
	return doc.Rating, nil
}

// EnsureIndexes creates the uniqueness indexes registration relies on.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "role", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}, {Key: "role", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
