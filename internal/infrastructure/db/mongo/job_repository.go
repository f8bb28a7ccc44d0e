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
)

const jobsCollection = "jobs"

// JobRepository implements ports.JobRepository on MongoDB.
type JobRepository struct {
	coll *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{coll: db.Collection(jobsCollection)}
}

// jobDoc stores the user references as ObjectIDs so the customer lookup can
// join against the users collection.
type jobDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID  primitive.ObjectID `bson:"customer_id"`
	LabourID    primitive.ObjectID `bson:"labour_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Location    string             `bson:"location,omitempty"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d jobDoc) toDomain() *domain.Job {
	return &domain.Job{
		ID:          d.ID.Hex(),
		CustomerID:  d.CustomerID.Hex(),
		LabourID:    d.LabourID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		Status:      domain.JobStatus(d.Status),
		CreatedAt:   d.CreatedAt,
	}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	customerOID, err := primitive.ObjectIDFromHex(job.CustomerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	labourOID, err := primitive.ObjectIDFromHex(job.LabourID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := jobDoc{
		CustomerID:  customerOID,
		LabourID:    labourOID,
		Title:       job.Title,
		Description: job.Description,
		Location:    job.Location,
		Status:      string(job.Status),
		CreatedAt:   job.CreatedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	created := *job
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc jobDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return doc.toDomain(), nil
}

// TransitionStatus performs the conditional update in a single document
// operation: the filter pins the current status to pending and the owner to
// labourID, so at most one of two racing transitions can match.
func (r *JobRepository) TransitionStatus(ctx context.Context, jobID, labourID string, status domain.JobStatus) (*domain.Job, error) {
	jobOID, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}
	labourOID, err := primitive.ObjectIDFromHex(labourID)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}

	filter := bson.M{
		"_id":       jobOID,
		"labour_id": labourOID,
		"status":    string(domain.JobPending),
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc jobDoc
	err = r.coll.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": bson.M{"status": string(status)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("transition job status: %w", err)
	}
	return doc.toDomain(), nil
}

// jobWithCustomerDoc is the aggregation result shape for the labour job list.
type jobWithCustomerDoc struct {
	jobDoc   `bson:",inline"`
	Customer struct {
		ID    primitive.ObjectID `bson:"_id"`
		Name  string             `bson:"name"`
		Phone string             `bson:"phone"`
		City  string             `bson:"city"`
	} `bson:"customer"`
}

// ListByLabour joins each job with its customer's contact fields, newest first.
func (r *JobRepository) ListByLabour(ctx context.Context, labourID string) ([]*domain.JobWithCustomer, error) {
	labourOID, err := primitive.ObjectIDFromHex(labourID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"labour_id": labourOID}}},
		{{Key: "$sort", Value: bson.M{"created_at": -1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "customer_id",
			"foreignField": "_id",
			"as":           "customer",
		}}},
		{{Key: "$unwind", Value: "$customer"}},
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var jobs []*domain.JobWithCustomer
	for cursor.Next(ctx) {
		var doc jobWithCustomerDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		jobs = append(jobs, &domain.JobWithCustomer{
			Job: *doc.jobDoc.toDomain(),
			Customer: domain.JobCustomer{
				ID:    doc.Customer.ID.Hex(),
				Name:  doc.Customer.Name,
				Phone: doc.Customer.Phone,
				City:  doc.Customer.City,
			},
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// EnsureIndexes creates the lookup indexes for the job list queries.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "labour_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
