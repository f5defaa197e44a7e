package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"quivato_reviews/internal/domain"
)

// document is the stored shape; field names match what the front end reads.
type document struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Review      string        `bson:"review"`
	Name        string        `bson:"reviewer_name"`
	Designation string        `bson:"reviewer_designation"`
	Image       *string       `bson:"reviewer_image,omitempty"`
}

func (d document) toDomain() domain.Review {
	return domain.Review{
		ID:          d.ID.Hex(),
		Text:        d.Review,
		Name:        d.Name,
		Designation: d.Designation,
		Image:       d.Image,
	}
}

type Repo struct{ coll *mongo.Collection }

func New(coll *mongo.Collection) *Repo { return &Repo{coll: coll} }

// Connect opens a client with the stable v1 server API and pings it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	api := options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true)
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetServerAPIOptions(api))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	// one spelling per document keeps cache keys aligned with the store
	if err != nil || oid.Hex() != id {
		return bson.ObjectID{}, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *Repo) Create(ctx context.Context, f domain.ReviewFields) (string, error) {
	res, err := r.coll.InsertOne(ctx, document{
		Review:      f.Text,
		Name:        f.Name,
		Designation: f.Designation,
		Image:       f.Image,
	})
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *Repo) Update(ctx context.Context, id string, p domain.ReviewPatch) (domain.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	set := bson.D{}
	if p.Text != nil {
		set = append(set, bson.E{Key: "review", Value: *p.Text})
	}
	if p.Name != nil {
		set = append(set, bson.E{Key: "reviewer_name", Value: *p.Name})
	}
	if p.Designation != nil {
		set = append(set, bson.E{Key: "reviewer_designation", Value: *p.Designation})
	}
	if p.Image != nil {
		set = append(set, bson.E{Key: "reviewer_image", Value: *p.Image})
	}
	if len(set) == 0 {
		return domain.UpdateResult{}, domain.Invalid("data", "no fields to update")
	}

	// upsert stays off: an update must never create a review
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return domain.UpdateResult{}, err
	}
	return domain.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Review, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Review{}
	for cur.Next(ctx) {
		var d document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id string) (domain.Review, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Review{}, err
	}
	var d document
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}
	return d.toDomain(), nil
}
