package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staysearch/internal/domain/filter"
	"staysearch/internal/domain/listings"
)

// ListingRepository reads listings from a collection shaped like the seeded
// "airbnb" documents.
type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database, collection string) *ListingRepository {
	return &ListingRepository{col: db.Collection(collection)}
}

// EnsureIndexes creates the indexes used by the default sort and the common
// range filters.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: listings.FieldCreatedAt, Value: -1}}},
		{Keys: bson.D{{Key: listings.FieldPrice, Value: 1}}},
		{Keys: bson.D{{Key: listings.FieldType, Value: 1}}},
		{Keys: bson.D{{Key: listings.FieldAmenities, Value: 1}}},
	})
	return err
}

func (r *ListingRepository) Find(ctx context.Context, expr filter.Expression, opts listings.FindOptions) ([]*listings.Listing, error) {
	query, err := compileFilter(expr)
	if err != nil {
		return nil, err
	}
	findOpts := options.Find()
	if s := compileSort(opts.Sort); s != nil {
		findOpts.SetSort(s)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(int64(opts.Skip))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	cur, err := r.col.Find(ctx, query, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []listingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*listings.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toListing())
	}
	return out, nil
}

func (r *ListingRepository) Count(ctx context.Context, expr filter.Expression) (int, error) {
	query, err := compileFilter(expr)
	if err != nil {
		return 0, err
	}
	n, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *ListingRepository) Distinct(ctx context.Context, field string) ([]string, error) {
	raw, err := r.col.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *ListingRepository) PriceStats(ctx context.Context) (listings.PriceStats, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "minPrice", Value: bson.D{{Key: "$min", Value: "$" + listings.FieldPrice}}},
			{Key: "maxPrice", Value: bson.D{{Key: "$max", Value: "$" + listings.FieldPrice}}},
			{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$" + listings.FieldPrice}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return listings.PriceStats{}, false, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Min float64 `bson:"minPrice"`
		Max float64 `bson:"maxPrice"`
		Avg float64 `bson:"avgPrice"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return listings.PriceStats{}, false, err
	}
	if len(rows) == 0 {
		return listings.PriceStats{}, false, nil
	}
	return listings.PriceStats{Min: rows[0].Min, Max: rows[0].Max, Avg: rows[0].Avg}, true, nil
}

func (r *ListingRepository) ByID(ctx context.Context, id listings.ListingID) (*listings.Listing, error) {
	var doc listingDocument
	err := r.col.FindOne(ctx, bson.D{{Key: listings.FieldID, Value: idValue(id)}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, listings.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toListing(), nil
}

// idValue maps a public id to the stored _id. Seeded documents carry ObjectIDs;
// anything that is not a valid hex ObjectID is looked up as a plain string.
func idValue(id listings.ListingID) any {
	if oid, err := primitive.ObjectIDFromHex(string(id)); err == nil {
		return oid
	}
	return string(id)
}

type listingDocument struct {
	ID              bson.RawValue `bson:"_id"`
	Title           string        `bson:"title"`
	Location        string        `bson:"location"`
	Distance        string        `bson:"distance"`
	Dates           string        `bson:"dates"`
	Price           float64       `bson:"price"`
	Rating          float64       `bson:"rating"`
	Reviews         int           `bson:"reviews"`
	Images          []string      `bson:"images"`
	IsGuestFavorite bool          `bson:"isGuestFavorite"`
	City            string        `bson:"city"`
	Country         string        `bson:"country"`
	Description     string        `bson:"description"`
	Type            string        `bson:"type"`
	Amenities       []string      `bson:"amenities"`
	MaxGuests       int           `bson:"maxGuests"`
	Bedrooms        int           `bson:"bedrooms"`
	Bathrooms       int           `bson:"bathrooms"`
	InstantBook     bool          `bson:"instantBook"`
	CreatedAt       time.Time     `bson:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt"`
}

func (d listingDocument) toListing() *listings.Listing {
	l := &listings.Listing{
		ID:              listings.ListingID(rawIDString(d.ID)),
		Title:           d.Title,
		Location:        d.Location,
		Distance:        d.Distance,
		Dates:           d.Dates,
		Price:           d.Price,
		Rating:          d.Rating,
		Reviews:         d.Reviews,
		Images:          d.Images,
		IsGuestFavorite: d.IsGuestFavorite,
		City:            d.City,
		Country:         d.Country,
		Description:     d.Description,
		PropertyType:    d.Type,
		Amenities:       d.Amenities,
		MaxGuests:       d.MaxGuests,
		Bedrooms:        d.Bedrooms,
		Bathrooms:       d.Bathrooms,
		InstantBook:     d.InstantBook,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
	l.ApplyDefaults()
	return l
}

func rawIDString(v bson.RawValue) string {
	switch v.Type {
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	case bsontype.String:
		return v.StringValue()
	case bsontype.Type(0):
		return ""
	}
	return fmt.Sprint(v)
}
