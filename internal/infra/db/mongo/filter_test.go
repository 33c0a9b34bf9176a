package mongo

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"staysearch/internal/domain/filter"
	"staysearch/internal/domain/listings"
)

func TestCompileFilter_MergesRangeOnSameField(t *testing.T) {
	expr := filter.Empty().
		And(filter.GTE("price", 50)).
		And(filter.LTE("price", 150)).
		And(filter.Eq("isGuestFavorite", true))

	got, err := compileFilter(expr)
	if err != nil {
		t.Fatalf("compileFilter: %v", err)
	}
	want := bson.D{
		{Key: "price", Value: bson.D{{Key: "$gte", Value: 50.0}, {Key: "$lte", Value: 150.0}}},
		{Key: "isGuestFavorite", Value: bson.D{{Key: "$eq", Value: true}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
}

func TestCompileFilter_RepeatedOperatorMovesToAnd(t *testing.T) {
	expr := filter.Empty().
		And(filter.GTE("price", 10)).
		And(filter.GTE("price", 20))

	got, err := compileFilter(expr)
	if err != nil {
		t.Fatalf("compileFilter: %v", err)
	}
	want := bson.D{
		{Key: "price", Value: bson.D{{Key: "$gte", Value: 10.0}}},
		{Key: "$and", Value: bson.A{bson.D{{Key: "price", Value: bson.D{{Key: "$gte", Value: 20.0}}}}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
}

func TestCompileFilter_ContainsIsEscapedCaseInsensitive(t *testing.T) {
	got, err := compileFilter(filter.Empty().And(filter.ContainsFold("city", "St. Tropez (Var)")))
	if err != nil {
		t.Fatalf("compileFilter: %v", err)
	}
	want := bson.D{{Key: "city", Value: bson.D{{Key: "$regex", Value: primitive.Regex{Pattern: `St\. Tropez \(Var\)`, Options: "i"}}}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
}

func TestCompileFilter_Groups(t *testing.T) {
	dest := []filter.Clause{
		filter.ContainsFold("location", "paris"),
		filter.ContainsFold("title", "paris"),
	}
	pets := filter.In("amenities", "Pet-friendly", "Pets allowed")
	destDocs := bson.A{
		bson.D{{Key: "location", Value: bson.D{{Key: "$regex", Value: primitive.Regex{Pattern: "paris", Options: "i"}}}}},
		bson.D{{Key: "title", Value: bson.D{{Key: "$regex", Value: primitive.Regex{Pattern: "paris", Options: "i"}}}}},
	}
	petsDoc := bson.D{{Key: "amenities", Value: bson.D{{Key: "$in", Value: []string{"Pet-friendly", "Pets allowed"}}}}}

	t.Run("single group is $or", func(t *testing.T) {
		got, err := compileFilter(filter.Empty().AnyOf(dest...))
		if err != nil {
			t.Fatalf("compileFilter: %v", err)
		}
		want := bson.D{{Key: "$or", Value: destDocs}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v\nwant %v", got, want)
		}
	})

	t.Run("two groups are $and of $or", func(t *testing.T) {
		got, err := compileFilter(filter.Empty().AnyOf(dest...).AnyOf(pets))
		if err != nil {
			t.Fatalf("compileFilter: %v", err)
		}
		want := bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$or", Value: destDocs}},
			bson.D{{Key: "$or", Value: bson.A{petsDoc}}},
		}}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v\nwant %v", got, want)
		}
	})

	t.Run("merged group is one $or", func(t *testing.T) {
		got, err := compileFilter(filter.Empty().AnyOf(dest...).ExtendLastGroup(pets))
		if err != nil {
			t.Fatalf("compileFilter: %v", err)
		}
		or, ok := got[0].Value.(bson.A)
		if got[0].Key != "$or" || !ok || len(or) != 3 {
			t.Fatalf("expected a three-way $or, got %v", got)
		}
	})
}

func TestCompileFilter_Empty(t *testing.T) {
	got, err := compileFilter(filter.Empty())
	if err != nil {
		t.Fatalf("compileFilter: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty document, got %v", got)
	}
}

func TestCompileFilter_RejectsMistypedValues(t *testing.T) {
	bad := filter.Clause{Field: "city", Op: filter.OpContainsFold, Value: 3}
	if _, err := compileFilter(filter.Empty().And(bad)); err == nil {
		t.Fatal("expected error for non-string contains value")
	}
	unknown := filter.Clause{Field: "city", Op: filter.Op("near")}
	if _, err := compileFilter(filter.Empty().AnyOf(unknown)); err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestCompileSort(t *testing.T) {
	if compileSort(nil) != nil {
		t.Fatal("nil sort should compile to nil")
	}
	got := compileSort(&filter.Sort{Field: "createdAt", Descending: true})
	want := bson.D{{Key: "createdAt", Value: -1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	got = compileSort(&filter.Sort{Field: "price"})
	if got[0].Value != 1 {
		t.Fatalf("ascending direction = %v", got[0].Value)
	}
}

func TestIDValue(t *testing.T) {
	hex := "65a1b2c3d4e5f60718293a4b"
	if _, ok := idValue(listings.ListingID(hex)).(primitive.ObjectID); !ok {
		t.Fatal("hex id should map to an ObjectID")
	}
	if v, ok := idValue("fixture-1").(string); !ok || v != "fixture-1" {
		t.Fatalf("plain id mapped to %v", v)
	}
}

func TestListingDocument_ToListingAppliesDefaults(t *testing.T) {
	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: oid},
		{Key: "title", Value: "Loft"},
		{Key: "price", Value: int32(120)},
		{Key: "type", Value: "Loft"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc listingDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	l := doc.toListing()
	if string(l.ID) != oid.Hex() {
		t.Fatalf("id = %q want %q", l.ID, oid.Hex())
	}
	if l.Price != 120 || l.PropertyType != "Loft" {
		t.Fatalf("unexpected listing %+v", l)
	}
	if l.MaxGuests != listings.DefaultMaxGuests || l.Bedrooms != listings.DefaultBedrooms || l.Bathrooms != listings.DefaultBathrooms {
		t.Fatalf("defaults not applied: %+v", l)
	}
}
