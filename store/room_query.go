package store

import (
	"fmt"
	"regexp"

	"github.com/cadupuy/airbnb-backend/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// roomFilter translates the search parameters into a $match document.
func roomFilter(f domain.RoomFilter) bson.M {
	filter := bson.M{}
	if f.Title != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"}
	}

	price := bson.M{}
	if f.PriceMin != nil {
		price["$gte"] = *f.PriceMin
	}
	if f.PriceMax != nil {
		price["$lte"] = *f.PriceMax
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

// roomSort returns nil when no sort was asked for, which keeps insertion order.
func roomSort(sort string) bson.D {
	switch sort {
	case "":
		return nil
	case domain.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	}
}

// ownerLookup replaces the owner id in "user" by {_id, account} of that owner.
func ownerLookup() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: UsersCollection},
			{Key: "let", Value: bson.D{{Key: "owner", Value: "$user"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$_id", "$$owner"}},
				}}}}},
				bson.D{{Key: "$project", Value: bson.D{{Key: "account", Value: 1}}}},
			}},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func roomSearchPipeline(f domain.RoomFilter) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: roomFilter(f)}},
	}
	if sort := roomSort(f.Sort); sort != nil {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	}
	if offset := f.Offset(); offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: offset}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(domain.RoomsPageSize)}})
	pipeline = append(pipeline, ownerLookup()...)
	return append(pipeline, bson.D{{Key: "$project", Value: bson.D{{Key: "description", Value: 0}}}})
}

func roomDetailPipeline(id primitive.ObjectID) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$limit", Value: int64(1)}},
	}
	return append(pipeline, ownerLookup()...)
}

func roomsByOwnerPipeline(ownerID primitive.ObjectID) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": ownerID}}},
	}
	return append(pipeline, ownerLookup()...)
}

// roomHasFreePhotoSlot matches a room only while it holds fewer than the
// maximum number of photos.
func roomHasFreePhotoSlot(id primitive.ObjectID) bson.M {
	return bson.M{
		"_id": id,
		fmt.Sprintf("photos.%d", domain.MaxPhotosPerRoom-1): bson.M{"$exists": false},
	}
}

// removeFirstPhoto is an update pipeline dropping the first photo that
// carries assetID. The other photos keep their order.
func removeFirstPhoto(assetID string) mongo.Pipeline {
	at := bson.D{{Key: "$indexOfArray", Value: bson.A{"$photos.picture_id", assetID}}}
	kept := bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$range", Value: bson.A{0, bson.D{{Key: "$size", Value: "$photos"}}}}}},
		{Key: "as", Value: "i"},
		{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$i", "$$at"}}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "photos", Value: bson.D{{Key: "$let", Value: bson.D{
			{Key: "vars", Value: bson.D{{Key: "at", Value: at}}},
			{Key: "in", Value: bson.D{{Key: "$map", Value: bson.D{
				{Key: "input", Value: kept},
				{Key: "as", Value: "i"},
				{Key: "in", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$photos", "$$i"}}}},
			}}}},
		}}}}}}},
	}
}

func roomPatchUpdate(patch domain.RoomPatch) bson.M {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Location != nil {
		set["location"] = patch.Location.Pair()
	}
	return bson.M{"$set": set}
}

func accountPatchUpdate(patch domain.AccountPatch) bson.M {
	set := bson.M{}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Username != nil {
		set["account.username"] = *patch.Username
	}
	if patch.Name != nil {
		set["account.name"] = *patch.Name
	}
	if patch.Description != nil {
		set["account.description"] = *patch.Description
	}
	return bson.M{"$set": set}
}
