package store

import (
	"math"
	"testing"

	"github.com/cadupuy/airbnb-backend/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func float(v float64) *float64 { return &v }

func stage(t *testing.T, d bson.D) (string, interface{}) {
	t.Helper()
	require.Len(t, d, 1)
	return d[0].Key, d[0].Value
}

func TestRoomFilter(t *testing.T) {
	tcases := []struct {
		name   string
		filter domain.RoomFilter
		want   bson.M
	}{
		{name: "empty", filter: domain.RoomFilter{}, want: bson.M{}},
		{
			name:   "title is escaped and case insensitive",
			filter: domain.RoomFilter{Title: "loft.paris"},
			want:   bson.M{"title": primitive.Regex{Pattern: `loft\.paris`, Options: "i"}},
		},
		{
			name:   "min only",
			filter: domain.RoomFilter{PriceMin: float(40)},
			want:   bson.M{"price": bson.M{"$gte": 40.0}},
		},
		{
			name:   "both bounds",
			filter: domain.RoomFilter{PriceMin: float(40), PriceMax: float(200)},
			want:   bson.M{"price": bson.M{"$gte": 40.0, "$lte": 200.0}},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, roomFilter(tc.filter))
		})
	}
}

func TestRoomSort(t *testing.T) {
	assert.Nil(t, roomSort(""))
	assert.Equal(t, bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}, roomSort("price-asc"))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}, roomSort("price-desc"))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}, roomSort("anything"))
}

func TestRoomSearchPipelinePaging(t *testing.T) {
	tcases := []struct {
		name string
		page int
		skip interface{}
	}{
		{name: "no page", page: 0, skip: nil},
		{name: "first page", page: 1, skip: nil},
		{name: "third page", page: 3, skip: int64(10)},
		{name: "page past the offset range", page: 3689348814741910324, skip: int64(math.MaxInt64)},
		{name: "page wrapping to a negative offset", page: 1844674407370955163, skip: int64(math.MaxInt64)},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			pipeline := roomSearchPipeline(domain.RoomFilter{Page: tc.page})

			var skip, limit interface{}
			for _, s := range pipeline {
				key, value := stage(t, s)
				switch key {
				case "$skip":
					skip = value
				case "$limit":
					limit = value
				}
			}
			assert.Equal(t, tc.skip, skip)
			assert.Equal(t, int64(domain.RoomsPageSize), limit)
		})
	}
}

func TestRoomSearchPipelineShape(t *testing.T) {
	pipeline := roomSearchPipeline(domain.RoomFilter{Title: "loft", Sort: "price-asc", Page: 2})

	var keys []string
	for _, s := range pipeline {
		key, _ := stage(t, s)
		keys = append(keys, key)
	}
	assert.Equal(t, []string{"$match", "$sort", "$skip", "$limit", "$lookup", "$unwind", "$project"}, keys)

	_, project := stage(t, pipeline[len(pipeline)-1])
	assert.Equal(t, bson.D{{Key: "description", Value: 0}}, project)
}

func TestRoomDetailPipelineKeepsDescription(t *testing.T) {
	id := primitive.NewObjectID()
	pipeline := roomDetailPipeline(id)

	key, match := stage(t, pipeline[0])
	assert.Equal(t, "$match", key)
	assert.Equal(t, bson.M{"_id": id}, match)
	for _, s := range pipeline {
		key, _ := stage(t, s)
		assert.NotEqual(t, "$project", key)
	}
}

func TestRoomHasFreePhotoSlot(t *testing.T) {
	id := primitive.NewObjectID()
	assert.Equal(t, bson.M{"_id": id, "photos.4": bson.M{"$exists": false}}, roomHasFreePhotoSlot(id))
}

func TestPatchUpdates(t *testing.T) {
	title := "Loft"
	price := 120.0
	assert.Equal(t,
		bson.M{"$set": bson.M{"title": "Loft", "price": 120.0, "location": []float64{48.8, 2.3}}},
		roomPatchUpdate(domain.RoomPatch{Title: &title, Price: &price, Location: domain.NewLocation(48.8, 2.3)}),
	)

	username := "jdoe"
	assert.Equal(t,
		bson.M{"$set": bson.M{"account.username": "jdoe"}},
		accountPatchUpdate(domain.AccountPatch{Username: &username}),
	)
}

func TestRemoveFirstPhotoLocatesByAssetID(t *testing.T) {
	pipeline := removeFirstPhoto("a")
	require.Len(t, pipeline, 1)

	key, set := stage(t, pipeline[0])
	assert.Equal(t, "$set", key)
	let := set.(bson.D)[0].Value.(bson.D)[0]
	assert.Equal(t, "$let", let.Key)
	vars := let.Value.(bson.D)[0]
	assert.Equal(t, "vars", vars.Key)
	assert.Equal(t,
		bson.D{{Key: "at", Value: bson.D{{Key: "$indexOfArray", Value: bson.A{"$photos.picture_id", "a"}}}}},
		vars.Value,
	)
}
