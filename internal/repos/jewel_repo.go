package repos

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edeng/internal/domain"
)

// ErrNoDocument is returned when the requested document does not exist.
var ErrNoDocument = errors.New("no such document")

type JewelRepo struct {
	col *mongo.Collection
}

func NewJewelRepo(db *mongo.Database) *JewelRepo {
	return &JewelRepo{col: db.Collection("jewelry")}
}

func criteria(f domain.JewelFilter) bson.M {
	c := bson.M{}
	if f.Txt != "" {
		c["vendor"] = bson.M{"$regex": regexp.QuoteMeta(f.Txt), "$options": "i"}
	}
	if f.MaxPrice > 0 {
		c["price"] = bson.M{"$lte": f.MaxPrice}
	}
	if f.Designed != nil {
		c["designed"] = *f.Designed
	}
	if f.Type != "" {
		c["type"] = f.Type
	}
	return c
}

func (r *JewelRepo) Query(ctx context.Context, f domain.JewelFilter) ([]domain.Jewel, error) {
	cur, err := r.col.Find(ctx, criteria(f))
	if err != nil {
		return nil, err
	}
	jewels := []domain.Jewel{}
	if err := cur.All(ctx, &jewels); err != nil {
		return nil, err
	}
	return jewels, nil
}

func (r *JewelRepo) Get(ctx context.Context, id string) (domain.Jewel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Jewel{}, ErrNoDocument
	}
	var j domain.Jewel
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Jewel{}, ErrNoDocument
	}
	return j, err
}

func (r *JewelRepo) Insert(ctx context.Context, j domain.Jewel) (domain.Jewel, error) {
	j.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, j); err != nil {
		return domain.Jewel{}, err
	}
	return j, nil
}

// Update patches the mutable fields of an existing jewel. Owner is
// deliberately not in the patch set.
func (r *JewelRepo) Update(ctx context.Context, j domain.Jewel) (domain.Jewel, error) {
	patch := bson.M{
		"vendor":         j.Vendor,
		"speed":          j.Speed,
		"price":          j.Price,
		"fakeprice":      j.FakePrice,
		"quantity":       j.Quantity,
		"img":            j.Img,
		"imghover":       j.ImgHover,
		"imgthird":       j.ImgThird,
		"isSoldOut":      j.IsSoldOut,
		"type":           j.Type,
		"designed":       j.Designed,
		"descriptionENG": j.DescriptionENG,
		"descriptionHEB": j.DescriptionHEB,
	}
	res, err := r.col.UpdateByID(ctx, j.ID, bson.M{"$set": patch})
	if err != nil {
		return domain.Jewel{}, err
	}
	if res.MatchedCount == 0 {
		return domain.Jewel{}, ErrNoDocument
	}
	return j, nil
}

func (r *JewelRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNoDocument
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

// DecreaseQuantity clamps quantity at zero and recomputes isSoldOut in
// one pipeline update, so concurrent purchases cannot drive it negative.
func (r *JewelRepo) DecreaseQuantity(ctx context.Context, id string, amount int) (domain.Jewel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Jewel{}, ErrNoDocument
	}
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"quantity": bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{
				bson.M{"$ifNull": bson.A{"$quantity", 0}}, amount,
			}}}},
		}},
		bson.M{"$set": bson.M{
			"isSoldOut": bson.M{"$eq": bson.A{"$quantity", 0}},
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var j domain.Jewel
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, pipeline, opts).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Jewel{}, ErrNoDocument
	}
	return j, err
}
