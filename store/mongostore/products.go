package mongostore

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	id, err := s.nextID(ctx, store.SequenceProducts)
	if err != nil {
		return err
	}
	row := *p
	row.ID = id
	if _, err := s.col(colProducts).InsertOne(ctx, row); err != nil {
		return fmt.Errorf("insert product: %w", translate(err))
	}
	*p = row
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := s.col(colProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	return p, translate(err)
}

func (s *Store) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return s.findProducts(ctx, bson.M{"_id": bson.M{"$in": store.UniqueIDs(ids)}}, bson.D{{Key: "_id", Value: 1}})
}

func (s *Store) ListProducts(ctx context.Context, q store.ProductQuery) ([]models.Product, error) {
	filter := bson.M{}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title.t1": re},
			bson.M{"title.t2": re},
			bson.M{"title.t3": re},
			bson.M{"title.t4": re},
			bson.M{"title.t5": re},
		}
	}
	sort := bson.D{}
	if f, ok := models.ProductSortFields[q.Sort]; ok && f.Field != "_id" {
		sort = append(sort, bson.E{Key: f.Field, Value: 1})
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	products, err := s.findProducts(ctx, filter, sort)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Store) findProducts(ctx context.Context, filter interface{}, sort bson.D) ([]models.Product, error) {
	cur, err := s.col(colProducts).Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) (models.Product, error) {
	set := patchFields(patch)
	if len(set) == 0 {
		return s.GetProduct(ctx, id)
	}
	var p models.Product
	err := s.col(colProducts).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	return p, translate(err)
}

// patchFields lists the document paths a patch touches.
func patchFields(patch models.ProductPatch) bson.M {
	set := bson.M{}
	add := func(path string, v *string) {
		if v != nil {
			set[path] = *v
		}
	}
	add("name", patch.Name)
	if patch.Price != nil {
		set["price"] = string(*patch.Price)
	}
	add("image", patch.Image)
	add("model", patch.Model)
	if patch.Year != nil {
		set["year"] = string(*patch.Year)
	}
	add("type", patch.Type)
	if t := patch.Title; t != nil {
		add("title.t1", t.T1)
		add("title.t2", t.T2)
		add("title.t3", t.T3)
		add("title.t4", t.T4)
		add("title.t5", t.T5)
	}
	return set
}

// DeleteProduct removes the product and its favorites, cart entries and orders in one transaction.
func (s *Store) DeleteProduct(ctx context.Context, id uint) (models.Product, store.CascadeResult, error) {
	var (
		p   models.Product
		res store.CascadeResult
	)
	err := s.inTransaction(ctx, func(sc mongo.SessionContext) error {
		res = store.CascadeResult{}
		if err := s.col(colProducts).FindOneAndDelete(sc, bson.M{"_id": id}).Decode(&p); err != nil {
			return translate(err)
		}
		byProduct := bson.M{"product": id}

		del, err := s.col(colFavorites).DeleteMany(sc, byProduct)
		if err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		res.Favorites = del.DeletedCount

		if del, err = s.col(colCarts).DeleteMany(sc, byProduct); err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}
		res.CartItems = del.DeletedCount

		if del, err = s.col(colOrders).DeleteMany(sc, byProduct); err != nil {
			return fmt.Errorf("delete orders: %w", err)
		}
		res.Orders = del.DeletedCount
		return nil
	})
	if err != nil {
		return models.Product{}, store.CascadeResult{}, err
	}
	return p, res, nil
}
