package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moviecatalog/catalogservice/internal/domain"
)

// CollectionRepository persists saved movies keyed by their upstream id.
type CollectionRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

type movieDoc struct {
	ID       string `bson:"_id"`
	Title    string `bson:"title"`
	Year     string `bson:"year"`
	Rated    string `bson:"rated"`
	Released string `bson:"released"`
	Runtime  string `bson:"runtime"`
	Genre    string `bson:"genre"`
	Director string `bson:"director"`
	Writer   string `bson:"writer"`
	Actors   string `bson:"actors"`
	Plot     string `bson:"plot"`
	SavedAt  int64  `bson:"savedAt"`
}

func NewCollectionRepository(client *mongo.Client, dbName, collectionName string) *CollectionRepository {
	return &CollectionRepository{
		collection: client.Database(dbName).Collection(collectionName),
		now:        time.Now,
	}
}

func Connect(ctx context.Context, uri string, extra ...*options.ClientOptions) (*mongo.Client, error) {
	opts := append([]*options.ClientOptions{options.Client().ApplyURI(uri)}, extra...)
	client, err := mongo.Connect(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *CollectionRepository) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.collection == nil {
		return nil
	}
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "savedAt", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, models)
	return err
}

// Insert replaces any stored record with the same id. A replaced record
// moves to the end of the save order.
func (r *CollectionRepository) Insert(ctx context.Context, record domain.MovieRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	doc := toDoc(record, r.now().UTC().UnixNano())
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *CollectionRepository) Get(ctx context.Context, id string) (domain.MovieRecord, error) {
	var doc movieDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.MovieRecord{}, domain.ErrNotFound
		}
		return domain.MovieRecord{}, err
	}
	return fromDoc(doc), nil
}

func (r *CollectionRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CollectionRepository) ListAll(ctx context.Context) ([]domain.MovieRecord, error) {
	return r.find(ctx, bson.M{})
}

// SearchByActor matches actor as a case-insensitive substring of the actors field.
func (r *CollectionRepository) SearchByActor(ctx context.Context, actor string) ([]domain.MovieRecord, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return []domain.MovieRecord{}, nil
	}
	return r.find(ctx, actorFilter(actor))
}

func (r *CollectionRepository) find(ctx context.Context, filter bson.M) ([]domain.MovieRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "savedAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []movieDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return fromDocs(docs), nil
}

func actorFilter(actor string) bson.M {
	return bson.M{"actors": bson.M{
		"$regex":   regexp.QuoteMeta(actor),
		"$options": "i",
	}}
}

func toDoc(m domain.MovieRecord, savedAt int64) movieDoc {
	return movieDoc{
		ID:       strings.TrimSpace(m.ID),
		Title:    m.Title,
		Year:     m.Year,
		Rated:    m.Rated,
		Released: m.Released,
		Runtime:  m.Runtime,
		Genre:    m.Genre,
		Director: m.Director,
		Writer:   m.Writer,
		Actors:   m.Actors,
		Plot:     m.Plot,
		SavedAt:  savedAt,
	}
}

func fromDoc(doc movieDoc) domain.MovieRecord {
	return domain.MovieRecord{
		ID:       doc.ID,
		Title:    doc.Title,
		Year:     doc.Year,
		Rated:    doc.Rated,
		Released: doc.Released,
		Runtime:  doc.Runtime,
		Genre:    doc.Genre,
		Director: doc.Director,
		Writer:   doc.Writer,
		Actors:   doc.Actors,
		Plot:     doc.Plot,
	}
}

func fromDocs(docs []movieDoc) []domain.MovieRecord {
	records := make([]domain.MovieRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromDoc(doc))
	}
	return records
}
