package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ykvlv/birthday-bot/internal/domain"
)

const (
	personalCollection      = "personal_birthdays"
	groupCollection         = "group_birthdays"
	trackedUsersCollection  = "tracked_users"
	trackedGroupsCollection = "tracked_groups"
)

type personalDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   int64              `bson:"ownerId"`
	Name      string             `bson:"name"`
	Date      string             `bson:"date"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type groupDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    int64              `bson:"userId"`
	ChatID    int64              `bson:"chatId"`
	Date      string             `bson:"date"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type trackedDoc struct {
	ID        int64     `bson:"_id"`
	FirstSeen time.Time `bson:"firstSeen"`
}

// MongoRepo implements Repo on a MongoDB database, one collection per record kind.
type MongoRepo struct {
	client   *mongo.Client
	personal *mongo.Collection
	group    *mongo.Collection
	users    *mongo.Collection
	groups   *mongo.Collection
}

var _ Repo = (*MongoRepo)(nil)

// OpenMongo connects to uri, pings the server and creates the unique indexes.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(database)
	r := &MongoRepo{
		client:   client,
		personal: db.Collection(personalCollection),
		group:    db.Collection(groupCollection),
		users:    db.Collection(trackedUsersCollection),
		groups:   db.Collection(trackedGroupsCollection),
	}
	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return r, nil
}

func (r *MongoRepo) ensureIndexes(ctx context.Context) error {
	if _, err := r.personal.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "name", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}); err != nil {
		return err
	}
	_, err := r.group.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "chatId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "chatId", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	})
	return err
}

// Close disconnects the client.
func (r *MongoRepo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *MongoRepo) AddPersonal(ctx context.Context, b domain.PersonalBirthday) error {
	filter := bson.M{"ownerId": b.OwnerID, "name": b.Name, "date": b.Date}
	if err := r.personal.FindOne(ctx, filter).Err(); err == nil {
		return domain.ErrAlreadyExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	_, err := r.personal.InsertOne(ctx, personalDoc{
		OwnerID:   b.OwnerID,
		Name:      b.Name,
		Date:      b.Date,
		CreatedAt: createdAtTime(b.CreatedAt),
	})
	return mapInsertErr(err)
}

func (r *MongoRepo) DeletePersonal(ctx context.Context, ownerID int64, name string) error {
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: "_id", Value: 1}})
	err := r.personal.FindOneAndDelete(ctx, bson.M{"ownerId": ownerID, "name": name}, opts).Err()
	return mapDeleteErr(err)
}

func (r *MongoRepo) ListPersonal(ctx context.Context, ownerID int64) ([]domain.PersonalBirthday, error) {
	return r.findPersonal(ctx, bson.M{"ownerId": ownerID})
}

func (r *MongoRepo) FindPersonalByDayMonth(ctx context.Context, key string) ([]domain.PersonalBirthday, error) {
	return r.findPersonal(ctx, dayMonthFilter(key))
}

func (r *MongoRepo) findPersonal(ctx context.Context, filter bson.M) ([]domain.PersonalBirthday, error) {
	cur, err := r.personal.Find(ctx, filter, insertionOrder())
	if err != nil {
		return nil, err
	}
	var docs []personalDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]domain.PersonalBirthday, 0, len(docs))
	for _, d := range docs {
		res = append(res, domain.PersonalBirthday{
			OwnerID:   d.OwnerID,
			Name:      d.Name,
			Date:      d.Date,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return res, nil
}

func (r *MongoRepo) AddGroup(ctx context.Context, b domain.GroupBirthday) error {
	filter := bson.M{"userId": b.UserID, "chatId": b.ChatID}
	if err := r.group.FindOne(ctx, filter).Err(); err == nil {
		return domain.ErrAlreadyExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	_, err := r.group.InsertOne(ctx, groupDoc{
		UserID:    b.UserID,
		ChatID:    b.ChatID,
		Date:      b.Date,
		CreatedAt: createdAtTime(b.CreatedAt),
	})
	return mapInsertErr(err)
}

func (r *MongoRepo) DeleteGroup(ctx context.Context, userID, chatID int64) error {
	err := r.group.FindOneAndDelete(ctx, bson.M{"userId": userID, "chatId": chatID}).Err()
	return mapDeleteErr(err)
}

func (r *MongoRepo) ListGroup(ctx context.Context, chatID int64) ([]domain.GroupBirthday, error) {
	return r.findGroup(ctx, bson.M{"chatId": chatID})
}

func (r *MongoRepo) FindGroupByDayMonth(ctx context.Context, key string) ([]domain.GroupBirthday, error) {
	return r.findGroup(ctx, dayMonthFilter(key))
}

func (r *MongoRepo) findGroup(ctx context.Context, filter bson.M) ([]domain.GroupBirthday, error) {
	cur, err := r.group.Find(ctx, filter, insertionOrder())
	if err != nil {
		return nil, err
	}
	var docs []groupDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]domain.GroupBirthday, 0, len(docs))
	for _, d := range docs {
		res = append(res, domain.GroupBirthday{
			UserID:    d.UserID,
			ChatID:    d.ChatID,
			Date:      d.Date,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return res, nil
}

func (r *MongoRepo) TrackUser(ctx context.Context, userID int64) error {
	return upsertTracked(ctx, r.users, userID)
}

func (r *MongoRepo) TrackGroup(ctx context.Context, chatID int64) error {
	return upsertTracked(ctx, r.groups, chatID)
}

func (r *MongoRepo) CountTracked(ctx context.Context) (domain.Tracked, error) {
	users, err := r.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return domain.Tracked{}, err
	}
	groups, err := r.groups.CountDocuments(ctx, bson.D{})
	if err != nil {
		return domain.Tracked{}, err
	}
	return domain.Tracked{Users: int(users), Groups: int(groups)}, nil
}

func (r *MongoRepo) ListTrackedUsers(ctx context.Context) ([]int64, error) {
	return listTracked(ctx, r.users)
}

func (r *MongoRepo) ListTrackedGroups(ctx context.Context) ([]int64, error) {
	return listTracked(ctx, r.groups)
}

func upsertTracked(ctx context.Context, coll *mongo.Collection, id int64) error {
	_, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$setOnInsert": bson.M{"firstSeen": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func listTracked(ctx context.Context, coll *mongo.Collection) ([]int64, error) {
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "firstSeen", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []trackedDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// dayMonthFilter matches stored DD-MM-YYYY dates beginning with key.
func dayMonthFilter(key string) bson.M {
	return bson.M{"date": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(key) + "-"}}
}

func insertionOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

func createdAtTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// mapInsertErr turns a unique index violation from a racing insert into ErrAlreadyExists.
func mapInsertErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func mapDeleteErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}
