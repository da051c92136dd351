// Package mongo keeps users and tasks as documents in two MongoDB collections.
// Task documents carry the owner's ObjectID, and every task query filters on it.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/repository"
)

const (
	collectionUsers = "users"
	collectionTasks = "tasks"
)

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name"`
	PasswordHash string             `bson:"password"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Owner       primitive.ObjectID `bson:"owner"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	DueDate     *time.Time         `bson:"dueDate,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type Store struct {
	client *mongodrv.Client
	users  *mongodrv.Collection
	tasks  *mongodrv.Collection
	now    func() time.Time
}

// New wraps an already connected database. The client is disconnected on Close.
func New(client *mongodrv.Client, db *mongodrv.Database) *Store {
	return &Store{
		client: client,
		users:  db.Collection(collectionUsers),
		tasks:  db.Collection(collectionTasks),
		now:    time.Now,
	}
}

// EnsureIndexes creates the unique email index and the owner listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongodrv.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	}); err != nil {
		return err
	}
	_, err := s.tasks.Indexes().CreateOne(ctx, mongodrv.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("owner_created"),
	})
	return err
}

func (s *Store) Users() repository.UserRepository { return userRepository{s} }
func (s *Store) Tasks() repository.TaskRepository { return taskRepository{s} }
func (s *Store) Driver() string                    { return "mongo" }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// stamp truncates to the millisecond precision BSON dates keep.
func (s *Store) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func objectID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

type userRepository struct{ s *Store }

func (r userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &domain.User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

func (r userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	user.Email = domain.NormalizeEmail(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.s.stamp()
	}

	doc := userDocument{
		ID:           primitive.NewObjectID(),
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if _, err := r.s.users.InsertOne(ctx, doc); err != nil {
		if mongodrv.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	user.ID = doc.ID.Hex()
	return nil
}

type taskRepository struct{ s *Store }

func (r taskRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	filter, ok := scoped(ownerID, id)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	var doc taskDocument
	if err := r.s.tasks.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task := doc.toDomain()
	return &task, nil
}

func (r taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	owner, ok := objectID(filter.OwnerID)
	if !ok {
		return []domain.Task{}, nil
	}
	query := bson.M{"owner": owner}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(repository.ClampLimit(filter.Limit)))
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.s.tasks.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, docs[i].toDomain())
	}
	return tasks, nil
}

func (r taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	owner, ok := objectID(task.OwnerID)
	if !ok {
		return domain.ErrInvalidPayload
	}
	task.Touch(r.s.stamp())

	doc := fromDomain(task, owner)
	doc.ID = primitive.NewObjectID()
	if _, err := r.s.tasks.InsertOne(ctx, doc); err != nil {
		return err
	}
	task.ID = doc.ID.Hex()
	return nil
}

func (r taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	filter, ok := scoped(task.OwnerID, task.ID)
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.UpdatedAt = r.s.stamp()

	set := bson.M{
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"priority":    string(task.Priority),
		"updatedAt":   task.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if task.DueDate != nil {
		set["dueDate"] = task.DueDate.UTC()
	} else {
		update["$unset"] = bson.M{"dueDate": ""}
	}

	var doc taskDocument
	err := r.s.tasks.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	task.CreatedAt = doc.CreatedAt
	return nil
}

func (r taskRepository) Delete(ctx context.Context, ownerID, id string) error {
	filter, ok := scoped(ownerID, id)
	if !ok {
		return domain.ErrTaskNotFound
	}
	res, err := r.s.tasks.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// scoped builds the {_id, owner} filter used by every single-task query.
func scoped(ownerID, id string) (bson.M, bool) {
	owner, ok := objectID(ownerID)
	if !ok {
		return nil, false
	}
	oid, ok := objectID(id)
	if !ok {
		return nil, false
	}
	return bson.M{"_id": oid, "owner": owner}, true
}

func fromDomain(task *domain.Task, owner primitive.ObjectID) taskDocument {
	doc := taskDocument{
		Owner:       owner,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.DueDate != nil {
		due := task.DueDate.UTC()
		doc.DueDate = &due
	}
	return doc
}

func (d taskDocument) toDomain() domain.Task {
	return domain.Task{
		ID:          d.ID.Hex(),
		OwnerID:     d.Owner.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.Status(d.Status),
		Priority:    domain.Priority(d.Priority),
		DueDate:     d.DueDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

var _ repository.Store = (*Store)(nil)
