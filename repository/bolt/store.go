// Package bolt stores users and tasks as JSON documents in an embedded BoltDB
// file. Tasks live in one nested bucket per owner, so scoping is structural.
package bolt

import (
	"context"
	"encoding/json"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskpulse/domain"
	boltInfra "github.com/fastygo/taskpulse/internal/infrastructure/bolt"
	"github.com/fastygo/taskpulse/repository"
)

var (
	bucketUsers   = []byte("users")
	bucketEmails  = []byte("users_by_email")
	bucketTasks   = []byte("tasks")
	allBucketKeys = []string{string(bucketUsers), string(bucketEmails), string(bucketTasks)}
)

type userDocument struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Store, error) {
	db, err := boltInfra.Open(path, allBucketKeys...)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Users() repository.UserRepository { return userRepository{s} }
func (s *Store) Tasks() repository.TaskRepository { return taskRepository{s} }
func (s *Store) Driver() string                    { return "bolt" }

func (s *Store) Ping(context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketTasks) == nil {
			return bbolt.ErrBucketNotFound
		}
		return nil
	})
}

func (s *Store) Close(context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats reports freelist and read transaction counters for /health.
func (s *Store) Stats() map[string]interface{} {
	if s == nil || s.db == nil {
		return nil
	}
	st := s.db.Stats()
	return map[string]interface{}{
		"freePages":     st.FreePageN,
		"pendingPages":  st.PendingPageN,
		"freelistBytes": st.FreelistInuse,
		"readTx":        st.TxN,
		"openReadTx":    st.OpenTxN,
	}
}

type userRepository struct{ s *Store }

func (r userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	var user *domain.User
	err := r.s.db.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = getUser(tx, id)
		return err
	})
	return user, err
}

func (r userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	var user *domain.User
	err := r.s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketEmails).Get([]byte(domain.NormalizeEmail(email)))
		if id == nil {
			return domain.ErrUserNotFound
		}
		var err error
		user, err = getUser(tx, string(id))
		return err
	})
	return user, err
}

func (r userRepository) Create(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	user.Email = domain.NormalizeEmail(user.Email)
	if user.ID == "" {
		user.ID = repository.NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.s.now().UTC()
	}

	payload, err := json.Marshal(userDocument{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return err
	}

	// Index and document are written in one transaction.
	return r.s.db.Update(func(tx *bbolt.Tx) error {
		emails := tx.Bucket(bucketEmails)
		if emails.Get([]byte(user.Email)) != nil {
			return domain.ErrDuplicateEmail
		}
		if err := emails.Put([]byte(user.Email), []byte(user.ID)); err != nil {
			return err
		}
		return tx.Bucket(bucketUsers).Put([]byte(user.ID), payload)
	})
}

func getUser(tx *bbolt.Tx, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUserNotFound
	}
	raw := tx.Bucket(bucketUsers).Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrUserNotFound
	}
	var doc userDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           doc.ID,
		Email:        doc.Email,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

type taskRepository struct{ s *Store }

func (r taskRepository) GetByID(_ context.Context, ownerID, id string) (*domain.Task, error) {
	var task *domain.Task
	err := r.s.db.View(func(tx *bbolt.Tx) error {
		var err error
		task, err = getTask(ownerBucket(tx, ownerID), id)
		return err
	})
	return task, err
}

func (r taskRepository) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	err := r.s.db.View(func(tx *bbolt.Tx) error {
		b := ownerBucket(tx, filter.OwnerID)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return err
			}
			if filter.Status == "" || task.Status == filter.Status {
				tasks = append(tasks, task)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	repository.SortTasks(tasks)
	return repository.Page(tasks, filter), nil
}

func (r taskRepository) Create(_ context.Context, task *domain.Task) error {
	if task == nil || task.OwnerID == "" {
		return domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = repository.NewID()
	}
	task.Touch(r.s.now().UTC())

	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return r.s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(bucketTasks).CreateBucketIfNotExists([]byte(task.OwnerID))
		if err != nil {
			return err
		}
		return b.Put([]byte(task.ID), payload)
	})
}

func (r taskRepository) Update(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	return r.s.db.Update(func(tx *bbolt.Tx) error {
		b := ownerBucket(tx, task.OwnerID)
		existing, err := getTask(b, task.ID)
		if err != nil {
			return err
		}
		task.CreatedAt = existing.CreatedAt
		task.UpdatedAt = r.s.now().UTC()

		payload, err := json.Marshal(task)
		if err != nil {
			return err
		}
		return b.Put([]byte(task.ID), payload)
	})
}

func (r taskRepository) Delete(_ context.Context, ownerID, id string) error {
	return r.s.db.Update(func(tx *bbolt.Tx) error {
		b := ownerBucket(tx, ownerID)
		if _, err := getTask(b, id); err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
}

func ownerBucket(tx *bbolt.Tx, ownerID string) *bbolt.Bucket {
	if ownerID == "" {
		return nil
	}
	return tx.Bucket(bucketTasks).Bucket([]byte(ownerID))
}

func getTask(b *bbolt.Bucket, id string) (*domain.Task, error) {
	if b == nil || id == "" {
		return nil, domain.ErrTaskNotFound
	}
	raw := b.Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrTaskNotFound
	}
	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

var (
	_ repository.Store         = (*Store)(nil)
	_ repository.StatsReporter = (*Store)(nil)
)
