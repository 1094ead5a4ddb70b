package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"edulearn/internal/domain/entity"
	"edulearn/internal/domain/repository"
	"edulearn/pkg/errors"
	"edulearn/pkg/logger"
)

type firestoreUserRepository struct {
	client  *firestore.Client
	timeout time.Duration
}

func NewFirestoreUserRepository(client *firestore.Client, timeout time.Duration) repository.UserRepository {
	return &firestoreUserRepository{
		client:  client,
		timeout: timeout,
	}
}

func (r *firestoreUserRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := withRetry(ctx, "create user", func(ctx context.Context) error {
		_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
		return err
	})
	if err != nil {
		return storeErr("create user", err)
	}

	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", nil)
		}
		return nil, storeErr("get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Persistence("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.client.Collection("users").Doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, storeErr("batch get users", err)
	}

	var users []*entity.User
	for _, doc := range docs {
		if !doc.Exists() {
			logger.Warn("User document %s referenced but missing", doc.Ref.ID)
			continue
		}
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			logger.Warn("Skipping malformed user document %s: %v", doc.Ref.ID, err)
			continue
		}
		users = append(users, &user)
	}

	return users, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	query := r.client.Collection("users").Where("email", "==", email).Limit(1)

	doc, err := query.Documents(ctx).Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("User", nil)
		}
		return nil, storeErr("query user by email", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Persistence("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := withRetry(ctx, "update user", func(ctx context.Context) error {
		_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
		return err
	})
	if err != nil {
		return storeErr("update user", err)
	}

	return nil
}
