package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"b2y-backend/internal/platform/domain"
)

const usersCollection = "users"

// firestoreStore keeps one document per user under users/{uid}, with the
// platform sub-records nested beneath a "connections" map field. The user
// document also carries profile fields owned by other parts of the product;
// merge writes keep those untouched.
type firestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) CredentialStore {
	return &firestoreStore{
		client: client,
	}
}

// userDoc decodes only the connections field; profile fields are ignored.
type userDoc struct {
	Connections map[string]domain.PlatformConnection `firestore:"connections"`
}

func (s *firestoreStore) Get(ctx context.Context, userID string) (*domain.ConnectionRecord, error) {
	snap, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, &domain.StorageError{Err: err}
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, &domain.StorageError{Err: err}
	}

	record := &domain.ConnectionRecord{
		UserID:      userID,
		Connections: make(map[domain.Platform]domain.PlatformConnection, len(doc.Connections)),
	}
	for name, conn := range doc.Connections {
		record.Connections[domain.Platform(name)] = conn
	}
	return record, nil
}

func (s *firestoreStore) UpsertPlatform(ctx context.Context, userID string, platform domain.Platform, conn domain.PlatformConnection) error {
	// Merge set: replaces the whole platform sub-record, leaves everything
	// else in the document alone, and creates the document when missing.
	_, err := s.client.Collection(usersCollection).Doc(userID).Set(ctx, map[string]interface{}{
		"connections": map[string]interface{}{
			string(platform): conn,
		},
	}, firestore.MergeAll)
	if err != nil {
		return &domain.StorageError{Err: err}
	}
	return nil
}

func (s *firestoreStore) DeletePlatform(ctx context.Context, userID string, platform domain.Platform) error {
	_, err := s.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{
			FieldPath: firestore.FieldPath{"connections", string(platform)},
			Value:     firestore.Delete,
		},
	})
	if err != nil {
		// No document means nothing to disconnect.
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return &domain.StorageError{Err: err}
	}
	return nil
}

func (s *firestoreStore) ListConnections(ctx context.Context, userID string) (domain.StatusMap, error) {
	record, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	statusMap := make(domain.StatusMap, len(domain.Platforms))
	for _, p := range domain.Platforms {
		_, connected := record.Connection(p)
		statusMap[p] = connected
	}
	return statusMap, nil
}
