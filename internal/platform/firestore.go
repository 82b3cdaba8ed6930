package platform

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements KeyValueStore on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to Firestore for the given project.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, eris.Wrap(err, "creating firestore client")
	}
	zap.L().Info("firestore client initialized", zap.String("project", projectID))
	return &FirestoreStore{client: client}, nil
}

// GetDocument fetches one document. A missing document returns nil data
// and no error.
func (s *FirestoreStore) GetDocument(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	doc, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "getting document %s/%s", collection, id)
	}
	return doc.Data(), nil
}

// SetDocument creates or overwrites a document.
func (s *FirestoreStore) SetDocument(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return eris.Wrapf(err, "setting document %s/%s", collection, id)
	}
	return nil
}

// QueryDocuments runs a single-field filter query.
func (s *FirestoreStore) QueryDocuments(ctx context.Context, collection, field, operator string, value interface{}) ([]map[string]interface{}, error) {
	iter := s.client.Collection(collection).Where(field, operator, value).Documents(ctx)
	defer iter.Stop()

	var results []map[string]interface{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "querying collection %s", collection)
		}
		results = append(results, doc.Data())
	}
	return results, nil
}

// DeleteDocument removes a document; deleting a missing document is not
// an error.
func (s *FirestoreStore) DeleteDocument(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return eris.Wrapf(err, "deleting document %s/%s", collection, id)
	}
	return nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
