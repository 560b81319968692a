package store

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/money-tracker/internal/errs"
)

// Secrets path
// projects/{project}/secrets/{secretID}/versions/{version}

type secretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

type secretStore struct {
	client    secretAccessor
	projectID string
}

func NewSecretStore(client secretAccessor, projectID string) *secretStore {
	return &secretStore{client: client, projectID: projectID}
}

// versionName accepts a bare secret id, a secret resource name or a full
// version name. Anything without a version resolves to latest.
func (s *secretStore) versionName(secret string) string {
	name := secret
	if !strings.HasPrefix(name, "projects/") {
		name = fmt.Sprintf("projects/%s/secrets/%s", s.projectID, name)
	}
	if !strings.Contains(name, "/versions/") {
		name += "/versions/latest"
	}
	return name
}

// Get returns the payload of a secret version as a string.
func (s *secretStore) Get(ctx context.Context, secret string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.versionName(secret),
	})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return "", errs.NewNotFoundError(fmt.Sprintf("secret %s not found", secret))
		case codes.Unavailable, codes.DeadlineExceeded:
			return "", errs.NewExternalServiceError("secretmanager", "failed to access secret", true, err)
		default:
			return "", errs.NewExternalServiceError("secretmanager", "failed to access secret", false, err)
		}
	}
	return string(res.GetPayload().GetData()), nil
}
