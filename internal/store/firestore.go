package store

import (
	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/money-tracker/internal/errs"
)

func userDoc(client *firestore.Client, uid string) *firestore.DocumentRef {
	return client.Collection("users").Doc(uid)
}

// mapErr turns a Firestore NotFound into notFound and anything else into a
// DatabaseError for op.
func mapErr(err error, op, message, notFound string) error {
	if err == nil {
		return nil
	}
	if notFound != "" && status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError(notFound)
	}
	return errs.NewDatabaseError(op, message, err)
}

// mapCreateErr is mapErr for Create, where an id that is already taken comes
// back as AlreadyExists.
func mapCreateErr(err error, message, exists string) error {
	if status.Code(err) == codes.AlreadyExists {
		return errs.NewAlreadyExistsError(exists)
	}
	return mapErr(err, "create", message, "")
}
