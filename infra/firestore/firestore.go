package firestore

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

func SetupFirestore(ctx *pulumi.Context, prov *gcp.Provider) (*firestore.Database, error) {
	svc, err := enableFireStore(ctx, prov)
	if err != nil {
		return nil, err
	}

	db, err := createDatabase(ctx, prov, svc)
	if err != nil {
		return nil, err
	}

	if err := createIndexes(ctx, prov, db); err != nil {
		return nil, err
	}

	return db, nil
}

func enableFireStore(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "firestore", &projects.ServiceArgs{
		Service: pulumi.String("firestore.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createDatabase(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*firestore.Database, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	return firestore.NewDatabase(ctx, "firestoreDatabase", &firestore.DatabaseArgs{
		Project:    pulumi.String(projectID),
		Name:       pulumi.String("(default)"),
		LocationId: pulumi.String(region),
		Type:       pulumi.String("FIRESTORE_NATIVE"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

// createIndexes adds the composite indexes behind the transaction queries:
// per-account history and month ranges, both newest first.
func createIndexes(ctx *pulumi.Context, prov *gcp.Provider, db *firestore.Database) error {
	indexes := map[string]firestore.IndexFieldArray{
		"txByAccountIndex": {
			&firestore.IndexFieldArgs{FieldPath: pulumi.String("accountId"), Order: pulumi.String("ASCENDING")},
			&firestore.IndexFieldArgs{FieldPath: pulumi.String("date"), Order: pulumi.String("DESCENDING")},
			&firestore.IndexFieldArgs{FieldPath: pulumi.String("createdAt"), Order: pulumi.String("DESCENDING")},
		},
		"txByDateIndex": {
			&firestore.IndexFieldArgs{FieldPath: pulumi.String("date"), Order: pulumi.String("DESCENDING")},
			&firestore.IndexFieldArgs{FieldPath: pulumi.String("createdAt"), Order: pulumi.String("DESCENDING")},
		},
	}

	for name, fields := range indexes {
		_, err := firestore.NewIndex(ctx, name, &firestore.IndexArgs{
			Database:   db.Name,
			Collection: pulumi.String("transactions"),
			QueryScope: pulumi.String("COLLECTION"),
			Fields:     fields,
		},
			pulumi.Provider(prov),
			pulumi.DependsOn([]pulumi.Resource{db}),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
