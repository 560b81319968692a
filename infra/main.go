package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/money-tracker/infra/cloudrun"
	"github.com/GregMSThompson/money-tracker/infra/docker"
	"github.com/GregMSThompson/money-tracker/infra/firestore"
	"github.com/GregMSThompson/money-tracker/infra/identity"
	"github.com/GregMSThompson/money-tracker/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// passwordless email sign-in for the magic link flow
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// ledger storage
		db, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, ident, db, repo)
		return err
	})
}
