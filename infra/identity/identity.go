package identity

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/identityplatform"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

func SetupIdentity(ctx *pulumi.Context, prov *gcp.Provider) (*identityplatform.Config, error) {
	authCfg := config.New(ctx, "auth")

	// sign-in links may only redirect to authorized domains
	domains := pulumi.StringArray{pulumi.String("localhost")}
	if d := authCfg.Get("domain"); d != "" {
		domains = append(domains, pulumi.String(d))
	}

	// Enables Identity Platform on the project (firebase) with email link sign-in
	return identityplatform.NewConfig(ctx,
		"identityPlatformConfig",
		&identityplatform.ConfigArgs{
			SignIn: &identityplatform.ConfigSignInArgs{
				Email: &identityplatform.ConfigSignInEmailArgs{
					Enabled:          pulumi.Bool(true),
					PasswordRequired: pulumi.Bool(false),
				},
			},
			AuthorizedDomains: domains,
		},
		pulumi.Provider(prov),
	)
}
