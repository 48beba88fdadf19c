package auth

import (
	"fmt"

	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/errors"
)

// Creator functions for auth handlers

func createAPIKeyAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.APIKey == nil {
		return nil, errors.WrapError(
			fmt.Errorf("api key configuration is required"),
			errors.ErrConfiguration,
			"create API key auth",
		)
	}
	header := authConfig.APIKey.Header
	if header == "" {
		header = config.DefaultAccessTokenHeader
	}
	return NewAPIKeyAuth(header, authConfig.APIKey.Value), nil
}

func createBearerAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.Bearer == nil {
		return nil, errors.WrapError(
			fmt.Errorf("bearer token configuration is required"),
			errors.ErrConfiguration,
			"create bearer auth",
		)
	}
	return NewBearerAuth(authConfig.Bearer.Token), nil
}
