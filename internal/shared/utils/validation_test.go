package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxyshop/internal/shared/errors"
)

type sampleSection struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	Retries int    `mapstructure:"max_retries" validate:"min=0,max=10"`
}

type sampleConfig struct {
	Provisioning sampleSection `mapstructure:"provisioning"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := sampleConfig{Provisioning: sampleSection{BaseURL: "https://api.example.com", Retries: 3}}
		assert.NoError(t, ValidateStruct(cfg))
	})

	t.Run("reports config keys", func(t *testing.T) {
		cfg := sampleConfig{Provisioning: sampleSection{BaseURL: "", Retries: 20}}

		err := ValidateStruct(cfg)
		require.Error(t, err)

		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
		assert.Contains(t, appErr.Details, "provisioning.base_url is required")
		assert.Contains(t, appErr.Details, "provisioning.max_retries must be at most 10")
	})
}
