package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	o := NewServerOptions()
	require.NoError(t, o.Complete())
	assert.NoError(t, o.Validate())
}

func TestFlagSetsAreNamed(t *testing.T) {
	fss := NewServerOptions().Flags()
	assert.Equal(t, []string{"http", "dvla", "fixture", "tier", "mqtt", "s3", "log"}, fss.Order)
	assert.NotNil(t, fss.FlagSets["tier"].Lookup("tier.default"))
}

func TestValidateAggregates(t *testing.T) {
	o := NewServerOptions()
	o.TierOptions.Default = "platinum"
	o.HttpOptions.Addr = "nope"
	o.Log.Format = "xml"

	err := o.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--tier.default")
	assert.Contains(t, err.Error(), "xml")
}

func TestConfigSharesOptions(t *testing.T) {
	o := NewServerOptions()
	cfg, err := o.Config()
	require.NoError(t, err)

	assert.Same(t, o.HttpOptions, cfg.HttpOptions)
	assert.Same(t, o.TierOptions, cfg.TierOptions)
	assert.Same(t, o.S3Options, cfg.S3Options)
	assert.Same(t, o.Log, o.LogOptions())
}
