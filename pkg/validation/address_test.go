package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress("0x52908400098527886E0F7030069857D2E4169EE7"))
	assert.NoError(t, ValidateAddress("0xde709f2102306220921060314715629080e2fb77"))

	assert.Error(t, ValidateAddress(""))
	assert.Error(t, ValidateAddress("52908400098527886E0F7030069857D2E4169EE7"))
	assert.Error(t, ValidateAddress("0x123"))
	assert.Error(t, ValidateAddress("0xZZ908400098527886E0F7030069857D2E4169EE7"))
}

func TestValidateAndNormalizeAddress(t *testing.T) {
	addr, err := ValidateAndNormalizeAddress("  0x52908400098527886E0F7030069857D2E4169EE7 ")
	require.NoError(t, err)
	assert.Equal(t, "0x52908400098527886e0f7030069857d2e4169ee7", addr)

	_, err = ValidateAndNormalizeAddress("not-an-address")
	assert.Error(t, err)
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress(
		"0x52908400098527886E0F7030069857D2E4169EE7",
		"0x52908400098527886e0f7030069857d2e4169ee7",
	))
	assert.False(t, SameAddress(
		"0x52908400098527886e0f7030069857d2e4169ee7",
		"0xde709f2102306220921060314715629080e2fb77",
	))
}
