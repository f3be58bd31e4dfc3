package utils

import (
	"context"
	"testing"

	"camo-tracker/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewR2Client_RequiresCredentials(t *testing.T) {
	_, err := NewR2Client(context.Background(), config.R2Config{AccountID: "acct"})
	assert.ErrorIs(t, err, ErrR2NotConfigured)
}

func TestNewR2Client(t *testing.T) {
	client, err := NewR2Client(context.Background(), config.R2Config{
		AccountID:       "acct",
		AccessKeyID:     "key",
		AccessKeySecret: "secret",
		Bucket:          "seeds",
	})
	require.NoError(t, err)
	assert.Equal(t, "seeds", client.bucket)
	assert.Equal(t, "https://acct.r2.cloudflarestorage.com", R2Endpoint("acct"))
}

func TestAppErrors(t *testing.T) {
	assert.Equal(t, 404, NotFound("x").Code)
	assert.Equal(t, "bad", BadRequest("bad").Error())
}
