package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterExactlyOneKey(t *testing.T) {
	authed := Authenticated("user-1")
	assert.Equal(t, bson.M{"userId": "user-1"}, authed.Filter())
	assert.True(t, authed.IsAuthenticated())

	anon := Anonymous("sess-1")
	assert.Equal(t, bson.M{"sessionId": "sess-1"}, anon.Filter())
	assert.False(t, anon.IsAuthenticated())
}

func TestZeroIdentity(t *testing.T) {
	assert.True(t, Identity{}.IsZero())
	assert.False(t, Authenticated("u").IsZero())
	assert.False(t, Anonymous("s").IsZero())
}
