package test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

// newSession writes a session hash to redis the same way the external auth
// service does, and returns the token to put in the X-REHAB-TOKEN header.
func (s *IntegrationTestSuite) newSession(ctx context.Context, t *testing.T, userID string) string {
	t.Helper()

	token := gofakeit.UUID()
	sessionKey := fmt.Sprintf("session::%s", token)
	require.NoError(t, s.redisClient.HSet(ctx, sessionKey,
		"user_id", userID,
		"created_at", time.Now().Unix(),
	).Err())

	return token
}
