package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/cafeteriapos/pkg/apperrors"
)

func TestMe(t *testing.T) {
	cmd, _, users, _ := newTestService()
	query := NewAuthQueryService(users)

	registered, err := cmd.Register(context.Background(), RegisterCommand{Name: "Ana", Email: "ana@cafeteria.co", Password: "secreto"})
	require.NoError(t, err)

	user, err := query.Me(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@cafeteria.co", user.Email)

	_, err = query.Me(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
