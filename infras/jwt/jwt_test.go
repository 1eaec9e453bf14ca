package jwt_test

import (
	"context"
	"errors"
	"testing"

	"docemania/config"
	"docemania/infras/jwt"
	"docemania/infras/otel/mocks"
	"docemania/shared/cache"
	cacheMocks "docemania/shared/cache/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func jwtConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "docemania"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return cfg
}

func notRevoked(redis *cacheMocks.MockRedisCache) {
	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
}

func TestGenerateAndValidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := cacheMocks.NewMockRedisCache(ctrl)
	notRevoked(redis)

	service := jwt.New(jwtConfig(), redis, mocks.NewOtel())
	ctx := context.Background()

	pair, err := service.GenerateTokenPair(ctx, "admin-id", "admin@docemania.com", "admin")
	require.NoError(t, err)

	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := service.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)

	assert.Equal(t, "admin-id", claims.UserID)
	assert.Equal(t, "admin@docemania.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, jwt.AccessToken, claims.Type)
	assert.Equal(t, "docemania", claims.Issuer)
	assert.NotEmpty(t, claims.TokenID)

	_, err = service.ValidateToken(ctx, pair.RefreshToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken, "a refresh token is signed with another secret")

	_, err = service.ValidateToken(ctx, "not-a-token", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	cfg := jwtConfig()
	cfg.JWT.AccessExpireMin = -1

	service := jwt.New(cfg, redis, mocks.NewOtel())

	pair, err := service.GenerateTokenPair(context.Background(), "admin-id", "admin@docemania.com", "admin")
	require.NoError(t, err)

	_, err = service.ValidateToken(context.Background(), pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestValidateToken_Revoked(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	service := jwt.New(jwtConfig(), redis, mocks.NewOtel())

	pair, err := service.GenerateTokenPair(context.Background(), "admin-id", "admin@docemania.com", "admin")
	require.NoError(t, err)

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, err = service.ValidateToken(context.Background(), pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrRevokedToken)

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	_, err = service.ValidateToken(context.Background(), pair.AccessToken, jwt.AccessToken)
	assert.ErrorContains(t, err, "failed to check token revocation")
}

func TestRefreshTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := cacheMocks.NewMockRedisCache(ctrl)
	notRevoked(redis)

	service := jwt.New(jwtConfig(), redis, mocks.NewOtel())
	ctx := context.Background()

	pair, err := service.GenerateTokenPair(ctx, "admin-id", "admin@docemania.com", "admin")
	require.NoError(t, err)

	old, err := service.ValidateToken(ctx, pair.RefreshToken, jwt.RefreshToken)
	require.NoError(t, err)

	redis.EXPECT().
		Save(gomock.Any(), "jwt:revoked:"+old.TokenID, string(jwt.RefreshToken), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ any, ttl int) error {
			assert.Greater(t, ttl, 60*59)

			return nil
		})

	rotated, err := service.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := service.ValidateToken(ctx, rotated.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin-id", claims.UserID)

	_, err = service.RefreshTokens(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestRevoke_RequiresTokenID(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := jwt.New(jwtConfig(), cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	assert.ErrorIs(t, service.Revoke(context.Background(), nil), jwt.ErrInvalidClaim)
	assert.ErrorIs(t, service.Revoke(context.Background(), &jwt.Claims{}), jwt.ErrInvalidClaim)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "Bearer ", "Token abc", "bearer abc"} {
		_, err = jwt.ExtractTokenFromHeader(header)
		assert.Error(t, err, "header %q", header)
	}
}
