package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"docemania/config"
	"docemania/infras/jwt"
	jwtMocks "docemania/infras/jwt/mocks"
	"docemania/infras/otel/mocks"
	"docemania/internal/domains/auth/model/dto"
	"docemania/internal/domains/auth/service"
	userMocks "docemania/internal/domains/user/mocks"
	userModel "docemania/internal/domains/user/model"
	"docemania/shared/constant"
	"docemania/shared/failure"
	gModel "docemania/shared/model"
	"docemania/shared/timezone"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// "password" hashed with bcrypt cost 10
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func newAdmin() userModel.User {
	return userModel.User{
		ID:       "user-id-123",
		Email:    "admin@docemania.com",
		Password: passwordHash,
		FullName: "Maria Doceira",
		Active:   true,
		Metadata: gModel.NewMetadata(timezone.Now(), "system"),
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockUserRepo, &config.Config{}, mockOtel, mockJWT)

	validUser := newAdmin()
	tokenPair := &jwt.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: " Admin@DoceMania.com ", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, constant.RoleAdmin).
					Return(tokenPair, nil)
				mockUserRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "user not found",
			req:  dto.LoginRequest{Email: "ghost@docemania.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "repository error",
			req:  dto.LoginRequest{Email: "admin@docemania.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "admin@docemania.com", Password: "wrongpassword"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "inactive user",
			req:  dto.LoginRequest{Email: "admin@docemania.com", Password: "password"},
			setupMock: func() {
				inactiveUser := validUser
				inactiveUser.Active = false

				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactiveUser, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "admin@docemania.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, constant.RoleAdmin).
					Return(nil, errors.New("token generation failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "update last login error",
			req:  dto.LoginRequest{Email: "admin@docemania.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, constant.RoleAdmin).
					Return(tokenPair, nil)
				mockUserRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "access-token", result.AccessToken)
			assert.Equal(t, "refresh-token", result.RefreshToken)
			assert.Equal(t, int64(900), result.ExpiresIn)
			assert.Equal(t, validUser.Email, result.User.Email)
			assert.Equal(t, constant.RoleAdmin, result.User.Role)
			assert.NotNil(t, result.User.LastLogin)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	tests := []struct {
		name      string
		req       dto.RefreshTokenRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful token refresh",
			req:  dto.RefreshTokenRequest{RefreshToken: "valid-refresh-token"},
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens(gomock.Any(), "valid-refresh-token").
					Return(&jwt.TokenPair{
						AccessToken:  "new-access-token",
						RefreshToken: "new-refresh-token",
					}, nil)
			},
		},
		{
			name: "invalid refresh token",
			req:  dto.RefreshTokenRequest{RefreshToken: "invalid-refresh-token"},
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens(gomock.Any(), "invalid-refresh-token").
					Return(nil, jwt.ErrRevokedToken)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.RefreshToken(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "new-access-token", result.AccessToken)
				assert.Equal(t, "new-refresh-token", result.RefreshToken)
			}
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	accessClaims := &jwt.Claims{UserID: "user-id-123", TokenID: "access-id", Type: jwt.AccessToken}
	refreshClaims := &jwt.Claims{UserID: "user-id-123", TokenID: "refresh-id", Type: jwt.RefreshToken}

	tests := []struct {
		name      string
		req       dto.LogoutRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "revokes access token only",
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "access", jwt.AccessToken).Return(accessClaims, nil)
				mockJWT.EXPECT().Revoke(gomock.Any(), accessClaims).Return(nil)
			},
		},
		{
			name: "revokes both tokens",
			req:  dto.LogoutRequest{RefreshToken: "refresh"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "access", jwt.AccessToken).Return(accessClaims, nil)
				mockJWT.EXPECT().Revoke(gomock.Any(), accessClaims).Return(nil)
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(refreshClaims, nil)
				mockJWT.EXPECT().Revoke(gomock.Any(), refreshClaims).Return(nil)
			},
		},
		{
			name: "ignores an already invalid refresh token",
			req:  dto.LogoutRequest{RefreshToken: "expired"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "access", jwt.AccessToken).Return(accessClaims, nil)
				mockJWT.EXPECT().Revoke(gomock.Any(), accessClaims).Return(nil)
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "expired", jwt.RefreshToken).Return(nil, jwt.ErrExpiredToken)
			},
		},
		{
			name: "refresh token of another user",
			req:  dto.LogoutRequest{RefreshToken: "foreign"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "access", jwt.AccessToken).Return(accessClaims, nil)
				mockJWT.EXPECT().Revoke(gomock.Any(), accessClaims).Return(nil)
				mockJWT.EXPECT().
					ValidateToken(gomock.Any(), "foreign", jwt.RefreshToken).
					Return(&jwt.Claims{UserID: "someone-else", TokenID: "x", Type: jwt.RefreshToken}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "invalid access token",
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "access", jwt.AccessToken).Return(nil, jwt.ErrInvalidToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "revocation store failure",
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "access", jwt.AccessToken).Return(accessClaims, nil)
				mockJWT.EXPECT().Revoke(gomock.Any(), accessClaims).Return(errors.New("redis down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Logout(context.Background(), "access", tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	validUser := newAdmin()

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		userID    string
		setupMock func()
		wantCode  int
	}{
		{
			name:   "successful password change",
			req:    dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			userID: validUser.ID,
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				mockUserRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.NotEqual(t, "newpassword123", fields[userModel.FieldPassword])
						assert.Equal(t, validUser.Email, fields[constant.FieldUpdatedBy])

						return nil
					})
			},
		},
		{
			name:   "repository error",
			req:    dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			userID: "user-id-123",
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:   "user not found",
			req:    dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			userID: "nonexistent-id",
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "wrong current password",
			req:    dto.ChangePasswordRequest{CurrentPassword: "wrongpassword", NewPassword: "newpassword123"},
			userID: validUser.ID,
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "update error",
			req:    dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			userID: validUser.ID,
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				mockUserRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.ChangePassword(context.Background(), tt.req, tt.userID)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), jwtMocks.NewMockJWT(ctrl))

	t.Run("returns the current admin", func(t *testing.T) {
		mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(newAdmin(), nil)

		res, err := svc.Me(context.Background(), "user-id-123")

		assert.NoError(t, err)
		assert.Equal(t, "user-id-123", res.ID)
		assert.Equal(t, "Maria Doceira", res.FullName)
		assert.Equal(t, constant.RoleAdmin, res.Role)
		assert.Nil(t, res.LastLogin)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		_, err := svc.Me(context.Background(), "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
