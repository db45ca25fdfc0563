package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/libriverse/internal/repository/postgres"
	"github.com/dom/libriverse/internal/service"
	"github.com/dom/libriverse/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Signup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.SignupInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful signup",
			input: service.SignupInput{
				Username: "NewReader",
				Email:    "NewReader@Example.com",
				Password: testutil.DefaultPassword,
			},
		},
		{
			name: "duplicate email",
			input: service.SignupInput{
				Username: "another",
				Email:    "taken@example.com",
				Password: testutil.DefaultPassword,
			},
			setup: func() {
				testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, testDB.DB)
			},
			wantErr: service.ErrEmailExists,
		},
		{
			name: "duplicate username",
			input: service.SignupInput{
				Username: "TakenName",
				Email:    "fresh@example.com",
				Password: testutil.DefaultPassword,
			},
			setup: func() {
				testutil.NewUserBuilder().WithUsername("takenname").Build(t, testDB.DB)
			},
			wantErr: service.ErrUsernameExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			user, err := authService.Signup(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "newreader", user.Username)
			assert.Equal(t, "newreader@example.com", user.Email)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
		})
	}
}

func TestAuthService_SigninFailuresAreIndistinguishable(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, testutil.TestConfig())
	ctx := context.Background()

	testutil.NewUserBuilder().WithEmail("known@example.com").Build(t, testDB.DB)

	tests := []struct {
		name  string
		input service.SigninInput
	}{
		{
			name:  "unknown email",
			input: service.SigninInput{Email: "unknown@example.com", Password: testutil.DefaultPassword},
		},
		{
			name:  "wrong password",
			input: service.SigninInput{Email: "known@example.com", Password: "wrong!pass"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Signin(ctx, tt.input)
			assert.Nil(t, result)
			assert.Equal(t, service.ErrInvalidCredentials, err)
		})
	}
}

func TestAuthService_SessionExpiry(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, testutil.TestConfig())
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().Build(t, testDB.DB)

	issuedAt := time.Now().Truncate(time.Second)
	authService.SetClock(func() time.Time { return issuedAt })

	result, err := authService.Signin(ctx, service.SigninInput{Email: user.Email, Password: password})
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(8*time.Hour), result.ExpiresAt)

	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr bool
	}{
		{name: "fresh", elapsed: 0},
		{name: "just before expiry", elapsed: 7*time.Hour + 59*time.Minute},
		{name: "just after expiry", elapsed: 8*time.Hour + time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService.SetClock(func() time.Time { return issuedAt.Add(tt.elapsed) })

			claims, err := authService.ValidateToken(result.Token)
			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID.String(), claims.UserID)
			assert.Equal(t, user.Email, claims.Email)
			assert.Equal(t, user.Username, claims.Username)
		})
	}
}

func TestAuthService_ValidateTokenRejectsForgeries(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)

	claims := service.SessionClaims{
		UserID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	otherSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.SessionClaims{UserID: uuid.New().String()}).
		SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: otherSecret},
		{name: "wrong algorithm", token: wrongAlg},
		{name: "missing expiry", token: noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.ValidateToken(tt.token)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
		})
	}
}
