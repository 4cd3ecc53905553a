package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/npereira/centavo/internal/auth"
	"github.com/npereira/centavo/internal/user"
)

func testIssuer() *auth.Issuer {
	return auth.NewIssuer("test-access", "test-refresh", time.Hour, 24*time.Hour)
}

func TestService_Register(t *testing.T) {
	type testCase struct {
		name      string
		params    user.RegisterParams
		setupMock func(m *user.MockRepository)
		wantErr   error
		wantValid bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: user.RegisterParams{
				Email:    "a@x.com",
				Phone:    "555-1",
				Name:     "Ana",
				Password: "supersecret",
			},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *user.User) error {
						u.ID = uuid.New()
						u.CreatedAt = time.Now()
						return nil
					})
				m.EXPECT().
					StoreRefreshToken(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "DuplicatePhone",
			params: user.RegisterParams{
				Email:    "b@x.com",
				Phone:    "555-1",
				Password: "supersecret",
			},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					Return(user.ErrPhoneTaken)
			},
			wantErr: user.ErrPhoneTaken,
		},
		{
			name: "InvalidEmail",
			params: user.RegisterParams{
				Email:    "not-an-email",
				Phone:    "555-1",
				Password: "supersecret",
			},
			wantValid: true,
		},
		{
			name: "ShortPassword",
			params: user.RegisterParams{
				Email:    "a@x.com",
				Phone:    "555-1",
				Password: "short",
			},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := user.NewService(repo, testIssuer())
			got, pair, err := svc.Register(context.Background(), tt.params)

			if tt.wantValid {
				var vErr *user.ValidationError
				assert.ErrorAs(t, err, &vErr)
				return
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.NotEmpty(t, pair.Access)
			assert.NotEmpty(t, pair.Refresh)
			assert.NotEqual(t, tt.params.Password, got.PasswordHash)
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &user.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		PasswordHash: string(hash),
	}

	type testCase struct {
		name      string
		email     string
		password  string
		setupMock func(m *user.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			email:    "a@x.com",
			password: "supersecret",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "a@x.com").
					Return(stored, nil)
				m.EXPECT().
					StoreRefreshToken(gomock.Any(), stored.ID, gomock.Any()).
					Return(nil)
			},
		},
		{
			name:     "WrongPassword",
			email:    "a@x.com",
			password: "nope",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "a@x.com").
					Return(stored, nil)
			},
			wantErr: user.ErrInvalidCredentials,
		},
		{
			name:     "UnknownEmail",
			email:    "ghost@x.com",
			password: "supersecret",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "ghost@x.com").
					Return(nil, user.ErrNotFound)
			},
			wantErr: user.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := user.NewService(repo, testIssuer())
			got, pair, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, stored.ID, got.ID)
			assert.NotEmpty(t, pair.Access)
		})
	}
}

func TestService_Refresh(t *testing.T) {
	issuer := testIssuer()
	userID := uuid.New()

	_, refresh, err := issuer.Issue(userID, "a@x.com")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(&user.User{ID: userID, Email: "a@x.com", RefreshToken: &refresh}, nil)

		svc := user.NewService(repo, issuer)
		access, err := svc.Refresh(context.Background(), refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, access)

		claims, err := issuer.Verify(access)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("StoredTokenDiffers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		other := "some-newer-token"
		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(&user.User{ID: userID, Email: "a@x.com", RefreshToken: &other}, nil)

		svc := user.NewService(repo, issuer)
		_, err := svc.Refresh(context.Background(), refresh)
		assert.ErrorIs(t, err, user.ErrRefreshMismatch)
	})

	t.Run("MalformedToken", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := user.NewService(user.NewMockRepository(ctrl), issuer)
		_, err := svc.Refresh(context.Background(), "garbage")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	issuer := testIssuer()
	userID := uuid.New()

	t.Run("NormalizesEmail", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		email := "  Foo@X.com "
		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().
			UpdateProfile(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, id uuid.UUID, params user.UpdateParams) (*user.User, error) {
				require.NotNil(t, params.Email)
				assert.Equal(t, "foo@x.com", *params.Email)
				return &user.User{ID: id, Email: *params.Email}, nil
			})

		svc := user.NewService(repo, issuer)
		u, err := svc.UpdateProfile(context.Background(), userID, user.UpdateParams{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "foo@x.com", u.Email)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		email := "not-an-email"
		svc := user.NewService(user.NewMockRepository(ctrl), issuer)
		_, err := svc.UpdateProfile(context.Background(), userID, user.UpdateParams{Email: &email})

		var vErr *user.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, "email", vErr.Field)
	})

	t.Run("EmptyPhone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		phone := "   "
		svc := user.NewService(user.NewMockRepository(ctrl), issuer)
		_, err := svc.UpdateProfile(context.Background(), userID, user.UpdateParams{Phone: &phone})

		var vErr *user.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, "phone", vErr.Field)
	})

	t.Run("TrimsPhone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		phone := " 555-2 "
		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().
			UpdateProfile(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, id uuid.UUID, params user.UpdateParams) (*user.User, error) {
				require.NotNil(t, params.Phone)
				assert.Equal(t, "555-2", *params.Phone)
				return &user.User{ID: id, Phone: *params.Phone}, nil
			})

		svc := user.NewService(repo, issuer)
		_, err := svc.UpdateProfile(context.Background(), userID, user.UpdateParams{Phone: &phone})
		require.NoError(t, err)
	})
}
