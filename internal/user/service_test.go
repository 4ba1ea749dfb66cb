package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/squareupapp/squareup-server/internal/user"
)

func TestService_Register(t *testing.T) {
	type testCase struct {
		name      string
		params    user.RegisterParams
		setupMock func(m *user.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: user.RegisterParams{
				Email:     "  Alice@Example.COM ",
				Username:  "Alice",
				FirstName: " Alice ",
				LastName:  "Smith",
				Password:  "correct horse",
			},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *user.User) error {
						assert.Equal(t, "alice@example.com", u.Email)
						assert.Equal(t, "alice", u.Username)
						assert.Equal(t, "Alice", u.FirstName)
						assert.NotEqual(t, "correct horse", u.PasswordHash)
						u.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "WeakPassword",
			params: user.RegisterParams{
				Email:    "bob@example.com",
				Username: "bob",
				Password: "short",
			},
			wantErr: user.ErrWeakPassword,
		},
		{
			name: "EmailTaken",
			params: user.RegisterParams{
				Email:    "alice@example.com",
				Username: "alice2",
				Password: "long enough",
			},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					Return(user.ErrEmailTaken)
			},
			wantErr: user.ErrEmailTaken,
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

			svc := user.NewService(repo)
			got, err := svc.Register(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &user.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: string(hash),
	}

	type testCase struct {
		name       string
		identifier string
		password   string
		setupMock  func(m *user.MockRepository)
		wantErr    bool
	}

	tests := []testCase{
		{
			name:       "ByEmail",
			identifier: "Alice@Example.com",
			password:   "hunter2hunter2",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "alice@example.com").
					Return(stored, nil)
			},
		},
		{
			name:       "ByUsername",
			identifier: "alice",
			password:   "hunter2hunter2",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					GetUserByUsername(gomock.Any(), "alice").
					Return(stored, nil)
			},
		},
		{
			name:       "WrongPassword",
			identifier: "alice",
			password:   "not the password",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					GetUserByUsername(gomock.Any(), "alice").
					Return(stored, nil)
			},
			wantErr: true,
		},
		{
			name:       "UnknownUser",
			identifier: "nobody@example.com",
			password:   "hunter2hunter2",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "nobody@example.com").
					Return(nil, user.ErrNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := user.NewService(repo)
			got, err := svc.Authenticate(context.Background(), tt.identifier, tt.password)

			if tt.wantErr {
				assert.ErrorIs(t, err, user.ErrNotFound)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, stored.ID, got.ID)
		})
	}
}

func TestService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	repo.EXPECT().
		SearchByUsernamePrefix(gomock.Any(), "al", 20).
		Return([]*user.User{
			{ID: uuid.New(), Username: "alice", FirstName: "Alice", LastName: "Smith"},
			{ID: uuid.New(), Username: "alan", FirstName: "Alan", LastName: "Jones"},
		}, nil)

	svc := user.NewService(repo)

	got, err := svc.Search(context.Background(), " AL ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "Alice Smith", got[0].Name)
}

func TestService_Search_EmptyPrefix(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := user.NewService(user.NewMockRepository(ctrl))

	got, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Summaries_SkipsUnknownAndDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	known := &user.User{ID: uuid.New(), Username: "alice"}
	unknown := uuid.New()

	repo := user.NewMockRepository(ctrl)
	repo.EXPECT().GetUser(gomock.Any(), known.ID).Return(known, nil)
	repo.EXPECT().GetUser(gomock.Any(), unknown).Return(nil, user.ErrNotFound)

	svc := user.NewService(repo)

	got, err := svc.Summaries(context.Background(), []uuid.UUID{known.ID, unknown, known.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, known.ID, got[0].ID)
}
