package friend_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/squareupapp/squareup-server/internal/friend"
)

func TestService_Request(t *testing.T) {
	userID := uuid.New()
	targetID := uuid.New()

	type testCase struct {
		name      string
		target    uuid.UUID
		setupMock func(repo *friend.MockRepository, users *friend.MockUserDirectory)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			target: targetID,
			setupMock: func(repo *friend.MockRepository, users *friend.MockUserDirectory) {
				users.EXPECT().Exists(gomock.Any(), targetID).Return(true, nil)
				repo.EXPECT().AreFriends(gomock.Any(), userID, targetID).Return(false, nil)
				repo.EXPECT().RequestExists(gomock.Any(), targetID, userID).Return(false, nil)
				repo.EXPECT().RequestExists(gomock.Any(), userID, targetID).Return(false, nil)
				repo.EXPECT().CreateRequest(gomock.Any(), userID, targetID).Return(nil)
			},
		},
		{
			name:    "SelfRequest",
			target:  userID,
			wantErr: friend.ErrSelfRequest,
		},
		{
			name:   "UnknownUser",
			target: targetID,
			setupMock: func(repo *friend.MockRepository, users *friend.MockUserDirectory) {
				users.EXPECT().Exists(gomock.Any(), targetID).Return(false, nil)
			},
			wantErr: friend.ErrUnknownUser,
		},
		{
			name:   "AlreadyFriends",
			target: targetID,
			setupMock: func(repo *friend.MockRepository, users *friend.MockUserDirectory) {
				users.EXPECT().Exists(gomock.Any(), targetID).Return(true, nil)
				repo.EXPECT().AreFriends(gomock.Any(), userID, targetID).Return(true, nil)
			},
			wantErr: friend.ErrAlreadyFriends,
		},
		{
			// A crossed pair of requests resolves straight into a friendship.
			name:   "CrossedRequestsAccept",
			target: targetID,
			setupMock: func(repo *friend.MockRepository, users *friend.MockUserDirectory) {
				users.EXPECT().Exists(gomock.Any(), targetID).Return(true, nil)
				repo.EXPECT().AreFriends(gomock.Any(), userID, targetID).Return(false, nil)
				repo.EXPECT().RequestExists(gomock.Any(), targetID, userID).Return(true, nil)
				repo.EXPECT().AcceptRequest(gomock.Any(), targetID, userID).Return(nil)
			},
		},
		{
			name:   "DuplicateRequest",
			target: targetID,
			setupMock: func(repo *friend.MockRepository, users *friend.MockUserDirectory) {
				users.EXPECT().Exists(gomock.Any(), targetID).Return(true, nil)
				repo.EXPECT().AreFriends(gomock.Any(), userID, targetID).Return(false, nil)
				repo.EXPECT().RequestExists(gomock.Any(), targetID, userID).Return(false, nil)
				repo.EXPECT().RequestExists(gomock.Any(), userID, targetID).Return(true, nil)
			},
			wantErr: friend.ErrDuplicateRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := friend.NewMockRepository(ctrl)
			users := friend.NewMockUserDirectory(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, users)
			}

			svc := friend.NewService(repo, users)
			err := svc.Request(context.Background(), userID, tt.target)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Accept(t *testing.T) {
	userID := uuid.New()
	fromID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := friend.NewMockRepository(ctrl)
		repo.EXPECT().RequestExists(gomock.Any(), fromID, userID).Return(true, nil)
		repo.EXPECT().AcceptRequest(gomock.Any(), fromID, userID).Return(nil)

		svc := friend.NewService(repo, friend.NewMockUserDirectory(ctrl))
		assert.NoError(t, svc.Accept(context.Background(), userID, fromID))
	})

	t.Run("NoRequest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := friend.NewMockRepository(ctrl)
		repo.EXPECT().RequestExists(gomock.Any(), fromID, userID).Return(false, nil)

		svc := friend.NewService(repo, friend.NewMockUserDirectory(ctrl))
		assert.ErrorIs(t, svc.Accept(context.Background(), userID, fromID), friend.ErrNoRequest)
	})
}

func TestService_Remove(t *testing.T) {
	userID := uuid.New()
	friendID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := friend.NewMockRepository(ctrl)
		repo.EXPECT().DeleteFriendship(gomock.Any(), userID, friendID).Return(true, nil)

		svc := friend.NewService(repo, friend.NewMockUserDirectory(ctrl))
		assert.NoError(t, svc.Remove(context.Background(), userID, friendID))
	})

	t.Run("NotFriends", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := friend.NewMockRepository(ctrl)
		repo.EXPECT().DeleteFriendship(gomock.Any(), userID, friendID).Return(false, nil)

		svc := friend.NewService(repo, friend.NewMockUserDirectory(ctrl))
		assert.ErrorIs(t, svc.Remove(context.Background(), userID, friendID), friend.ErrNotFriends)
	})
}

func TestService_WithdrawOutgoing(t *testing.T) {
	userID := uuid.New()
	targetID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := friend.NewMockRepository(ctrl)
		repo.EXPECT().DeleteRequest(gomock.Any(), userID, targetID).Return(true, nil)

		svc := friend.NewService(repo, friend.NewMockUserDirectory(ctrl))
		assert.NoError(t, svc.WithdrawOutgoing(context.Background(), userID, targetID))
	})

	t.Run("NoRequest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := friend.NewMockRepository(ctrl)
		repo.EXPECT().DeleteRequest(gomock.Any(), userID, targetID).Return(false, nil)

		svc := friend.NewService(repo, friend.NewMockUserDirectory(ctrl))
		assert.ErrorIs(t, svc.WithdrawOutgoing(context.Background(), userID, targetID), friend.ErrNoRequest)
	})
}
