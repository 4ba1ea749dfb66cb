package group_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/squareupapp/squareup-server/internal/contribution"
	"github.com/squareupapp/squareup-server/internal/group"
	"github.com/squareupapp/squareup-server/internal/money"
)

type mocks struct {
	repo     *group.MockRepository
	tx       *group.MockVoteTx
	users    *group.MockUserDirectory
	friends  *group.MockFriendChecker
	contribs *group.MockContributionSource
}

func newMocks(ctrl *gomock.Controller) mocks {
	return mocks{
		repo:     group.NewMockRepository(ctrl),
		tx:       group.NewMockVoteTx(ctrl),
		users:    group.NewMockUserDirectory(ctrl),
		friends:  group.NewMockFriendChecker(ctrl),
		contribs: group.NewMockContributionSource(ctrl),
	}
}

func (m mocks) service() *group.Service {
	return group.NewService(m.repo, m.users, m.friends, m.contribs)
}

func TestService_Create(t *testing.T) {
	creator := uuid.New()
	friendA := uuid.New()
	stranger := uuid.New()

	type testCase struct {
		name      string
		params    group.CreateParams
		setupMock func(m mocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: group.CreateParams{
				Name:      "Ski Trip",
				CreatorID: creator,
				MemberIDs: []uuid.UUID{friendA, creator},
			},
			setupMock: func(m mocks) {
				m.users.EXPECT().Exists(gomock.Any(), friendA).Return(true, nil)
				m.friends.EXPECT().AreFriends(gomock.Any(), creator, friendA).Return(true, nil)
				m.repo.EXPECT().
					CreateGroup(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, g *group.Group) error {
						assert.Equal(t, []uuid.UUID{creator, friendA}, g.MemberIDs)
						g.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "EmptyName",
			params: group.CreateParams{
				Name:      "   ",
				CreatorID: creator,
				MemberIDs: []uuid.UUID{friendA},
			},
			wantErr: group.ErrEmptyName,
		},
		{
			name: "TooFewMembers",
			params: group.CreateParams{
				Name:      "Solo",
				CreatorID: creator,
				MemberIDs: []uuid.UUID{creator},
			},
			wantErr: group.ErrTooFewMembers,
		},
		{
			name: "UnknownMember",
			params: group.CreateParams{
				Name:      "Ghost",
				CreatorID: creator,
				MemberIDs: []uuid.UUID{stranger},
			},
			setupMock: func(m mocks) {
				m.users.EXPECT().Exists(gomock.Any(), stranger).Return(false, nil)
			},
			wantErr: group.ErrUnknownMember,
		},
		{
			name: "NotFriends",
			params: group.CreateParams{
				Name:      "Strangers",
				CreatorID: creator,
				MemberIDs: []uuid.UUID{stranger},
			},
			setupMock: func(m mocks) {
				m.users.EXPECT().Exists(gomock.Any(), stranger).Return(true, nil)
				m.friends.EXPECT().AreFriends(gomock.Any(), creator, stranger).Return(false, nil)
			},
			wantErr: group.ErrNotFriends,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := m.service().Create(context.Background(), tt.params)

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

func TestService_VoteToDelete(t *testing.T) {
	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	outsider := uuid.New()

	freshGroup := func(votes ...uuid.UUID) *group.Group {
		return &group.Group{
			ID:            groupID,
			Name:          "Flat 4B",
			CreatedBy:     alice,
			MemberIDs:     []uuid.UUID{alice, bob},
			VotesToDelete: votes,
		}
	}

	type testCase struct {
		name        string
		voter       uuid.UUID
		setupMock   func(m mocks)
		wantErr     error
		wantDeleted bool
		wantVotes   int
	}

	tests := []testCase{
		{
			name:  "FirstVote",
			voter: alice,
			setupMock: func(m mocks) {
				m.repo.EXPECT().BeginVote(gomock.Any(), groupID).Return(m.tx, nil)
				m.tx.EXPECT().Group(gomock.Any()).Return(freshGroup(), nil)
				m.tx.EXPECT().AddVote(gomock.Any(), alice).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantVotes: 1,
		},
		{
			name:  "UnanimousDeletes",
			voter: bob,
			setupMock: func(m mocks) {
				m.repo.EXPECT().BeginVote(gomock.Any(), groupID).Return(m.tx, nil)
				m.tx.EXPECT().Group(gomock.Any()).Return(freshGroup(alice), nil)
				m.tx.EXPECT().AddVote(gomock.Any(), bob).Return(nil)
				m.tx.EXPECT().DeleteGroup(gomock.Any()).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantDeleted: true,
			wantVotes:   2,
		},
		{
			name:  "DuplicateVoteNoOp",
			voter: alice,
			setupMock: func(m mocks) {
				m.repo.EXPECT().BeginVote(gomock.Any(), groupID).Return(m.tx, nil)
				m.tx.EXPECT().Group(gomock.Any()).Return(freshGroup(alice), nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantVotes: 1,
		},
		{
			name:  "NotAMember",
			voter: outsider,
			setupMock: func(m mocks) {
				m.repo.EXPECT().BeginVote(gomock.Any(), groupID).Return(m.tx, nil)
				m.tx.EXPECT().Group(gomock.Any()).Return(freshGroup(), nil)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: group.ErrNotAMember,
		},
		{
			name:  "GroupGone",
			voter: alice,
			setupMock: func(m mocks) {
				m.repo.EXPECT().BeginVote(gomock.Any(), groupID).Return(m.tx, nil)
				m.tx.EXPECT().Group(gomock.Any()).Return(nil, group.ErrNotFound)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: group.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			tt.setupMock(m)

			got, err := m.service().VoteToDelete(context.Background(), groupID, tt.voter)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, got.Deleted)
			assert.Len(t, got.Group.VotesToDelete, tt.wantVotes)
		})
	}
}

func TestService_UnvoteToDelete(t *testing.T) {
	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	t.Run("WithdrawsVote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newMocks(ctrl)
		m.repo.EXPECT().BeginVote(gomock.Any(), groupID).Return(m.tx, nil)
		m.tx.EXPECT().Group(gomock.Any()).Return(&group.Group{
			ID:            groupID,
			MemberIDs:     []uuid.UUID{alice, bob},
			VotesToDelete: []uuid.UUID{alice},
		}, nil)
		m.tx.EXPECT().RemoveVote(gomock.Any(), alice).Return(nil)
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil)

		got, err := m.service().UnvoteToDelete(context.Background(), groupID, alice)
		require.NoError(t, err)
		assert.Empty(t, got.VotesToDelete)
	})

	t.Run("NoVoteNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newMocks(ctrl)
		m.repo.EXPECT().BeginVote(gomock.Any(), groupID).Return(m.tx, nil)
		m.tx.EXPECT().Group(gomock.Any()).Return(&group.Group{
			ID:        groupID,
			MemberIDs: []uuid.UUID{alice, bob},
		}, nil)
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil)

		got, err := m.service().UnvoteToDelete(context.Background(), groupID, bob)
		require.NoError(t, err)
		assert.Empty(t, got.VotesToDelete)
	})
}

func TestService_Get_ComputesBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	m := newMocks(ctrl)
	m.repo.EXPECT().GetGroup(gomock.Any(), groupID).Return(&group.Group{
		ID:        groupID,
		MemberIDs: []uuid.UUID{alice, bob},
	}, nil)
	m.contribs.EXPECT().ListForGroup(gomock.Any(), groupID).Return([]*contribution.Contribution{
		{
			ID:              uuid.New(),
			GroupID:         groupID,
			SenderID:        alice,
			TotalAmount:     money.Amount(3000),
			ReceiverAmounts: map[uuid.UUID]money.Amount{bob: 1500},
		},
	}, nil)

	view, err := m.service().Get(context.Background(), groupID, alice)
	require.NoError(t, err)

	assert.Equal(t, money.Amount(1500), view.Balances.Net[alice])
	assert.Equal(t, money.Amount(-1500), view.Balances.Net[bob])
	assert.Equal(t, money.Amount(1500), view.Balances.Debts[bob][alice])
}

func TestService_Get_NonMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	groupID := uuid.New()

	m := newMocks(ctrl)
	m.repo.EXPECT().GetGroup(gomock.Any(), groupID).Return(&group.Group{
		ID:        groupID,
		MemberIDs: []uuid.UUID{uuid.New(), uuid.New()},
	}, nil)

	_, err := m.service().Get(context.Background(), groupID, uuid.New())
	assert.ErrorIs(t, err, group.ErrNotAMember)
}
