package contribution_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/squareupapp/squareup-server/internal/contribution"
	"github.com/squareupapp/squareup-server/internal/money"
)

func TestService_Add(t *testing.T) {
	groupID := uuid.New()
	sender := uuid.New()
	receiver := uuid.New()
	outsider := uuid.New()
	members := []uuid.UUID{sender, receiver}

	type testCase struct {
		name      string
		params    contribution.AddParams
		setupMock func(repo *contribution.MockRepository, tx *contribution.MockAppendTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: contribution.AddParams{
				GroupID:         groupID,
				SenderID:        sender,
				Description:     "Dinner",
				TotalAmount:     money.Amount(5000),
				ReceiverAmounts: map[uuid.UUID]money.Amount{receiver: 2500},
			},
			setupMock: func(repo *contribution.MockRepository, tx *contribution.MockAppendTx) {
				repo.EXPECT().BeginAppend(gomock.Any(), groupID).Return(tx, nil)
				tx.EXPECT().Members(gomock.Any()).Return(members, nil)
				tx.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *contribution.Contribution) error {
						c.ID = uuid.New()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			// A split smaller than the total is fine, the sender covers the
			// rest themselves.
			name: "PartialSplit",
			params: contribution.AddParams{
				GroupID:         groupID,
				SenderID:        sender,
				Description:     "Groceries",
				TotalAmount:     money.Amount(10000),
				ReceiverAmounts: map[uuid.UUID]money.Amount{receiver: 100},
			},
			setupMock: func(repo *contribution.MockRepository, tx *contribution.MockAppendTx) {
				repo.EXPECT().BeginAppend(gomock.Any(), groupID).Return(tx, nil)
				tx.EXPECT().Members(gomock.Any()).Return(members, nil)
				tx.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name: "NonPositiveTotal",
			params: contribution.AddParams{
				GroupID:         groupID,
				SenderID:        sender,
				ReceiverAmounts: map[uuid.UUID]money.Amount{receiver: 100},
			},
			wantErr: contribution.ErrInvalidAmount,
		},
		{
			name: "NoReceivers",
			params: contribution.AddParams{
				GroupID:     groupID,
				SenderID:    sender,
				TotalAmount: money.Amount(100),
			},
			wantErr: contribution.ErrInvalidAmount,
		},
		{
			name: "NegativeReceiverAmount",
			params: contribution.AddParams{
				GroupID:         groupID,
				SenderID:        sender,
				TotalAmount:     money.Amount(100),
				ReceiverAmounts: map[uuid.UUID]money.Amount{receiver: -5},
			},
			wantErr: contribution.ErrInvalidAmount,
		},
		{
			name: "SenderNotMember",
			params: contribution.AddParams{
				GroupID:         groupID,
				SenderID:        outsider,
				TotalAmount:     money.Amount(100),
				ReceiverAmounts: map[uuid.UUID]money.Amount{receiver: 100},
			},
			setupMock: func(repo *contribution.MockRepository, tx *contribution.MockAppendTx) {
				repo.EXPECT().BeginAppend(gomock.Any(), groupID).Return(tx, nil)
				tx.EXPECT().Members(gomock.Any()).Return(members, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: contribution.ErrNotMember,
		},
		{
			name: "ReceiverNotMember",
			params: contribution.AddParams{
				GroupID:         groupID,
				SenderID:        sender,
				TotalAmount:     money.Amount(100),
				ReceiverAmounts: map[uuid.UUID]money.Amount{outsider: 100},
			},
			setupMock: func(repo *contribution.MockRepository, tx *contribution.MockAppendTx) {
				repo.EXPECT().BeginAppend(gomock.Any(), groupID).Return(tx, nil)
				tx.EXPECT().Members(gomock.Any()).Return(members, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: contribution.ErrNotMember,
		},
		{
			name: "SenderCannotReceive",
			params: contribution.AddParams{
				GroupID:         groupID,
				SenderID:        sender,
				TotalAmount:     money.Amount(100),
				ReceiverAmounts: map[uuid.UUID]money.Amount{sender: 100},
			},
			setupMock: func(repo *contribution.MockRepository, tx *contribution.MockAppendTx) {
				repo.EXPECT().BeginAppend(gomock.Any(), groupID).Return(tx, nil)
				tx.EXPECT().Members(gomock.Any()).Return(members, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: contribution.ErrNotMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := contribution.NewMockRepository(ctrl)
			tx := contribution.NewMockAppendTx(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := contribution.NewService(repo)
			got, err := svc.Add(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, groupID, got.GroupID)
		})
	}
}

func TestService_Feed(t *testing.T) {
	userID := uuid.New()

	page := func(n int) []*contribution.Contribution {
		out := make([]*contribution.Contribution, n)
		for i := range out {
			out[i] = &contribution.Contribution{ID: uuid.New()}
		}

		return out
	}

	type testCase struct {
		name        string
		limit       int
		wantLimit   int
		returned    int
		wantHasMore bool
	}

	tests := []testCase{
		{name: "DefaultLimitFullPage", limit: 0, wantLimit: 15, returned: 15, wantHasMore: true},
		{name: "DefaultLimitShortPage", limit: 0, wantLimit: 15, returned: 3, wantHasMore: false},
		{name: "ExplicitLimit", limit: 5, wantLimit: 5, returned: 5, wantHasMore: true},
		{name: "LimitClamped", limit: 1000, wantLimit: 100, returned: 10, wantHasMore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := contribution.NewMockRepository(ctrl)
			repo.EXPECT().
				ListFeed(gomock.Any(), userID, tt.wantLimit, nil).
				Return(page(tt.returned), nil)

			svc := contribution.NewService(repo)

			got, hasMore, err := svc.Feed(context.Background(), userID, tt.limit, nil)
			require.NoError(t, err)
			assert.Len(t, got, tt.returned)
			assert.Equal(t, tt.wantHasMore, hasMore)
		})
	}
}

func TestService_Feed_Cursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	afterID := uuid.New()

	repo := contribution.NewMockRepository(ctrl)
	repo.EXPECT().
		ListFeed(gomock.Any(), userID, 15, &afterID).
		Return(nil, contribution.ErrNotFound)

	svc := contribution.NewService(repo)

	_, _, err := svc.Feed(context.Background(), userID, 0, &afterID)
	assert.ErrorIs(t, err, contribution.ErrNotFound)
}
