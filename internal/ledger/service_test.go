package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/npereira/centavo/internal/ledger"
)

func TestService_Create(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name      string
		params    ledger.CreateParams
		setupMock func(m *ledger.MockRepository)
		wantValid bool
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: ledger.CreateParams{
				Section:     "Food",
				Amount:      1250,
				Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
				PaymentMode: "card",
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *ledger.Entry) error {
						e.ID = uuid.New()
						e.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:      "MissingSection",
			params:    ledger.CreateParams{Amount: 100, Date: time.Now()},
			wantValid: true,
		},
		{
			name:      "ZeroAmount",
			params:    ledger.CreateParams{Section: "Food", Date: time.Now()},
			wantValid: true,
		},
		{
			name:      "MissingDate",
			params:    ledger.CreateParams{Section: "Food", Amount: 100},
			wantValid: true,
		},
		{
			name: "RepoError",
			params: ledger.CreateParams{
				Section: "Food",
				Amount:  100,
				Date:    time.Now(),
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateEntry(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := ledger.NewService(repo)
			got, err := svc.Create(context.Background(), userID, tt.params)

			if tt.wantValid {
				var vErr *ledger.ValidationError
				assert.ErrorAs(t, err, &vErr)
				return
			}

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, userID, got.UserID)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestListFilter_Normalize(t *testing.T) {
	type testCase struct {
		name     string
		in       ledger.ListFilter
		wantPage int
		wantSize int
	}

	tests := []testCase{
		{name: "Defaults", in: ledger.ListFilter{}, wantPage: 1, wantSize: 20},
		{name: "NegativePage", in: ledger.ListFilter{Page: -3, PageSize: 10}, wantPage: 1, wantSize: 10},
		{name: "ZeroSize", in: ledger.ListFilter{Page: 2}, wantPage: 2, wantSize: 20},
		{name: "OversizedPage", in: ledger.ListFilter{Page: 1, PageSize: 5000}, wantPage: 1, wantSize: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			assert.Equal(t, tt.wantPage, tt.in.Page)
			assert.Equal(t, tt.wantSize, tt.in.PageSize)
		})
	}
}

func TestService_List_NormalizesPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListEntries(gomock.Any(), userID, ledger.ListFilter{Page: 1, PageSize: 20}).
		Return(nil, nil)

	svc := ledger.NewService(repo)
	_, err := svc.List(context.Background(), userID, ledger.ListFilter{Page: -1, PageSize: 0})
	assert.NoError(t, err)
}

func TestService_Deposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		AdjustBalance(gomock.Any(), userID, int64(5000), "transfer").
		Return(int64(15000), nil)

	svc := ledger.NewService(repo)

	balance, err := svc.Deposit(context.Background(), userID, 5000, "transfer")
	require.NoError(t, err)
	assert.Equal(t, int64(15000), balance)
}

func TestService_Deposit_RejectsNonPositive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := ledger.NewService(ledger.NewMockRepository(ctrl))

	for _, amount := range []int64{0, -100} {
		_, err := svc.Deposit(context.Background(), uuid.New(), amount, "")

		var vErr *ledger.ValidationError
		assert.ErrorAs(t, err, &vErr)
	}
}

func TestService_Withdraw(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		AdjustBalance(gomock.Any(), userID, int64(-2000), "").
		Return(int64(8000), nil)

	svc := ledger.NewService(repo)

	balance, err := svc.Withdraw(context.Background(), userID, 2000)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), balance)
}

func TestService_Update_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := ledger.NewService(ledger.NewMockRepository(ctrl))

	empty := ""
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), ledger.UpdateParams{Section: &empty})

	var vErr *ledger.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func entryParams(date string, amount int64, section string) ledger.CreateParams {
	d, _ := time.Parse(time.DateOnly, date)
	return ledger.CreateParams{Section: section, Amount: amount, Date: d, PaymentMode: "card"}
}

func TestService_ImportBatch(t *testing.T) {
	userID := uuid.New()

	t.Run("AllNew", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		params := []ledger.CreateParams{
			entryParams("2024-01-05", 1000, "Food"),
			entryParams("2024-01-06", 2000, "Transport"),
		}

		btx := ledger.NewMockBatchTx(ctrl)
		btx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
		btx.EXPECT().
			CreateEntries(gomock.Any(), gomock.Len(2)).
			DoAndReturn(func(_ context.Context, entries []*ledger.Entry) error {
				for _, e := range entries {
					e.ID = uuid.New()
				}
				return nil
			})
		btx.EXPECT().Commit().Return(nil)
		btx.EXPECT().Rollback().Return(nil)

		repo := ledger.NewMockRepository(ctrl)
		repo.EXPECT().
			BeginBatch(gomock.Any(), userID, gomock.Any(), gomock.Any()).
			Return(btx, nil)

		svc := ledger.NewService(repo)

		result, err := svc.ImportBatch(context.Background(), userID, params)
		require.NoError(t, err)
		assert.Len(t, result.Imported, 2)
		assert.Empty(t, result.Conflicts)
	})

	t.Run("ConflictsReportedWithoutWriting", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		params := []ledger.CreateParams{
			entryParams("2024-01-05", 1000, "Food"),
			entryParams("2024-01-06", 2000, "Transport"),
		}

		existing := &ledger.Entry{
			ID:      uuid.New(),
			UserID:  userID,
			Section: "Food",
			Amount:  1000,
			Date:    params[0].Date,
		}

		btx := ledger.NewMockBatchTx(ctrl)
		btx.EXPECT().FindDuplicates(gomock.Any(), params).Return([]*ledger.Entry{existing}, nil)
		btx.EXPECT().Rollback().Return(nil)

		repo := ledger.NewMockRepository(ctrl)
		repo.EXPECT().
			BeginBatch(gomock.Any(), userID, gomock.Any(), gomock.Any()).
			Return(btx, nil)

		svc := ledger.NewService(repo)

		result, err := svc.ImportBatch(context.Background(), userID, params)
		require.NoError(t, err)
		assert.Empty(t, result.Imported)
		require.Len(t, result.Conflicts, 1)
		assert.Equal(t, existing.ID, result.Conflicts[0].Existing.ID)
		require.Len(t, result.New, 1)
		assert.Equal(t, "Transport", result.New[0].Section)
	})

	t.Run("Empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := ledger.NewService(ledger.NewMockRepository(ctrl))

		result, err := svc.ImportBatch(context.Background(), userID, nil)
		require.NoError(t, err)
		assert.Empty(t, result.Imported)
	})
}
