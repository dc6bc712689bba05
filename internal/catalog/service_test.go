package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/akademika/feeledger/internal/catalog"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params catalog.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *catalog.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: catalog.CreateParams{
					ID:          "semester_fee",
					Title:       "Semester Fee",
					Description: "Per-semester tuition",
					Amount:      3500000,
				},
			},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					CreateFeeItem(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "DuplicateID",
			args: args{
				params: catalog.CreateParams{
					ID:     "semester_fee",
					Title:  "Semester Fee",
					Amount: 3500000,
				},
			},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					CreateFeeItem(gomock.Any(), gomock.Any()).
					Return(catalog.ErrDuplicateID)
			},
			wantErr: catalog.ErrDuplicateID,
		},
		{
			name: "ZeroAmount",
			args: args{
				params: catalog.CreateParams{
					ID:     "exam_fee",
					Title:  "Exam Fee",
					Amount: 0,
				},
			},
			wantErr: catalog.ErrInvalidAmount,
		},
		{
			name: "NegativeAmount",
			args: args{
				params: catalog.CreateParams{
					ID:     "exam_fee",
					Title:  "Exam Fee",
					Amount: -250000,
				},
			},
			wantErr: catalog.ErrInvalidAmount,
		},
		{
			name: "BlankID",
			args: args{
				params: catalog.CreateParams{
					ID:     "   ",
					Title:  "Exam Fee",
					Amount: 250000,
				},
			},
			wantErr: catalog.ErrInvalidInput,
		},
		{
			name: "BlankTitle",
			args: args{
				params: catalog.CreateParams{
					ID:     "exam_fee",
					Title:  " ",
					Amount: 250000,
				},
			},
			wantErr: catalog.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := catalog.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.args.params.ID, got.ID)
			assert.Equal(t, tt.args.params.Amount, got.Amount)
		})
	}
}

func TestService_Update(t *testing.T) {
	existing := func() *catalog.FeeItem {
		return &catalog.FeeItem{
			ID:          "registration_fee",
			Title:       "Registration Fee",
			Description: "One-time registration",
			Amount:      5000000,
		}
	}

	type testCase struct {
		name      string
		params    catalog.UpdateParams
		setupMock func(m *catalog.MockRepository)
		want      func(t *testing.T, got *catalog.FeeItem)
		wantErr   error
	}

	newTitle := "Registration"
	newAmount := int64(5500000)
	badAmount := int64(-1)

	tests := []testCase{
		{
			name:   "PartialTitleOnly",
			params: catalog.UpdateParams{Title: &newTitle},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					GetFeeItem(gomock.Any(), "registration_fee").
					Return(existing(), nil)
				m.EXPECT().
					UpdateFeeItem(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			want: func(t *testing.T, got *catalog.FeeItem) {
				assert.Equal(t, "Registration", got.Title)
				assert.Equal(t, int64(5000000), got.Amount)
			},
		},
		{
			name:   "AmountChanged",
			params: catalog.UpdateParams{Amount: &newAmount},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					GetFeeItem(gomock.Any(), "registration_fee").
					Return(existing(), nil)
				m.EXPECT().
					UpdateFeeItem(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			want: func(t *testing.T, got *catalog.FeeItem) {
				assert.Equal(t, int64(5500000), got.Amount)
			},
		},
		{
			name:   "InvalidAmount",
			params: catalog.UpdateParams{Amount: &badAmount},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					GetFeeItem(gomock.Any(), "registration_fee").
					Return(existing(), nil)
			},
			wantErr: catalog.ErrInvalidAmount,
		},
		{
			name:   "NotFound",
			params: catalog.UpdateParams{Title: &newTitle},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					GetFeeItem(gomock.Any(), "registration_fee").
					Return(nil, catalog.ErrNotFound)
			},
			wantErr: catalog.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := catalog.NewService(repo)
			got, err := svc.Update(context.Background(), "registration_fee", tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.want(t, got)
		})
	}
}

func TestService_Delete(t *testing.T) {
	t.Run("Referenced", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := catalog.NewMockRepository(ctrl)
		repo.EXPECT().
			DeleteFeeItem(gomock.Any(), "semester_fee").
			Return(catalog.ErrReferenced)

		svc := catalog.NewService(repo)
		err := svc.Delete(context.Background(), "semester_fee")
		assert.ErrorIs(t, err, catalog.ErrReferenced)
	})

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := catalog.NewMockRepository(ctrl)
		repo.EXPECT().
			DeleteFeeItem(gomock.Any(), "lab_fee").
			Return(nil)

		svc := catalog.NewService(repo)
		assert.NoError(t, svc.Delete(context.Background(), "lab_fee"))
	})
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().
		ListFeeItems(gomock.Any()).
		Return([]*catalog.FeeItem{
			{ID: "registration_fee", Amount: 5000000},
			{ID: "semester_fee", Amount: 3500000},
			{ID: "exam_fee", Amount: 250000},
		}, nil)

	svc := catalog.NewService(repo)
	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestService_List_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().
		ListFeeItems(gomock.Any()).
		Return(nil, errors.New("db error"))

	svc := catalog.NewService(repo)
	_, err := svc.List(context.Background())
	assert.Error(t, err)
}
