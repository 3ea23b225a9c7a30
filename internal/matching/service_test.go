package matching_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tradedesk/internal/matching"
)

func TestService_Suggest(t *testing.T) {
	type testCase struct {
		name     string
		remitter string
		setup    func(repo *matching.MockRepository)
		want     string
	}

	tests := []testCase{
		{
			name:     "CollapsesWhitespace",
			remitter: "  ACME   TRADING\tLLC ",
			setup: func(repo *matching.MockRepository) {
				repo.EXPECT().FindBuyer(gomock.Any(), "ACME TRADING LLC").Return("Acme", nil)
			},
			want: "Acme",
		},
		{
			name:     "BlankNameSkipsLookup",
			remitter: "   ",
			setup:    func(*matching.MockRepository) {},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)
			tt.setup(repo)

			got, err := matching.NewService(repo).Suggest(context.Background(), tt.remitter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	repo.EXPECT().CreateMapping(gomock.Any(), "ACME TRADING", "Acme Ltd").Return(nil)

	require.NoError(t, svc.Learn(context.Background(), " ACME  TRADING ", " Acme Ltd "))

	err := svc.Learn(context.Background(), "ACME", "  ")
	assert.ErrorIs(t, err, matching.ErrInvalidMapping)
}
