package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

func TestClampPaging(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{1, 20, 1, 20},
		{0, 0, 1, 20},
		{-3, -1, 1, 20},
		{2, 100, 2, 100},
		{1, 500, 1, 100},
		{1, 101, 1, 100},
	}

	for _, tc := range cases {
		page, limit := clampPaging(tc.page, tc.limit)
		assert.Equal(t, tc.wantPage, page, "page %d/%d", tc.page, tc.limit)
		assert.Equal(t, tc.wantLimit, limit, "limit %d/%d", tc.page, tc.limit)
	}
}

func TestMyOrdersClampsOversizedLimit(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderQueryService(repo)

	_, _, err := svc.MyOrders(context.Background(), "u1", 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastPage)
	assert.Equal(t, 100, repo.lastLimit)
}

func TestAdminListClampsPaging(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderQueryService(repo)

	_, _, err := svc.AdminList(context.Background(), domain.ListFilter{Page: -1, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastPage)
	assert.Equal(t, 100, repo.lastLimit)
}

func TestMyOrderHidesForeignOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderQueryService(repo)

	order := &domain.Order{UserID: "u1", OrderNo: "#20260901-0001", Status: domain.StatusPending}
	require.NoError(t, repo.Save(context.Background(), order))

	got, err := svc.MyOrder(context.Background(), "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNo, got.OrderNo)

	_, err = svc.MyOrder(context.Background(), "u2", order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
