package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"digital-key-store/internal/dto"
	"digital-key-store/internal/model"
	"digital-key-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu         sync.Mutex
	deliveries []*model.KeyDelivery
	err        error
}

func (n *recordingNotifier) Notify(ctx context.Context, delivery *model.KeyDelivery) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deliveries = append(n.deliveries, delivery)
	return n.err
}

func (n *recordingNotifier) sent() []*model.KeyDelivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*model.KeyDelivery(nil), n.deliveries...)
}

// flakyStore fails SaveOrders once armed.
type flakyStore struct {
	repository.DocumentStore
	failOrders bool
}

func (s *flakyStore) SaveOrders(ctx context.Context, book *model.OrderBook) error {
	if s.failOrders {
		return errors.New("disk full")
	}
	return s.DocumentStore.SaveOrders(ctx, book)
}

type fixture struct {
	svc       *orderServiceImpl
	store     *flakyStore
	inventory repository.InventoryRepository
	orders    repository.OrderRepository
	notifier  *recordingNotifier
	uploads   string
}

func newFixture(t *testing.T, inv model.Inventory) *fixture {
	t.Helper()
	dir := t.TempDir()

	base, err := repository.NewFileStore(filepath.Join(dir, "keys.json"), filepath.Join(dir, "orders.json"))
	require.NoError(t, err)
	store := &flakyStore{DocumentStore: base}

	inventoryRepo := repository.NewInventoryRepository(store)
	orderRepo := repository.NewOrderRepository(store)
	_, err = inventoryRepo.Seed(context.Background(), inv)
	require.NoError(t, err)
	_, err = orderRepo.Init(context.Background())
	require.NoError(t, err)

	uploads := filepath.Join(dir, "uploads")
	proofRepo, err := repository.NewProofRepository(uploads)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	svc := NewOrderService(inventoryRepo, orderRepo, proofRepo, notifier, zap.NewNop()).(*orderServiceImpl)

	return &fixture{
		svc:       svc,
		store:     store,
		inventory: inventoryRepo,
		orders:    orderRepo,
		notifier:  notifier,
		uploads:   uploads,
	}
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.inventory.Get(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock()
}

func TestBuyThenVerify(t *testing.T) {
	f := newFixture(t, model.SampleInventory())
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, &dto.BuyRequest{ProductID: "key_1day", Qty: 2, Email: "a@b.com"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.OrderID, "ORD-"))
	assert.Equal(t, 10.0, order.Total)
	assert.Nil(t, order.ProofPath)

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	delivered, err := f.svc.VerifyOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1D-AAAA-0001", "1D-AAAA-0002"}, delivered.Keys())
	assert.Equal(t, "1 Day", delivered.Assigned[0].ProductName)
	assert.Equal(t, 1, f.stock(t, "key_1day"))

	pending, err = f.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	deliveredMap, err := f.svc.ListDelivered(ctx)
	require.NoError(t, err)
	require.Contains(t, deliveredMap, order.OrderID)
	assert.Equal(t, model.OrderStatusDelivered, deliveredMap[order.OrderID].Status)

	f.svc.WaitNotifications()
	sent := f.notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@b.com", sent[0].Email)
	assert.Equal(t, []string{"1D-AAAA-0001", "1D-AAAA-0002"}, sent[0].Keys)
}

func TestVerifyInsufficientStockLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, model.SampleInventory())
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, &dto.BuyRequest{ProductID: "key_lifetime", Qty: 5, Email: "a@b.com"})
	require.NoError(t, err)

	_, err = f.svc.VerifyOrder(ctx, order.OrderID)
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	assert.Equal(t, 1, f.stock(t, "key_lifetime"))
	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.OrderStatusPending, pending[0].Status)

	delivered, err := f.svc.ListDelivered(ctx)
	require.NoError(t, err)
	assert.Empty(t, delivered)

	f.svc.WaitNotifications()
	assert.Empty(t, f.notifier.sent())
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     *dto.BuyRequest
		wantErr error
		message string
	}{
		{name: "missing email", req: &dto.BuyRequest{ProductID: "key_1day", Qty: 1}, wantErr: model.ErrValidation, message: "productId and email required"},
		{name: "missing product", req: &dto.BuyRequest{Qty: 1, Email: "a@b.com"}, wantErr: model.ErrValidation, message: "productId and email required"},
		{name: "unknown product", req: &dto.BuyRequest{ProductID: "key_x", Qty: 1, Email: "a@b.com"}, wantErr: model.ErrUnknownProduct},
		{name: "zero qty", req: &dto.BuyRequest{ProductID: "key_1day", Qty: 0, Email: "a@b.com"}, wantErr: model.ErrValidation, message: "Qty must be >= 1"},
		{name: "negative qty", req: &dto.BuyRequest{ProductID: "key_1day", Qty: -3, Email: "a@b.com"}, wantErr: model.ErrValidation, message: "Qty must be >= 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, model.SampleInventory())

			_, err := f.svc.CreateOrder(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.message != "" {
				assert.EqualError(t, err, tt.message)
			}

			pending, err := f.svc.ListPending(context.Background())
			require.NoError(t, err)
			assert.Empty(t, pending)
		})
	}
}

func TestCreateOrderStoresProof(t *testing.T) {
	f := newFixture(t, model.SampleInventory())

	order, err := f.svc.CreateOrder(context.Background(), &dto.BuyRequest{
		ProductID: "key_3day",
		Qty:       1,
		Email:     "a@b.com",
		Name:      "Ann",
		Proof:     &dto.Proof{Filename: "receipt.jpg", Content: strings.NewReader("jpeg")},
	})
	require.NoError(t, err)
	require.NotNil(t, order.ProofPath)
	assert.True(t, strings.HasPrefix(*order.ProofPath, repository.ProofURLPrefix))

	data, err := os.ReadFile(filepath.Join(f.uploads, strings.TrimPrefix(*order.ProofPath, repository.ProofURLPrefix)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
}

func TestCreateOrderFailureRemovesProof(t *testing.T) {
	f := newFixture(t, model.SampleInventory())
	f.store.failOrders = true

	_, err := f.svc.CreateOrder(context.Background(), &dto.BuyRequest{
		ProductID: "key_3day",
		Qty:       1,
		Email:     "a@b.com",
		Proof:     &dto.Proof{Filename: "receipt.jpg", Content: strings.NewReader("jpeg")},
	})
	require.Error(t, err)

	entries, err := os.ReadDir(f.uploads)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateOrderRetriesDuplicateID(t *testing.T) {
	f := newFixture(t, model.SampleInventory())
	ctx := context.Background()

	ids := []string{"ORD-1", "ORD-1", "ORD-2"}
	f.svc.newOrderID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := f.svc.CreateOrder(ctx, &dto.BuyRequest{ProductID: "key_1day", Qty: 1, Email: "a@b.com"})
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(ctx, &dto.BuyRequest{ProductID: "key_1day", Qty: 1, Email: "a@b.com"})
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", first.OrderID)
	assert.Equal(t, "ORD-2", second.OrderID)
}

func TestVerifyLedgerFailureRestoresKeys(t *testing.T) {
	f := newFixture(t, model.SampleInventory())
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, &dto.BuyRequest{ProductID: "key_1day", Qty: 2, Email: "a@b.com"})
	require.NoError(t, err)

	f.store.failOrders = true
	_, err = f.svc.VerifyOrder(ctx, order.OrderID)
	require.Error(t, err)
	f.store.failOrders = false

	p, err := f.inventory.Get(ctx, "key_1day")
	require.NoError(t, err)
	assert.Equal(t, model.SampleInventory()["key_1day"].Keys, p.Keys)

	_, err = f.orders.FindPending(ctx, order.OrderID)
	assert.NoError(t, err)

	f.svc.WaitNotifications()
	assert.Empty(t, f.notifier.sent())
}

func TestVerifyNotFound(t *testing.T) {
	f := newFixture(t, model.SampleInventory())
	ctx := context.Background()

	_, err := f.svc.VerifyOrder(ctx, "ORD-missing")
	assert.ErrorIs(t, err, model.ErrOrderNotFound)

	_, err = f.svc.VerifyOrder(ctx, "")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestVerifyProductRemovedFromInventory(t *testing.T) {
	f := newFixture(t, model.SampleInventory())
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, &dto.BuyRequest{ProductID: "key_3day", Qty: 1, Email: "a@b.com"})
	require.NoError(t, err)

	inv := model.SampleInventory()
	delete(inv, "key_3day")
	require.NoError(t, f.store.SaveInventory(ctx, inv))

	_, err = f.svc.VerifyOrder(ctx, order.OrderID)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestVerifyNotificationFailureKeepsDelivery(t *testing.T) {
	f := newFixture(t, model.SampleInventory())
	f.notifier.err = ErrNotificationFailure
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, &dto.BuyRequest{ProductID: "key_lifetime", Qty: 1, Email: "a@b.com"})
	require.NoError(t, err)

	_, err = f.svc.VerifyOrder(ctx, order.OrderID)
	require.NoError(t, err)
	f.svc.WaitNotifications()

	delivered, err := f.svc.ListDelivered(ctx)
	require.NoError(t, err)
	assert.Contains(t, delivered, order.OrderID)
	assert.Len(t, f.notifier.sent(), 1)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t, model.SampleInventory())
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, &dto.BuyRequest{ProductID: "key_1day", Qty: 1, Email: "a@b.com"})
	require.NoError(t, err)

	canceled, err := f.svc.CancelOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCanceled, canceled.Status)
	assert.NotNil(t, canceled.CanceledAt)
	assert.Equal(t, 3, f.stock(t, "key_1day"))

	_, err = f.svc.CancelOrder(ctx, order.OrderID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	_, err = f.svc.VerifyOrder(ctx, order.OrderID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)

	list, err := f.svc.ListCanceled(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestConcurrentVerifyNeverDuplicatesKeys(t *testing.T) {
	inv := model.Inventory{
		"key_x": {ID: "key_x", Name: "X", Price: 1, Keys: []string{"K1", "K2", "K3", "K4", "K5"}},
	}
	f := newFixture(t, inv)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 8; i++ {
		order, err := f.svc.CreateOrder(ctx, &dto.BuyRequest{ProductID: "key_x", Qty: 1, Email: fmt.Sprintf("u%d@b.com", i)})
		require.NoError(t, err)
		ids = append(ids, order.OrderID)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		assigned []string
		short    int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			order, err := f.svc.VerifyOrder(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, model.ErrInsufficientStock) {
				short++
				return
			}
			if assert.NoError(t, err) {
				assigned = append(assigned, order.Keys()...)
			}
		}(id)
	}
	wg.Wait()
	f.svc.WaitNotifications()

	assert.Len(t, assigned, 5)
	assert.ElementsMatch(t, []string{"K1", "K2", "K3", "K4", "K5"}, assigned)
	assert.Equal(t, 3, short)
	assert.Equal(t, 0, f.stock(t, "key_x"))

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestListProductsHidesKeys(t *testing.T) {
	f := newFixture(t, model.SampleInventory())

	products, err := f.svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, &dto.ProductView{ID: "key_1day", Name: "1 Day", Price: 5, Stock: 3}, products[0])
}
