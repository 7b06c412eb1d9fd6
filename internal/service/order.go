package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"digital-key-store/internal/dto"
	"digital-key-store/internal/model"
	"digital-key-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxOrderIDAttempts = 3

type OrderService interface {
	ListProducts(ctx context.Context) ([]*dto.ProductView, error)
	CreateOrder(ctx context.Context, req *dto.BuyRequest) (*model.Order, error)
	ListPending(ctx context.Context) ([]*model.Order, error)
	ListDelivered(ctx context.Context) (map[string]*model.Order, error)
	ListCanceled(ctx context.Context) ([]*model.Order, error)
	VerifyOrder(ctx context.Context, orderID string) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*model.Order, error)
	// WaitNotifications blocks until every dispatched notification attempt
	// has finished.
	WaitNotifications()
}

type orderServiceImpl struct {
	// mu serializes the read-modify-write span of every mutation across
	// both documents.
	mu sync.RWMutex

	inventoryRepo repository.InventoryRepository
	orderRepo     repository.OrderRepository
	proofRepo     repository.ProofRepository
	notifier      Notifier
	logger        *zap.Logger

	notifications sync.WaitGroup
	now           func() time.Time
	newOrderID    func() string
}

func NewOrderService(
	inventoryRepo repository.InventoryRepository,
	orderRepo repository.OrderRepository,
	proofRepo repository.ProofRepository,
	notifier Notifier,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		inventoryRepo: inventoryRepo,
		orderRepo:     orderRepo,
		proofRepo:     proofRepo,
		notifier:      notifier,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
		newOrderID:    newOrderID,
	}
}

func newOrderID() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *orderServiceImpl) ListProducts(ctx context.Context) ([]*dto.ProductView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, err := s.inventoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	views := make([]*dto.ProductView, len(products))
	for i, p := range products {
		views[i] = &dto.ProductView{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Stock: p.Stock(),
		}
	}
	return views, nil
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *dto.BuyRequest) (*model.Order, error) {
	if req.ProductID == "" || req.Email == "" {
		return nil, model.NewValidationError("productId and email required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.inventoryRepo.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.Qty < 1 {
		return nil, model.NewValidationError("Qty must be >= 1")
	}

	var proofPath *string
	if req.Proof != nil {
		p, err := s.proofRepo.Save(ctx, req.Proof.Filename, req.Proof.Content)
		if err != nil {
			return nil, fmt.Errorf("store proof: %w", err)
		}
		proofPath = &p
	}

	order := &model.Order{
		ProductID: req.ProductID,
		Qty:       req.Qty,
		Name:      req.Name,
		Email:     req.Email,
		Total:     orderTotal(product.Price, req.Qty),
		ProofPath: proofPath,
		Status:    model.OrderStatusPending,
		CreatedAt: s.now(),
	}

	for attempt := 1; ; attempt++ {
		order.OrderID = s.newOrderID()
		err = s.orderRepo.Create(ctx, order)
		if !errors.Is(err, repository.ErrDuplicateOrderID) || attempt == maxOrderIDAttempts {
			break
		}
	}
	if err != nil {
		if proofPath != nil {
			if rmErr := s.proofRepo.Remove(ctx, *proofPath); rmErr != nil {
				s.logger.Warn("failed to remove orphaned proof", zap.String("proof", *proofPath), zap.Error(rmErr))
			}
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.OrderID),
		zap.String("product_id", order.ProductID),
		zap.Int("qty", order.Qty),
		zap.Bool("proof", proofPath != nil),
	)
	return order, nil
}

func orderTotal(price float64, qty int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))).InexactFloat64()
}

func (s *orderServiceImpl) ListPending(ctx context.Context) ([]*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.orderRepo.ListPending(ctx)
}

func (s *orderServiceImpl) ListDelivered(ctx context.Context) (map[string]*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.orderRepo.ListDelivered(ctx)
}

func (s *orderServiceImpl) ListCanceled(ctx context.Context) ([]*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.orderRepo.ListCanceled(ctx)
}

// VerifyOrder allocates keys for a pending order, moves it to delivered
// and dispatches the key notification without waiting for it.
func (s *orderServiceImpl) VerifyOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, model.NewValidationError("orderId required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orderRepo.FindPending(ctx, orderID)
	if err != nil {
		return nil, err
	}

	product, err := s.inventoryRepo.Get(ctx, order.ProductID)
	if err != nil {
		if errors.Is(err, model.ErrUnknownProduct) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}
	if product.Stock() < order.Qty {
		return nil, model.ErrInsufficientStock
	}

	keys, err := s.inventoryRepo.Allocate(ctx, order.ProductID, order.Qty)
	if err != nil {
		return nil, fmt.Errorf("allocate keys: %w", err)
	}

	assigned := make([]model.AssignedKey, len(keys))
	for i, k := range keys {
		assigned[i] = model.AssignedKey{Key: k, ProductName: product.Name}
	}

	delivered, err := s.orderRepo.MoveToDelivered(ctx, orderID, assigned, s.now())
	if err != nil {
		s.compensate(ctx, orderID, order.ProductID, keys)
		return nil, fmt.Errorf("deliver order: %w", err)
	}

	s.logger.Info("order verified",
		zap.String("order_id", orderID),
		zap.String("product_id", order.ProductID),
		zap.Int("keys", len(keys)),
	)

	s.dispatch(&model.KeyDelivery{
		OrderID:     delivered.OrderID,
		Email:       delivered.Email,
		Name:        delivered.Name,
		ProductName: product.Name,
		Keys:        delivered.Keys(),
	})

	return delivered, nil
}

// compensate puts allocated keys back when the ledger write failed.
func (s *orderServiceImpl) compensate(ctx context.Context, orderID, productID string, keys []string) {
	if err := s.inventoryRepo.Restore(ctx, productID, keys); err != nil {
		s.logger.Error("failed to restore allocated keys",
			zap.String("order_id", orderID),
			zap.String("product_id", productID),
			zap.Strings("keys", keys),
			zap.Error(err),
		)
		return
	}
	s.logger.Warn("restored allocated keys after ledger failure",
		zap.String("order_id", orderID),
		zap.String("product_id", productID),
		zap.Int("keys", len(keys)),
	)
}

func (s *orderServiceImpl) dispatch(delivery *model.KeyDelivery) {
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		if err := s.notifier.Notify(context.Background(), delivery); err != nil {
			s.logger.Error("failed to send keys",
				zap.String("order_id", delivery.OrderID),
				zap.String("email", delivery.Email),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("keys sent",
			zap.String("order_id", delivery.OrderID),
			zap.String("email", delivery.Email),
		)
	}()
}

func (s *orderServiceImpl) WaitNotifications() {
	s.notifications.Wait()
}

func (s *orderServiceImpl) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, model.NewValidationError("orderId required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	canceled, err := s.orderRepo.MoveToCanceled(ctx, orderID, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("order canceled", zap.String("order_id", orderID))
	return canceled, nil
}
