// Package orders places transactions against the catalog and moves them through
// their status lifecycle.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/01moynul/bizdesk/internal/models"
	"github.com/01moynul/bizdesk/internal/store"
)

// Tx is the transactional view of storage the processor needs. Not-found
// lookups must wrap store.ErrNotFound.
type Tx interface {
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	LockProduct(ctx context.Context, id string) (models.Product, error)
	AdjustStock(ctx context.Context, productID string, delta int, at time.Time) error
	InsertOrder(ctx context.Context, o *models.Order) error
	LockOrder(ctx context.Context, id string) (models.Order, error)
	SetOrderStatus(ctx context.Context, id string, status models.OrderStatus, at time.Time) error
	GetOrder(ctx context.Context, id string) (models.Order, error)
}

// Store runs atomic units of work and serves order reads.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	GetOrder(ctx context.Context, id string) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// SQLStore adapts *store.Store to Store.
type SQLStore struct {
	*store.Store
}

func (s SQLStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.Store.InTx(ctx, func(tx *store.Tx) error { return fn(tx) })
}

// Policy holds the configurable parts of the order workflow.
type Policy struct {
	// RestockOnCancel returns each item's quantity to its product when a
	// PENDING order is cancelled. Off by default: stock taken at creation is kept.
	RestockOnCancel bool
}

type Processor struct {
	store  Store
	policy Policy
	log    *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

func NewProcessor(log *slog.Logger, s Store, policy Policy) *Processor {
	return &Processor{
		store:  s,
		policy: policy,
		log:    log,
		tracer: otel.Tracer("github.com/01moynul/bizdesk/internal/orders"),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// SetClock overrides the time source used for order and stock timestamps.
func (p *Processor) SetClock(now func() time.Time) { p.now = now }

// CreateOrder validates in, then in one transaction checks the customer, locks
// and decrements each product's stock in list order, snapshots unit prices and
// persists the PENDING order. Any failure leaves storage untouched.
func (p *Processor) CreateOrder(ctx context.Context, in CreateOrderInput) (models.Order, error) {
	ctx, span := p.tracer.Start(ctx, "orders.CreateOrder",
		trace.WithAttributes(attribute.String("customer.id", in.CustomerID), attribute.Int("items", len(in.Items))))
	defer span.End()

	if err := in.Validate(); err != nil {
		return models.Order{}, p.fail(span, err)
	}

	var created models.Order
	err := p.store.InTx(ctx, func(tx Tx) error {
		// 1. --- Customer must exist ---
		if _, err := tx.GetCustomer(ctx, in.CustomerID); err != nil {
			return translateNotFound(err, ErrCustomerNotFound, in.CustomerID)
		}

		now := p.now()
		order := models.Order{
			ID:         uuid.NewString(),
			CustomerID: in.CustomerID,
			Status:     models.OrderPending,
			OrderDate:  now,
			CreatedAt:  now,
			UpdatedAt:  now,
			Items:      make([]models.OrderItem, 0, len(in.Items)),
		}

		// 2. --- Check stock, decrement and snapshot each item ---
		total := decimal.Zero
		for _, item := range in.Items {
			product, err := tx.LockProduct(ctx, item.ProductID)
			if err != nil {
				return translateNotFound(err, ErrProductNotFound, item.ProductID)
			}
			if product.Stock < item.Quantity {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.Stock,
				}
			}
			if err := tx.AdjustStock(ctx, product.ID, -item.Quantity, now); err != nil {
				if errors.Is(err, store.ErrStockExhausted) {
					return &InsufficientStockError{ProductID: product.ID, ProductName: product.Name, Requested: item.Quantity, Available: product.Stock}
				}
				return err
			}

			line := models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			}
			total = total.Add(line.LineTotal())
			order.Items = append(order.Items, line)
		}
		if total.GreaterThanOrEqual(models.MaxAmount) {
			verr := &ValidationError{}
			verr.add("items", "Order total must be less than "+models.MaxAmount.String())
			return verr
		}
		order.TotalAmount = total

		// 3. --- Persist order and items ---
		if err := tx.InsertOrder(ctx, &order); err != nil {
			return err
		}

		var err error
		created, err = tx.GetOrder(ctx, order.ID)
		return err
	})
	if err != nil {
		return models.Order{}, p.fail(span, err)
	}

	p.log.InfoContext(ctx, "order created",
		"order_id", created.ID,
		"customer_id", created.CustomerID,
		"items", len(created.Items),
		"total", created.TotalAmount.StringFixed(2),
	)
	return created, nil
}

// UpdateOrderStatus moves a PENDING order to COMPLETED or CANCELLED. Total and
// items are never touched; stock is returned on cancel only under Policy.RestockOnCancel.
func (p *Processor) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	ctx, span := p.tracer.Start(ctx, "orders.UpdateOrderStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()

	if err := validateStatusTarget(status); err != nil {
		return models.Order{}, p.fail(span, err)
	}

	var updated models.Order
	err := p.store.InTx(ctx, func(tx Tx) error {
		current, err := tx.LockOrder(ctx, id)
		if err != nil {
			return translateNotFound(err, ErrOrderNotFound, id)
		}
		if err := CanTransition(current.Status, status); err != nil {
			return err
		}

		now := p.now()
		if err := tx.SetOrderStatus(ctx, id, status, now); err != nil {
			return translateNotFound(err, ErrOrderNotFound, id)
		}

		if status == models.OrderCancelled && p.policy.RestockOnCancel {
			for _, it := range current.Items {
				if err := tx.AdjustStock(ctx, it.ProductID, it.Quantity, now); err != nil {
					return fmt.Errorf("restock product %s: %w", it.ProductID, err)
				}
			}
		}

		updated, err = tx.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return models.Order{}, p.fail(span, err)
	}

	p.log.InfoContext(ctx, "order status updated",
		"order_id", updated.ID,
		"status", updated.Status,
		"restocked", status == models.OrderCancelled && p.policy.RestockOnCancel,
	)
	return updated, nil
}

// GetOrder returns one order with customer and items, or ErrOrderNotFound.
func (p *Processor) GetOrder(ctx context.Context, id string) (models.Order, error) {
	o, err := p.store.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, translateNotFound(err, ErrOrderNotFound, id)
	}
	return o, nil
}

// ListOrders returns every order, newest first.
func (p *Processor) ListOrders(ctx context.Context) ([]models.Order, error) {
	return p.store.ListOrders(ctx)
}

func (p *Processor) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// translateNotFound replaces a storage not-found with the workflow sentinel.
func translateNotFound(err, sentinel error, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", sentinel, id)
	}
	return err
}
