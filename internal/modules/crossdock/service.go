package crossdock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/modules/order"
	"github.com/cargohub/cargohub-api/internal/modules/shipment"
	"github.com/cargohub/cargohub-api/internal/storage"
	"go.uber.org/zap"
)

// Workflow state errors, surfaced as 409.
var (
	ErrAlreadyDelivered = errors.New("shipment already delivered")
	ErrNotReceived      = errors.New("shipment has not been received")
)

// Match pairs one shipment line with an open order line.
type Match struct {
	ShipmentID           int    `json:"shipment_id"`
	OrderID              int    `json:"order_id"`
	ItemID               string `json:"item_id"`
	MatchedAmount        int    `json:"matched_amount"`
	RemainingOrderAmount int    `json:"remaining_order_amount"`
}

// PendingItem is a shipment line with no matching order line.
type PendingItem struct {
	ShipmentID int    `json:"shipment_id"`
	ItemID     string `json:"item_id"`
	Amount     int    `json:"amount"`
	Reason     string `json:"reason"`
}

// MatchResult is the reconciliation report returned by Match.
type MatchResult struct {
	Matches []Match       `json:"matches"`
	Pending []PendingItem `json:"pending"`
}

// Service reconciles incoming shipments directly against outstanding
// orders without intermediate warehousing.
type Service interface {
	// Match is read-only: it pairs open order lines with open shipment
	// lines by item id and reports the suggestions.
	Match(ctx context.Context, shipmentID *int) (MatchResult, error)
	// Receive marks a pending shipment (and its lines) as Transit.
	Receive(ctx context.Context, shipmentID int) (string, error)
	// Ship marks a received shipment (and its lines) as Shipped.
	Ship(ctx context.Context, shipmentID int) (string, error)
}

type service struct {
	shipments storage.Collection[shipment.Shipment]
	orders    storage.Collection[order.Order]
	rec       audit.Recorder
	log       *zap.Logger
}

// NewService creates a new cross-docking service over the shipment and
// order collections.
func NewService(shipments storage.Collection[shipment.Shipment], orders storage.Collection[order.Order], rec audit.Recorder, log *zap.Logger) Service {
	return &service{shipments: shipments, orders: orders, rec: rec, log: log}
}

func (s *service) Match(ctx context.Context, shipmentID *int) (MatchResult, error) {
	shipments, err := s.shipments.List(ctx)
	if err != nil {
		return MatchResult{}, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return MatchResult{}, err
	}

	result := MatchResult{Matches: []Match{}, Pending: []PendingItem{}}
	for _, sh := range shipments {
		if shipmentID != nil && sh.ID != *shipmentID {
			continue
		}
		// open = remaining order amount per item, across the orders
		// referencing this shipment
		open := map[string]*Match{}
		for _, o := range orders {
			if o.ShipmentID == nil || *o.ShipmentID != sh.ID {
				continue
			}
			for _, li := range o.Items {
				if _, ok := open[li.ItemID]; !ok {
					open[li.ItemID] = &Match{ShipmentID: sh.ID, OrderID: o.ID, ItemID: li.ItemID}
				}
				open[li.ItemID].RemainingOrderAmount += li.Amount
			}
		}
		for _, li := range sh.Items {
			m, ok := open[li.ItemID]
			if !ok || m.RemainingOrderAmount == 0 {
				result.Pending = append(result.Pending, PendingItem{
					ShipmentID: sh.ID,
					ItemID:     li.ItemID,
					Amount:     li.Amount,
					Reason:     "no matching order line",
				})
				continue
			}
			matched := li.Amount
			if m.RemainingOrderAmount < matched {
				matched = m.RemainingOrderAmount
			}
			result.Matches = append(result.Matches, Match{
				ShipmentID:           sh.ID,
				OrderID:              m.OrderID,
				ItemID:               li.ItemID,
				MatchedAmount:        matched,
				RemainingOrderAmount: m.RemainingOrderAmount - matched,
			})
			m.RemainingOrderAmount -= matched
		}
	}
	return result, nil
}

func (s *service) Receive(ctx context.Context, shipmentID int) (string, error) {
	sh, err := s.shipments.Get(ctx, strconv.Itoa(shipmentID))
	if err != nil {
		return "", err
	}
	if sh.ShipmentStatus == shipment.StatusDelivered {
		return "", ErrAlreadyDelivered
	}

	sh.ShipmentStatus = shipment.StatusTransit
	for i := range sh.Items {
		sh.Items[i].CrossDockingStatus = shipment.StatusTransit
	}
	sh.UpdatedAt = time.Now().UTC()
	if err := s.shipments.Put(ctx, strconv.Itoa(shipmentID), sh); err != nil {
		return "", err
	}

	e := audit.NewEntry(ctx, "receive", "cross-docking", strconv.Itoa(shipmentID))
	e.Details = map[string]string{"status": shipment.StatusTransit}
	if err := s.rec.Append(ctx, e); err != nil {
		return "", err
	}
	s.log.Info("shipment received", zap.Int("shipment_id", shipmentID))
	return fmt.Sprintf("shipment %d received and marked as %s", shipmentID, shipment.StatusTransit), nil
}

func (s *service) Ship(ctx context.Context, shipmentID int) (string, error) {
	sh, err := s.shipments.Get(ctx, strconv.Itoa(shipmentID))
	if err != nil {
		return "", err
	}
	if sh.ShipmentStatus == shipment.StatusDelivered {
		return "", ErrAlreadyDelivered
	}
	if sh.ShipmentStatus == shipment.StatusPending || sh.ShipmentStatus == "" {
		return "", ErrNotReceived
	}

	sh.ShipmentStatus = shipment.StatusShipped
	for i := range sh.Items {
		sh.Items[i].CrossDockingStatus = shipment.StatusShipped
	}
	sh.UpdatedAt = time.Now().UTC()
	if err := s.shipments.Put(ctx, strconv.Itoa(shipmentID), sh); err != nil {
		return "", err
	}
	if err := s.settleOrders(ctx, sh); err != nil {
		return "", err
	}

	e := audit.NewEntry(ctx, "ship", "cross-docking", strconv.Itoa(shipmentID))
	e.Details = map[string]string{"status": shipment.StatusShipped}
	if err := s.rec.Append(ctx, e); err != nil {
		return "", err
	}
	s.log.Info("shipment shipped", zap.Int("shipment_id", shipmentID))
	return fmt.Sprintf("shipment %d marked as %s", shipmentID, shipment.StatusShipped), nil
}

// settleOrders subtracts the shipped amounts from the open lines of the
// orders referencing the shipment. An order whose lines are fully
// covered becomes Fulfilled, a partly covered one Partially Fulfilled,
// and an order the shipment carries nothing for is left alone. The
// shipped pool is consumed across orders, so two orders never settle
// against the same shipped units.
func (s *service) settleOrders(ctx context.Context, sh shipment.Shipment) error {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return err
	}

	shipped := map[string]int{}
	for _, li := range sh.Items {
		shipped[li.ItemID] += li.Amount
	}

	for _, o := range orders {
		if o.ShipmentID == nil || *o.ShipmentID != sh.ID {
			continue
		}
		touched, remaining := false, false
		for i, li := range o.Items {
			take := shipped[li.ItemID]
			if take > li.Amount {
				take = li.Amount
			}
			if take > 0 {
				o.Items[i].Amount -= take
				o.Items[i].CrossDockingStatus = shipment.StatusShipped
				shipped[li.ItemID] -= take
				touched = true
			}
			if o.Items[i].Amount > 0 {
				remaining = true
			}
		}
		if !touched {
			continue
		}
		if remaining {
			o.OrderStatus = order.StatusPartiallyFulfilled
		} else {
			o.OrderStatus = order.StatusFulfilled
		}
		o.UpdatedAt = time.Now().UTC()
		if err := s.orders.Put(ctx, strconv.Itoa(o.ID), o); err != nil {
			return err
		}
		s.log.Info("order settled against shipment",
			zap.Int("order_id", o.ID),
			zap.Int("shipment_id", sh.ID),
			zap.String("order_status", o.OrderStatus))
	}
	return nil
}
