package service

import (
	"errors"
	"testing"

	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/models"
)

func TestUpdateStatusAllowsValidTransitions(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed},
		{constants.OrderStatusPending, constants.OrderStatusCancelled},
		{constants.OrderStatusIncomplete, constants.OrderStatusPending},
		{constants.OrderStatusConfirmed, constants.OrderStatusShipped},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered},
	}
	for _, tc := range cases {
		orderRepo := newStubOrderRepo()
		orderRepo.orders = append(orderRepo.orders, &models.Order{ID: 1, OrderNumber: "ORD-1-1", Status: tc.from})
		svc := NewOrderService(orderRepo, nil)

		order, err := svc.UpdateStatus(1, tc.to)
		if err != nil {
			t.Fatalf("%s -> %s: unexpected error: %v", tc.from, tc.to, err)
		}
		if order.Status != tc.to {
			t.Fatalf("%s -> %s: status not updated, got %s", tc.from, tc.to, order.Status)
		}
		if orderRepo.statusUpdates[1] != tc.to {
			t.Fatalf("%s -> %s: repository not updated, got %v", tc.from, tc.to, orderRepo.statusUpdates)
		}
	}
}

func TestUpdateStatusRejectsInvalidTransitions(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{constants.OrderStatusPending, constants.OrderStatusDelivered},
		{constants.OrderStatusShipped, constants.OrderStatusCancelled},
		{constants.OrderStatusDelivered, constants.OrderStatusShipped},
		{constants.OrderStatusCancelled, constants.OrderStatusPending},
	}
	for _, tc := range cases {
		orderRepo := newStubOrderRepo()
		orderRepo.orders = append(orderRepo.orders, &models.Order{ID: 1, Status: tc.from})
		svc := NewOrderService(orderRepo, nil)

		if _, err := svc.UpdateStatus(1, tc.to); !errors.Is(err, ErrOrderStatusInvalid) {
			t.Fatalf("%s -> %s: expected ErrOrderStatusInvalid, got %v", tc.from, tc.to, err)
		}
		if len(orderRepo.statusUpdates) != 0 {
			t.Fatalf("%s -> %s: unexpected repository update %v", tc.from, tc.to, orderRepo.statusUpdates)
		}
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), nil)
	if _, err := svc.UpdateStatus(42, constants.OrderStatusConfirmed); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestGetForUserHidesForeignOrders(t *testing.T) {
	orderRepo := newStubOrderRepo()
	orderRepo.orders = append(orderRepo.orders, &models.Order{ID: 1, UserID: 7, Status: constants.OrderStatusPending})
	svc := NewOrderService(orderRepo, nil)

	if _, err := svc.GetForUser(8, 1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign order, got %v", err)
	}
	order, err := svc.GetForUser(7, 1)
	if err != nil || order == nil {
		t.Fatalf("expected owner to read own order, got %v %v", order, err)
	}
}
