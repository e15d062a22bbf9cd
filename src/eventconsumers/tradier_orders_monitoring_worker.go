package eventconsumers

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/eventpubsub"
	"github.com/jiaming2012/spread-trader/src/eventservices"
)

// TradierOrdersMonitoringWorker polls the broker's order book and publishes
// create, modify and delete events as the account's orders move through their
// lifecycle.
type TradierOrdersMonitoringWorker struct {
	wg           *sync.WaitGroup
	orders       eventmodels.TradierOrderDataStore
	broker       eventservices.IBroker
	pollInterval time.Duration
}

func (w *TradierOrdersMonitoringWorker) GetOrAddOrder(order *eventmodels.TradierOrder) (*eventmodels.TradierOrder, *eventmodels.TradierOrderCreateEvent) {
	if order, ok := w.orders[order.ID]; ok {
		return order, nil
	}

	w.orders.Add(order)

	return order, &eventmodels.TradierOrderCreateEvent{
		Order: order,
	}
}

// CheckForDelete returns the IDs of tracked orders that no longer appear in
// the broker's snapshot.
func (w *TradierOrdersMonitoringWorker) CheckForDelete(orders []*eventmodels.TradierOrder) []uint {
	result := []uint{}

	for orderID := range w.orders {
		found := false
		for _, order := range orders {
			if order.ID == orderID {
				found = true
				break
			}
		}

		if !found {
			result = append(result, orderID)
		}
	}

	return result
}

func (w *TradierOrdersMonitoringWorker) CheckForCreateOrUpdate(orders []*eventmodels.TradierOrder) ([]*eventmodels.TradierOrderCreateEvent, []*eventmodels.TradierOrderModifyEvent) {
	var createOrderEvents []*eventmodels.TradierOrderCreateEvent
	var modifyOrderEvents []*eventmodels.TradierOrderModifyEvent

	for _, newOrder := range orders {
		_, createOrderEvent := w.GetOrAddOrder(newOrder)
		if createOrderEvent != nil {
			createOrderEvents = append(createOrderEvents, createOrderEvent)
		} else {
			updates := w.orders.Update(newOrder)
			if len(updates) > 0 {
				modifyOrderEvents = append(modifyOrderEvents, updates...)
			}
		}
	}

	return createOrderEvents, modifyOrderEvents
}

func (w *TradierOrdersMonitoringWorker) ordersMonitoringWork() {
	orders, err := w.broker.FetchOrders()
	if err != nil {
		log.Errorf("TradierOrdersMonitoringWorker.ordersMonitoringWork: failed to fetch orders: %v", err)
		return
	}

	orderIDs := w.CheckForDelete(orders)
	for _, orderID := range orderIDs {
		w.orders.Delete(orderID)
		eventpubsub.PublishOrderDelete(&eventmodels.TradierOrderDeleteEvent{
			OrderID: orderID,
		})
	}

	createOrderEvents, modifyOrderEvents := w.CheckForCreateOrUpdate(orders)
	for _, orderEvent := range createOrderEvents {
		eventpubsub.PublishOrderCreate(orderEvent)
	}

	for _, modifyEvent := range modifyOrderEvents {
		eventpubsub.PublishOrderModify(modifyEvent)
	}
}

func (w *TradierOrdersMonitoringWorker) Start(ctx context.Context) {
	w.wg.Add(1)

	timer := time.NewTicker(w.pollInterval)

	go func() {
		defer w.wg.Done()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("stopping TradierOrdersMonitoringWorker consumer")
				return
			case <-timer.C:
				w.ordersMonitoringWork()
			}
		}
	}()
}

func NewTradierOrdersMonitoringWorker(wg *sync.WaitGroup, broker eventservices.IBroker, pollInterval time.Duration) *TradierOrdersMonitoringWorker {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}

	return &TradierOrdersMonitoringWorker{
		wg:           wg,
		orders:       eventmodels.NewTradierOrderDataStore(),
		broker:       broker,
		pollInterval: pollInterval,
	}
}
