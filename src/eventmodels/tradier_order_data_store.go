package eventmodels

import log "github.com/sirupsen/logrus"

type TradierOrderDataStore map[uint]*TradierOrder

// Update diffs the stored copy against the broker's latest snapshot and
// returns a modify event per changed field. Status and average fill price are
// the two fields spread management reacts to.
func (o TradierOrderDataStore) Update(order *TradierOrder) []*TradierOrderModifyEvent {
	var updates []*TradierOrderModifyEvent

	if existing, ok := o[order.ID]; ok {
		if existing.Status != order.Status {
			updates = append(updates, &TradierOrderModifyEvent{
				OrderID: order.ID,
				Field:   "status",
				Old:     existing.Status,
				New:     order.Status,
			})

			existing.Status = order.Status
		}

		if existing.AvgFillPrice != order.AvgFillPrice {
			updates = append(updates, &TradierOrderModifyEvent{
				OrderID: order.ID,
				Field:   "avg_fill_price",
				Old:     existing.AvgFillPrice,
				New:     order.AvgFillPrice,
			})

			existing.AvgFillPrice = order.AvgFillPrice
			existing.Leg = order.Leg
		}
	}

	return updates
}

func (o TradierOrderDataStore) Add(order *TradierOrder) {
	o[order.ID] = order
	log.Debugf("TradierOrderDataStore.Add: added order with ID: %d", order.ID)
}

func (o TradierOrderDataStore) Delete(orderID uint) {
	delete(o, orderID)
	log.Debugf("TradierOrderDataStore.Delete: removed order with ID: %d", orderID)
}

func NewTradierOrderDataStore() TradierOrderDataStore {
	return make(map[uint]*TradierOrder)
}
