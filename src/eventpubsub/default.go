package eventpubsub

import (
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

const (
	tradierOrderCreateTopic = "TradierOrderCreateEvent"
	tradierOrderModifyTopic = "TradierOrderModifyEvent"
	tradierOrderDeleteTopic = "TradierOrderDeleteEvent"
	spreadOpenedTopic       = "SpreadOpenedEvent"
	spreadClosedTopic       = "SpreadClosedEvent"
)

var bus EventBus.Bus

func Init() {
	bus = EventBus.New()
}

func publish(topic string, event interface{}) {
	bus.Publish(topic, event)
}

func subscribe(topic string, callbackFn interface{}) error {
	if err := bus.SubscribeAsync(topic, callbackFn, false); err != nil {
		return err
	}

	log.Infof("Subscribed to topic %s", topic)
	return nil
}

// Typed publish/subscribe pairs for the order lifecycle and spread events, so
// a handler with the wrong signature fails at compile time instead of being
// dropped by the bus at runtime.

func PublishOrderCreate(event *eventmodels.TradierOrderCreateEvent) {
	publish(tradierOrderCreateTopic, event)
}

func SubscribeOrderCreate(callbackFn func(*eventmodels.TradierOrderCreateEvent)) error {
	return subscribe(tradierOrderCreateTopic, callbackFn)
}

func PublishOrderModify(event *eventmodels.TradierOrderModifyEvent) {
	publish(tradierOrderModifyTopic, event)
}

func SubscribeOrderModify(callbackFn func(*eventmodels.TradierOrderModifyEvent)) error {
	return subscribe(tradierOrderModifyTopic, callbackFn)
}

func PublishOrderDelete(event *eventmodels.TradierOrderDeleteEvent) {
	publish(tradierOrderDeleteTopic, event)
}

func SubscribeOrderDelete(callbackFn func(*eventmodels.TradierOrderDeleteEvent)) error {
	return subscribe(tradierOrderDeleteTopic, callbackFn)
}

func PublishSpreadOpened(position *eventmodels.SpreadPosition) {
	publish(spreadOpenedTopic, position)
}

func SubscribeSpreadOpened(callbackFn func(*eventmodels.SpreadPosition)) error {
	return subscribe(spreadOpenedTopic, callbackFn)
}

func PublishSpreadClosed(position *eventmodels.SpreadPosition) {
	publish(spreadClosedTopic, position)
}

func SubscribeSpreadClosed(callbackFn func(*eventmodels.SpreadPosition)) error {
	return subscribe(spreadClosedTopic, callbackFn)
}
