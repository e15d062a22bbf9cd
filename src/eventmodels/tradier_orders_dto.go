package eventmodels

import (
	"encoding/json"
	"errors"
	"fmt"
)

type TradierOrdersDTO struct {
	Orders json.RawMessage `json:"orders"`
}

type TradierOrdersPayloadDTO struct {
	Order json.RawMessage `json:"order"`
}

// Parse unwraps the orders envelope. Tradier collapses an empty book to the
// string "null" and a single order to a bare object instead of an array.
func (dto *TradierOrdersDTO) Parse() ([]*TradierOrderDTO, error) {
	var msg string
	if err := json.Unmarshal(dto.Orders, &msg); err == nil {
		if msg == "null" {
			return []*TradierOrderDTO{}, nil
		}

		return nil, fmt.Errorf("TradierOrdersDTO:Parse(): failed to unmarshal orders: unknown message: %s", msg)
	} else {
		var unmarshalTypeError *json.UnmarshalTypeError
		if !errors.As(err, &unmarshalTypeError) {
			return nil, fmt.Errorf("TradierOrdersDTO:Parse(): failed to unmarshal orders: %w", err)
		}
	}

	var payload TradierOrdersPayloadDTO
	if err := json.Unmarshal(dto.Orders, &payload); err != nil {
		return nil, fmt.Errorf("TradierOrdersDTO:Parse(): failed to unmarshal orders: %w", err)
	}

	// try to unmarshal as a single order
	var order TradierOrderDTO
	err := json.Unmarshal(payload.Order, &order)
	if err == nil {
		return []*TradierOrderDTO{&order}, nil
	} else {
		var unmarshalTypeError *json.UnmarshalTypeError
		if !errors.As(err, &unmarshalTypeError) {
			return nil, fmt.Errorf("TradierOrdersDTO:Parse(): failed to unmarshal single order: %w", err)
		}
	}

	var orders []*TradierOrderDTO
	if err := json.Unmarshal(payload.Order, &orders); err != nil {
		return nil, fmt.Errorf("TradierOrdersDTO:Parse(): failed to unmarshal orders: %w", err)
	}

	return orders, nil
}
