package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/eventservices"
	"github.com/jiaming2012/spread-trader/src/strategy"
)

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func NewErrorResponse(errType string, message string) *errorResponse {
	return &errorResponse{
		Type: errType,
		Msg:  message,
	}
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("setResponse: encode: %w", err)
	}

	return nil
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := NewErrorResponse(errType, err.Error())
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		log.Errorf("setErrorResponse: encode: %v", encodeErr)
	}
}

type PositionResponse struct {
	Position  *eventmodels.SpreadPosition `json:"position"`
	MaxProfit float64                     `json:"max_profit"`
	MaxLoss   float64                     `json:"max_loss"`
	Breakeven float64                     `json:"breakeven"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ApiHandler exposes the trader's state over HTTP for dashboards and
// operational checks.
type ApiHandler struct {
	trader *strategy.Trader
	broker eventservices.IBroker
}

func (h *ApiHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	response := HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	if err := setResponse(response, w); err != nil {
		log.Errorf("handleHealth: %v", err)
	}
}

func (h *ApiHandler) handlePosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	position := h.trader.Executor().Position()
	response := PositionResponse{Position: position}
	if position != nil {
		response.MaxProfit = position.MaxProfit()
		response.MaxLoss = position.MaxLoss()
		response.Breakeven = position.Breakeven()
	}

	if err := setResponse(response, w); err != nil {
		log.Errorf("handlePosition: %v", err)
	}
}

func (h *ApiHandler) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	orders, err := h.broker.FetchOrders()
	if err != nil {
		setErrorResponse("handleOrders: failed to fetch orders", 500, err, w)
		return
	}

	if err := setResponse(orders, w); err != nil {
		log.Errorf("handleOrders: %v", err)
	}
}

func (h *ApiHandler) handleBalances(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	balances, err := h.broker.FetchBalances()
	if err != nil {
		setErrorResponse("handleBalances: failed to fetch balances", 500, err, w)
		return
	}

	if err := setResponse(balances, w); err != nil {
		log.Errorf("handleBalances: %v", err)
	}
}

func SetupHandler(router *mux.Router, trader *strategy.Trader, broker eventservices.IBroker) {
	handler := &ApiHandler{trader: trader, broker: broker}

	router.HandleFunc("/health", handler.handleHealth)
	router.HandleFunc("/position", handler.handlePosition)
	router.HandleFunc("/orders", handler.handleOrders)
	router.HandleFunc("/balances", handler.handleBalances)
}
