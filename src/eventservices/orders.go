package eventservices

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

// PlaceSpreadOrder submits a two-legged option order. With DryRun set on the
// executer the broker previews the order without routing it; the returned
// order ID is zero in that case.
func PlaceSpreadOrder(executer *eventmodels.TradierOrderExecuter, orderReq eventmodels.PlaceSpreadOrderRequest) (uint, error) {
	if orderReq.Quantity <= 0 {
		return 0, fmt.Errorf("PlaceSpreadOrder: quantity must be positive")
	}

	quantityStr := strconv.Itoa(orderReq.Quantity)

	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodPost, executer.Url, nil)
	if err != nil {
		return 0, fmt.Errorf("PlaceSpreadOrder: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("class", "multileg")
	q.Add("type", string(orderReq.TradeType))
	q.Add("duration", string(orderReq.TradeDuration))
	q.Add("symbol", orderReq.Underlying.String())
	q.Add("option_symbol[0]", orderReq.LongOptionSymbol.NoPrefix())
	q.Add("quantity[0]", quantityStr)
	q.Add("side[0]", orderReq.LongSide)
	q.Add("option_symbol[1]", orderReq.ShortOptionSymbol.NoPrefix())
	q.Add("quantity[1]", quantityStr)
	q.Add("side[1]", orderReq.ShortSide)

	if orderReq.TradeType == eventmodels.TradierTradeTypeCredit || orderReq.TradeType == eventmodels.TradierTradeTypeDebit {
		q.Add("price", fmt.Sprintf("%.2f", orderReq.Price))
	}

	if orderReq.Tag != "" {
		q.Add("tag", orderReq.Tag)
	}

	if executer.DryRun {
		q.Add("preview", "true")
	}

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", executer.BearerToken))

	log.Infof("PlaceSpreadOrder: placing trade: %v", req.URL.String())

	res, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("PlaceSpreadOrder: failed to place trade: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("PlaceSpreadOrder: failed to place trade, http code %v", res.Status)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return 0, fmt.Errorf("PlaceSpreadOrder: failed to decode response: %w", err)
	}

	if e, found := response["errors"]; found {
		return 0, fmt.Errorf("PlaceSpreadOrder: failed to place trade: %v", e)
	}

	log.Infof("PlaceSpreadOrder: placed trade: %v", response)

	return parseOrderID(response), nil
}

// PlaceLegOrder submits a single option order, used when unwinding a spread
// one leg at a time.
func PlaceLegOrder(executer *eventmodels.TradierOrderExecuter, orderReq eventmodels.PlaceLegOrderRequest) (uint, error) {
	if orderReq.Quantity <= 0 {
		return 0, fmt.Errorf("PlaceLegOrder: quantity must be positive")
	}

	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodPost, executer.Url, nil)
	if err != nil {
		return 0, fmt.Errorf("PlaceLegOrder: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("class", "option")
	q.Add("type", string(orderReq.TradeType))
	q.Add("duration", string(orderReq.TradeDuration))
	q.Add("symbol", orderReq.Underlying.String())
	q.Add("option_symbol", orderReq.OptionSymbol.NoPrefix())
	q.Add("quantity", strconv.Itoa(orderReq.Quantity))
	q.Add("side", orderReq.Side)

	if orderReq.TradeType != eventmodels.TradierTradeTypeMarket {
		q.Add("price", fmt.Sprintf("%.2f", orderReq.Price))
	}

	if orderReq.Tag != "" {
		q.Add("tag", orderReq.Tag)
	}

	if executer.DryRun {
		q.Add("preview", "true")
	}

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", executer.BearerToken))

	log.Infof("PlaceLegOrder: placing trade: %v", req.URL.String())

	res, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("PlaceLegOrder: failed to place trade: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("PlaceLegOrder: failed to place trade, http code %v", res.Status)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return 0, fmt.Errorf("PlaceLegOrder: failed to decode response: %w", err)
	}

	if e, found := response["errors"]; found {
		return 0, fmt.Errorf("PlaceLegOrder: failed to place trade: %v", e)
	}

	return parseOrderID(response), nil
}

func parseOrderID(response map[string]interface{}) uint {
	order, ok := response["order"].(map[string]interface{})
	if !ok {
		return 0
	}

	id, ok := order["id"].(float64)
	if !ok {
		return 0
	}

	return uint(id)
}

func CancelTradierOrder(baseUrl, bearerToken string, orderID uint) error {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	parsedUrl, err := url.Parse(baseUrl)
	if err != nil {
		return fmt.Errorf("CancelTradierOrder: failed to parse base URL: %w", err)
	}

	parsedUrl.Path, err = url.JoinPath(parsedUrl.Path, fmt.Sprintf("%d", orderID))
	if err != nil {
		return fmt.Errorf("CancelTradierOrder: failed to join path: %w", err)
	}

	req, err := http.NewRequest(http.MethodDelete, parsedUrl.String(), nil)
	if err != nil {
		return fmt.Errorf("CancelTradierOrder: failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("CancelTradierOrder: failed to cancel order: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("CancelTradierOrder: failed to cancel order, http code %v", res.Status)
	}

	return nil
}

func FetchTradierOrders(url, bearerToken string) ([]*eventmodels.TradierOrder, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierOrders: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("includeTags", "true")

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierOrders: failed to fetch orders: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FetchTradierOrders: failed to fetch orders, http code %v", res.Status)
	}

	var dto eventmodels.TradierOrdersDTO
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("FetchTradierOrders: failed to decode json: %w", err)
	}

	orderDTOs, err := dto.Parse()
	if err != nil {
		return nil, fmt.Errorf("FetchTradierOrders: failed to parse orders: %w", err)
	}

	var orders []*eventmodels.TradierOrder
	for _, orderDTO := range orderDTOs {
		order, err := orderDTO.ToTradierOrder()
		if err != nil {
			return nil, fmt.Errorf("FetchTradierOrders: failed to convert order: %w", err)
		}

		orders = append(orders, order)
	}

	return orders, nil
}

func FetchTradierOrder(baseUrl, bearerToken string, orderID uint) (*eventmodels.TradierOrder, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	parsedUrl, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierOrder: failed to parse base URL: %w", err)
	}

	parsedUrl.Path, err = url.JoinPath(parsedUrl.Path, fmt.Sprintf("%d", orderID))
	if err != nil {
		return nil, fmt.Errorf("FetchTradierOrder: failed to join path: %w", err)
	}

	req, err := http.NewRequest(http.MethodGet, parsedUrl.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierOrder: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("includeTags", "true")

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	log.Tracef("fetching from %v", req.URL.String())

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierOrder: failed to fetch order: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FetchTradierOrder: failed to fetch order, http code %v, fetching from %v", res.Status, req.URL.String())
	}

	var dto eventmodels.TradierFetchOrderResponseDTO
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("FetchTradierOrder: failed to decode json: %w", err)
	}

	order, err := dto.Order.ToTradierOrder()
	if err != nil {
		return nil, fmt.Errorf("FetchTradierOrder: failed to convert order: %w", err)
	}

	return order, nil
}
