package eventservices

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/utils"
)

func FetchOptionExpirations(url, bearerToken string, symbol eventmodels.StockSymbol) ([]time.Time, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchOptionExpirations: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("symbol", symbol.String())
	q.Add("includeAllRoots", "true")
	q.Add("strikes", "false")

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchOptionExpirations: failed to fetch expirations: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FetchOptionExpirations: failed to fetch expirations, http code %v", res.Status)
	}

	var dto eventmodels.OptionExpirationsDTO
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("FetchOptionExpirations: failed to decode json: %w", err)
	}

	expirations, err := dto.ToExpirations(utils.NewYork())
	if err != nil {
		return nil, fmt.Errorf("FetchOptionExpirations: %w", err)
	}

	return expirations, nil
}

// FetchOptionChain loads the full chain for one expiration. Greeks come from
// the broker's ORATS feed when withGreeks is set.
func FetchOptionChain(url, bearerToken string, symbol eventmodels.StockSymbol, expiration time.Time, withGreeks bool) (*eventmodels.OptionChain, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchOptionChain: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("symbol", symbol.String())
	q.Add("expiration", expiration.Format("2006-01-02"))
	if withGreeks {
		q.Add("greeks", "true")
	}

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchOptionChain: failed to fetch option chain: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FetchOptionChain: failed to fetch option chain, http code %v", res.Status)
	}

	bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("FetchOptionChain: failed to read response body: %w", err)
	}

	quotes, err := utils.ParseTradierResponse[eventmodels.OptionQuoteDTO](bytes)
	if err != nil {
		return nil, fmt.Errorf("FetchOptionChain: failed to parse response: %w", err)
	}

	var contracts []*eventmodels.OptionContract
	for _, quote := range quotes {
		contract, err := quote.ToOptionContract()
		if err != nil {
			log.Warnf("FetchOptionChain: skipping contract %s: %v", quote.Symbol, err)
			continue
		}

		contracts = append(contracts, contract)
	}

	return &eventmodels.OptionChain{
		Underlying: symbol,
		Contracts:  contracts,
	}, nil
}
