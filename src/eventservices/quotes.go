package eventservices

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/utils"
)

func FetchTradierQuotes(url, bearerToken string, symbols []string) ([]eventmodels.OptionQuoteDTO, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("FetchTradierQuotes: no symbols given")
	}

	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierQuotes: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("symbols", strings.Join(symbols, ","))
	q.Add("greeks", "false")

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierQuotes: failed to fetch quotes: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FetchTradierQuotes: failed to fetch quotes, http code %v", res.Status)
	}

	bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierQuotes: failed to read response body: %w", err)
	}

	quotes, err := utils.ParseTradierResponse[eventmodels.OptionQuoteDTO](bytes)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierQuotes: failed to parse response: %w", err)
	}

	return quotes, nil
}

// FetchStockPrice returns the mid price of the underlying, falling back to the
// last traded price when the book is one-sided.
func FetchStockPrice(url, bearerToken string, symbol eventmodels.StockSymbol) (float64, error) {
	quotes, err := FetchTradierQuotes(url, bearerToken, []string{symbol.String()})
	if err != nil {
		return 0, fmt.Errorf("FetchStockPrice: %w", err)
	}

	if len(quotes) == 0 {
		return 0, fmt.Errorf("FetchStockPrice: no quote returned for %s", symbol)
	}

	quote := quotes[0]
	if quote.Bid > 0 && quote.Ask > 0 {
		return (quote.Bid + quote.Ask) / 2.0, nil
	}

	if quote.Last > 0 {
		return quote.Last, nil
	}

	return 0, fmt.Errorf("FetchStockPrice: no usable price for %s", symbol)
}
