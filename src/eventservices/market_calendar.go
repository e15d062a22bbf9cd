package eventservices

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/utils"
)

var cachedPayload *eventmodels.MarketCalendar

func IsMarketOpen(calendar *eventmodels.MarketCalendar, now time.Time) (bool, error) {
	dateStr := now.Format("2006-01-02")
	timeStr := now.Format("15:04")

	for _, day := range calendar.Calendar.Days.Day {
		if day.Date == dateStr {
			if day.Status == "open" {
				start, err := time.Parse("15:04", day.Open.Start)
				if err != nil {
					return false, err
				}
				end, err := time.Parse("15:04", day.Open.End)
				if err != nil {
					return false, err
				}
				currentTime, err := time.Parse("15:04", timeStr)
				if err != nil {
					return false, err
				}

				if currentTime.After(start) && currentTime.Before(end) {
					return true, nil
				}
			}
			break
		}
	}

	return false, nil
}

// GetMarketHours returns today's session open and close for the given date,
// or nil when the market is closed that day.
func GetMarketHours(calendar *eventmodels.MarketCalendar, now time.Time) (*eventmodels.Calendar, error) {
	dateStr := now.Format("2006-01-02")

	for _, day := range calendar.Calendar.Days.Day {
		if day.Date != dateStr {
			continue
		}

		if day.Status != "open" {
			return nil, nil
		}

		open, err := time.ParseInLocation("2006-01-02 15:04", fmt.Sprintf("%s %s", day.Date, day.Open.Start), utils.NewYork())
		if err != nil {
			return nil, fmt.Errorf("GetMarketHours: failed to parse open time: %w", err)
		}

		close, err := time.ParseInLocation("2006-01-02 15:04", fmt.Sprintf("%s %s", day.Date, day.Open.End), utils.NewYork())
		if err != nil {
			return nil, fmt.Errorf("GetMarketHours: failed to parse close time: %w", err)
		}

		return &eventmodels.Calendar{
			Date:        day.Date,
			MarketOpen:  open,
			MarketClose: close,
		}, nil
	}

	return nil, nil
}

func FetchMarketCalendar(url, bearerToken string, now time.Time) (*eventmodels.MarketCalendar, error) {
	currentMonth := now.Format("2006-01")
	currentMonthInt, err := strconv.Atoi(currentMonth[5:])
	if err != nil {
		return nil, fmt.Errorf("FetchMarketCalendar: failed to parse current month: %w", err)
	}

	if cachedPayload != nil && cachedPayload.Calendar.Month == currentMonthInt {
		return cachedPayload, nil
	}

	log.Debugf("Cache invalid. Fetching market calendar for %v", currentMonth)

	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchMarketCalendar: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("month", strconv.Itoa(currentMonthInt))
	q.Add("year", now.Format("2006"))

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchMarketCalendar: failed to fetch market calendar: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FetchMarketCalendar: failed to fetch market calendar, http code %v", res.Status)
	}

	var dto eventmodels.MarketCalendar
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("FetchMarketCalendar: failed to decode json: %w", err)
	}

	cachedPayload = &dto

	return &dto, nil
}
