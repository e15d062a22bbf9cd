package eventmodels

import (
	"fmt"
	"time"
)

type OptionExpirationsDTO struct {
	Expirations struct {
		Date []string `json:"date"`
	} `json:"expirations"`
}

func (dto *OptionExpirationsDTO) ToExpirations(loc *time.Location) ([]time.Time, error) {
	var out []time.Time
	for _, d := range dto.Expirations.Date {
		expiration, err := time.ParseInLocation("2006-01-02", d, loc)
		if err != nil {
			return nil, fmt.Errorf("OptionExpirationsDTO.ToExpirations: failed to parse date %s: %w", d, err)
		}

		out = append(out, expiration)
	}

	return out, nil
}
