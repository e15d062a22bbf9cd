package utils

import (
	"fmt"
	"strings"
)

// ValidateTag checks that a tag is safe to send as a Tradier order tag.
// Maximum length of 255 characters; valid characters are letters, numbers and -
func ValidateTag(tag string) error {
	if len(tag) > 255 {
		return fmt.Errorf("tag is too long: %d", len(tag))
	}

	for _, c := range tag {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-') {
			return fmt.Errorf("invalid character in tag: %c (%s)", c, tag)
		}
	}

	return nil
}

// EncodeTag packs the strategy name, expected credit and requested price into a
// Tradier-safe order tag. Dashes in the strategy name are doubled, underscores
// become single dashes and decimal points become dashes.
func EncodeTag(strategy string, expectedCredit float64, requestedPrc float64) string {
	strategy_part := strings.Replace(strategy, "-", "--", -1)
	strategy_part = strings.Replace(strategy_part, "_", "-", -1)
	expectedCredit_part := strings.Replace(fmt.Sprintf("%.2f", expectedCredit), ".", "-", -1)
	requestedPrc_part := strings.Replace(fmt.Sprintf("%.2f", requestedPrc), ".", "-", -1)

	return fmt.Sprintf("%s---%s---%s", strategy_part, expectedCredit_part, requestedPrc_part)
}

// bull-put-spread, 0.35, 0.33 -> "bull--put--spread---0-35---0-33"
func DecodeTag(tag string) (string, float64, float64, error) {
	parts := strings.Split(tag, "---")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("invalid tag: expected 3 parts: %s", tag)
	}

	strategy_part := strings.Replace(parts[0], "--", ".", -1)
	strategy_part = strings.Replace(strategy_part, "-", "_", -1)
	strategy_part = strings.Replace(strategy_part, ".", "-", -1)
	expectedCredit_part := strings.Replace(parts[1], "-", ".", -1)
	requestedPrc_part := strings.Replace(parts[2], "-", ".", -1)

	expectedCredit := 0.0
	requestedPrc := 0.0

	if _, err := fmt.Sscanf(expectedCredit_part, "%f", &expectedCredit); err != nil {
		return "", 0, 0, fmt.Errorf("failed to parse expectedCredit: %w", err)
	}

	if _, err := fmt.Sscanf(requestedPrc_part, "%f", &requestedPrc); err != nil {
		return "", 0, 0, fmt.Errorf("failed to parse requestedPrc: %w", err)
	}

	return strategy_part, expectedCredit, requestedPrc, nil
}
