package lock

import (
	"fmt"
	"time"
)

// keyExpiresFormats are the accepted layouts for the api_key_expires setting.
var keyExpiresFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-2006",
	"01-02-2006 15:04:05",
}

// KeyWarning is a pending API key renewal reminder.
type KeyWarning struct {
	// Key identifies the threshold ("expired", "1day", "1week", "1month")
	// and is recorded in the state store so each fires exactly once.
	Key string
	// Message is the operator-facing notification text.
	Message string
}

// CheckKeyExpiry compares the configured API key expiry date against now and
// returns the most urgent warning whose threshold has been crossed and not
// yet sent. Returns nil when nothing is due. An empty expires string
// disables the check.
func CheckKeyExpiry(expires string, now time.Time, loc *time.Location, sent map[string]bool) (*KeyWarning, error) {
	if expires == "" {
		return nil, nil
	}

	var expiresAt time.Time
	var err error
	for _, layout := range keyExpiresFormats {
		expiresAt, err = time.ParseInLocation(layout, expires, loc)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("unparseable api_key_expires value %q", expires)
	}

	days := int(expiresAt.Sub(now).Hours() / 24)

	switch {
	case days < 0:
		if !sent["expired"] {
			return &KeyWarning{
				Key: "expired",
				Message: fmt.Sprintf("URGENT: Wyze API key has EXPIRED (%s). Lock codes will not sync until renewed at https://developer-api.wyze.com/",
					expiresAt.Format("2006-01-02")),
			}, nil
		}
	case days <= 1:
		if !sent["1day"] {
			return &KeyWarning{
				Key: "1day",
				Message: fmt.Sprintf("WARNING: Wyze API key expires in %d day(s) (%s). Renew at https://developer-api.wyze.com/",
					days, expiresAt.Format("2006-01-02 15:04")),
			}, nil
		}
	case days <= 7:
		if !sent["1week"] {
			return &KeyWarning{
				Key: "1week",
				Message: fmt.Sprintf("Reminder: Wyze API key expires in %d days (%s). Renew at https://developer-api.wyze.com/",
					days, expiresAt.Format("2006-01-02")),
			}, nil
		}
	case days <= 30:
		if !sent["1month"] {
			return &KeyWarning{
				Key: "1month",
				Message: fmt.Sprintf("Wyze API key expires in %d days (%s). Renew at https://developer-api.wyze.com/",
					days, expiresAt.Format("2006-01-02")),
			}, nil
		}
	}

	return nil, nil
}
