package cjdropshipping

import (
	"errors"
	"time"
)

const (
	// ProductionAPIURL is the base of the CJ Dropshipping open API.
	ProductionAPIURL = "https://developers.cjdropshipping.com/api2.0/v1"

	DefaultShippingMethod = "CJPacket Ordinary"
)

var (
	ErrConfigMissingBaseURL     = errors.New("cjdropshipping: base url is required")
	ErrConfigMissingAccessToken = errors.New("cjdropshipping: access token is required")
)

// Config holds the CJ Dropshipping API settings.
type Config struct {
	BaseURL        string
	AccessToken    string
	ShippingMethod string
	Timeout        time.Duration
	// RateLimit is the sustained number of requests per second; zero disables throttling.
	RateLimit float64
	RateBurst int
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.AccessToken == "" {
		return ErrConfigMissingAccessToken
	}
	if c.ShippingMethod == "" {
		c.ShippingMethod = DefaultShippingMethod
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 1
	}
	return nil
}
