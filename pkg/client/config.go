package client

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries the tunable storefront behaviors. Zero value works; use
// LoadConfig to populate it from the environment.
type Config struct {
	// AlsoPublishToEventListenerIOS makes the iOS available-items fetch
	// re-publish every returned purchase through the purchase-updated
	// stream, which some apps use to funnel restores through one handler.
	AlsoPublishToEventListenerIOS bool `env:"IAP_ALSO_PUBLISH_TO_EVENT_LISTENER" envDefault:"false"`

	// OnlyIncludeActiveItemsIOS limits the iOS available-items fetch to
	// currently-active entitlements.
	OnlyIncludeActiveItemsIOS bool `env:"IAP_ONLY_INCLUDE_ACTIVE_ITEMS" envDefault:"true"`
}

// ErrParsingConfig is returned when environment variables cannot be
// parsed into Config.
var ErrParsingConfig = errors.New("client: failed to parse environment config")

// DefaultConfig returns the configuration a client uses when none is
// supplied. Matches the envDefault values above; in particular the iOS
// available-items fetch is limited to active entitlements, so expired
// items cannot leak into the entitlement snapshot.
func DefaultConfig() Config {
	return Config{OnlyIncludeActiveItemsIOS: true}
}

var loadEnvOnce sync.Once

// LoadConfig reads Config from the environment, loading a .env file
// first if one exists.
func LoadConfig() (Config, error) {
	loadEnvOnce.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}
