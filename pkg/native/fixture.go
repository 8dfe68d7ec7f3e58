package native

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
)

// fixture is the YAML document describing a fake storefront: the catalog
// the store sells and the purchases the current account already owns.
type fixture struct {
	Products  []fixtureProduct  `yaml:"products"`
	Purchases []fixturePurchase `yaml:"purchases"`
}

type fixtureProduct struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Type         string   `yaml:"type"`
	DisplayPrice string   `yaml:"display_price"`
	Currency     string   `yaml:"currency"`
	Price        *float64 `yaml:"price"`

	DisplayName string `yaml:"display_name"` // ios
	Name        string `yaml:"name"`         // android
	OfferToken  string `yaml:"offer_token"`  // android subscription offer
	BasePlanID  string `yaml:"base_plan_id"` // android subscription offer
}

type fixturePurchase struct {
	ID              string   `yaml:"id"`
	TransactionID   string   `yaml:"transaction_id"`
	TransactionDate float64  `yaml:"transaction_date"` // epoch ms
	ExpirationDate  *float64 `yaml:"expiration_date"`  // epoch ms, ios
	Environment     string   `yaml:"environment"`      // ios
	PurchaseToken   string   `yaml:"purchase_token"`   // android
	AutoRenewing    *bool    `yaml:"auto_renewing"`    // android
	Acknowledged    *bool    `yaml:"acknowledged"`     // android
}

// LoadFixture seeds the module's catalog and available purchases from a
// YAML fixture file, replacing whatever was previously set.
func (m *MemoryModule) LoadFixture(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("native: read fixture: %w", err)
	}
	return m.LoadFixtureBytes(data)
}

// LoadFixtureBytes is LoadFixture for an already-read document.
func (m *MemoryModule) LoadFixtureBytes(data []byte) error {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return errors.Join(ErrFixtureInvalid, err)
	}

	products := make([]iap.RawProduct, 0, len(f.Products))
	for _, fp := range f.Products {
		if fp.ID == "" {
			return fmt.Errorf("%w: product without id", ErrFixtureInvalid)
		}
		products = append(products, m.rawProduct(fp))
	}

	purchases := make([]iap.RawPurchase, 0, len(f.Purchases))
	for _, fp := range f.Purchases {
		if fp.ID == "" {
			return fmt.Errorf("%w: purchase without id", ErrFixtureInvalid)
		}
		purchases = append(purchases, m.rawPurchase(fp))
	}

	m.SetCatalog(products...)
	m.SetAvailable(purchases...)
	return nil
}

func (m *MemoryModule) rawProduct(fp fixtureProduct) iap.RawProduct {
	raw := iap.RawProduct{
		ID:           fp.ID,
		Title:        fp.Title,
		Description:  fp.Description,
		Type:         fp.Type,
		DisplayPrice: fp.DisplayPrice,
		Currency:     fp.Currency,
		Price:        fp.Price,
		Platform:     string(m.platform),
	}
	switch m.platform {
	case iap.PlatformIOS:
		raw.DisplayName = fp.DisplayName
	case iap.PlatformAndroid:
		raw.NameAndroid = fp.Name
		if fp.OfferToken != "" {
			raw.SubscriptionOfferDetailsAndroid = []iap.RawSubscriptionOfferAndroid{{
				BasePlanID: fp.BasePlanID,
				OfferToken: fp.OfferToken,
			}}
		}
	}
	return raw
}

func (m *MemoryModule) rawPurchase(fp fixturePurchase) iap.RawPurchase {
	raw := iap.RawPurchase{
		ID:              fp.ID,
		TransactionID:   fp.TransactionID,
		TransactionDate: fp.TransactionDate,
		Platform:        string(m.platform),
	}
	switch m.platform {
	case iap.PlatformIOS:
		raw.ExpirationDateIOS = fp.ExpirationDate
		raw.EnvironmentIOS = fp.Environment
	case iap.PlatformAndroid:
		raw.PurchaseTokenAndroid = fp.PurchaseToken
		raw.AutoRenewingAndroid = fp.AutoRenewing
		raw.IsAcknowledgedAndroid = fp.Acknowledged
	}
	return raw
}
