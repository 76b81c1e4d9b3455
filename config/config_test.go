package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hl-ecommerce/payment"
)

func validConfig() Config {
	return Config{
		Port:          "8000",
		MongoURI:      "mongodb://localhost:27017",
		JWTSecret:     "s3cret",
		AppBaseURL:    "https://shop.example",
		PostmarkToken: "pm-token",
		JazzCash: payment.MerchantConfig{
			MerchantID:    "MC1",
			Password:      "pw",
			IntegritySalt: "salt",
			ReturnURL:     "https://shop.example/api/payment/jazzcash/response",
		},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	c := validConfig()
	c.MongoURI = ""
	assert.Error(t, c.Validate())

	c = validConfig()
	c.JWTSecret = ""
	assert.Error(t, c.Validate())

	c = validConfig()
	c.JazzCash.IntegritySalt = ""
	assert.Error(t, c.Validate())
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://localhost:5000"}, splitOrigins(""))
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		splitOrigins("https://a.example, https://b.example"))
}
