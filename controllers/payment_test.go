package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hl-ecommerce/payment"
)

var testMerchant = payment.MerchantConfig{
	MerchantID:    "MC12345",
	Password:      "pw123",
	IntegritySalt: "secret123",
	ReturnURL:     "https://shop.example/api/payment/jazzcash/response",
	Currency:      "PKR",
	Language:      "EN",
	Version:       "1.1",
	Environment:   "sandbox",
}

func TestInitiateReturnsSignedRequest(t *testing.T) {
	pc := &PaymentController{Merchant: testMerchant}

	body, _ := json.Marshal(map[string]interface{}{
		"amount":         1500.00,
		"orderId":        "ORD1",
		"customerEmail":  "a@b.com",
		"customerMobile": "03001234567",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/payment/jazzcash/initiate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	pc.Initiate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success        bool              `json:"success"`
		PaymentRequest map[string]string `json:"paymentRequest"`
		PaymentURL     string            `json:"paymentUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "150000", resp.PaymentRequest["pp_Amount"])
	assert.Equal(t, "ORD1", resp.PaymentRequest["pp_ProductID"])
	assert.NotEmpty(t, resp.PaymentRequest["pp_SecureHash"])
	assert.Contains(t, resp.PaymentURL, "sandbox.jazzcash.com.pk")
}

func TestInitiateRejectsInvalidAmount(t *testing.T) {
	pc := &PaymentController{Merchant: testMerchant}

	body, _ := json.Marshal(map[string]interface{}{
		"amount":  0,
		"orderId": "ORD1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/payment/jazzcash/initiate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	pc.Initiate(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallbackRejectsTamperedPayload(t *testing.T) {
	pc := &PaymentController{Merchant: testMerchant}

	built, err := payment.BuildRequest(testMerchant, 1500.00, "ORD1", "a@b.com", "0300")
	require.NoError(t, err)

	fields := map[string]string{}
	for k, v := range built.Fields {
		fields[k] = v
	}
	fields["pp_ResponseCode"] = "000"
	// Keep the original hash so pp_ResponseCode is effectively tampered.

	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/payment/jazzcash/response", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	pc.Callback(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid secure hash", resp.Message)
	// The computed digest must never leak to the caller.
	rest := map[string]string{}
	for k, v := range fields {
		if k != "pp_SecureHash" {
			rest[k] = v
		}
	}
	assert.NotContains(t, rec.Body.String(), payment.SecureHash(testMerchant.IntegritySalt, rest))
}

func TestDecodeCallbackFields(t *testing.T) {
	jsonBody := `{"pp_ResponseCode":"000","pp_Amount":"150000"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	fields, err := decodeCallbackFields(req)
	require.NoError(t, err)
	assert.Equal(t, "000", fields["pp_ResponseCode"])
	assert.Equal(t, "150000", fields["pp_Amount"])

	form := url.Values{"pp_ResponseCode": {"134"}}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	fields, err = decodeCallbackFields(req)
	require.NoError(t, err)
	assert.Equal(t, "134", fields["pp_ResponseCode"])
}
