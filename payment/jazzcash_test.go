package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = MerchantConfig{
	MerchantID:    "MC12345",
	Password:      "pw123",
	IntegritySalt: "secret123",
	ReturnURL:     "https://shop.example/api/payment/jazzcash/response",
	Currency:      "PKR",
	Language:      "EN",
	Version:       "1.1",
	Environment:   "sandbox",
}

func TestSecureHashKnownVector(t *testing.T) {
	// sha256("secret123&150000&000&T1"), uppercased
	fields := map[string]string{
		"pp_Amount":       "150000",
		"pp_ResponseCode": "000",
		"pp_TxnRefNo":     "T1",
	}
	want := "C592DB82A154899E7C3D67DDFD2479C498CF7CBDABC02B70C76C27BEBC731DD8"
	assert.Equal(t, want, SecureHash("secret123", fields))
}

func TestSecureHashDeterministicAcrossInsertionOrder(t *testing.T) {
	a := map[string]string{}
	a["pp_TxnRefNo"] = "T99"
	a["pp_Amount"] = "500"
	a["pp_ResponseCode"] = "000"

	b := map[string]string{}
	b["pp_Amount"] = "500"
	b["pp_ResponseCode"] = "000"
	b["pp_TxnRefNo"] = "T99"

	assert.Equal(t, SecureHash("s", a), SecureHash("s", b))
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1500.00, "150000"},
		{0.01, "1"},
		{99.99, "9999"},
		{10.005, "1001"},
		{1, "100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MinorUnits(tt.amount))
	}
}

func TestBuildRequest(t *testing.T) {
	req, err := BuildRequest(testConfig, 1500.00, "ORD1", "a@b.com", "03001234567")
	require.NoError(t, err)

	assert.Equal(t, "150000", req.Fields["pp_Amount"])
	assert.Equal(t, "ORD1", req.Fields["pp_ProductID"])
	assert.Equal(t, "MWALLET", req.Fields["pp_TxnType"])
	assert.Equal(t, "MC12345", req.Fields["pp_MerchantID"])
	assert.Regexp(t, `^T\d{13}$`, req.Fields["pp_TxnRefNo"])
	assert.Regexp(t, `^\d{14}$`, req.Fields["pp_TxnDateTime"])
	assert.Regexp(t, `^\d{14}$`, req.Fields["pp_TxnExpiryDateTime"])
	assert.NotEmpty(t, req.Fields["pp_SecureHash"])
	assert.Equal(t, "https://sandbox.jazzcash.com.pk/CustomerPortal/transactionmanagement/merchantform", req.GatewayURL)

	// The hash is computed over every field except itself.
	rest := map[string]string{}
	for k, v := range req.Fields {
		if k != "pp_SecureHash" {
			rest[k] = v
		}
	}
	assert.Equal(t, SecureHash(testConfig.IntegritySalt, rest), req.Fields["pp_SecureHash"])
}

func TestBuildRequestRejectsBadInput(t *testing.T) {
	_, err := BuildRequest(testConfig, 0, "ORD1", "a@b.com", "0300")
	assert.Error(t, err)

	_, err = BuildRequest(testConfig, -5, "ORD1", "a@b.com", "0300")
	assert.Error(t, err)

	_, err = BuildRequest(testConfig, 10, "", "a@b.com", "0300")
	assert.Error(t, err)

	bad := testConfig
	bad.IntegritySalt = ""
	_, err = BuildRequest(bad, 10, "ORD1", "a@b.com", "0300")
	assert.Error(t, err)
}

// echoCallback simulates the gateway echoing the request fields back with a
// response code, re-signing the payload the way the gateway does.
func echoCallback(t *testing.T, req Request, code string) map[string]string {
	t.Helper()
	cb := map[string]string{}
	for k, v := range req.Fields {
		if k != "pp_SecureHash" {
			cb[k] = v
		}
	}
	cb["pp_ResponseCode"] = code
	cb["pp_SecureHash"] = SecureHash(testConfig.IntegritySalt, cb)
	return cb
}

func TestVerifyCallbackRoundTrip(t *testing.T) {
	req, err := BuildRequest(testConfig, 1500.00, "ORD1", "a@b.com", "0300")
	require.NoError(t, err)

	outcome, err := VerifyCallback(testConfig, echoCallback(t, req, "000"))
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "ORD1", outcome.OrderID)
	assert.Equal(t, req.Fields["pp_TxnRefNo"], outcome.TxnRef)
	assert.Equal(t, "000", outcome.ResponseCode)
}

func TestVerifyCallbackDecline(t *testing.T) {
	req, err := BuildRequest(testConfig, 1500.00, "ORD1", "a@b.com", "0300")
	require.NoError(t, err)

	// Valid signature but a generic decline code.
	outcome, err := VerifyCallback(testConfig, echoCallback(t, req, "134"))
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "134", outcome.ResponseCode)
}

func TestVerifyCallbackRejectsTampering(t *testing.T) {
	req, err := BuildRequest(testConfig, 1500.00, "ORD1", "a@b.com", "0300")
	require.NoError(t, err)
	cb := echoCallback(t, req, "000")

	// Mutating any single non-hash field must break verification.
	for key := range cb {
		if key == "pp_SecureHash" {
			continue
		}
		tampered := map[string]string{}
		for k, v := range cb {
			tampered[k] = v
		}
		tampered[key] = tampered[key] + "x"

		_, err := VerifyCallback(testConfig, tampered)
		assert.ErrorIs(t, err, ErrSecureHashMismatch, "field %s", key)
	}
}

func TestVerifyCallbackRejectsMissingOrWrongHash(t *testing.T) {
	req, err := BuildRequest(testConfig, 10, "ORD2", "a@b.com", "0300")
	require.NoError(t, err)
	cb := echoCallback(t, req, "000")

	wrong := map[string]string{}
	for k, v := range cb {
		wrong[k] = v
	}
	wrong["pp_SecureHash"] = "DEADBEEF"
	_, err = VerifyCallback(testConfig, wrong)
	assert.ErrorIs(t, err, ErrSecureHashMismatch)

	delete(wrong, "pp_SecureHash")
	_, err = VerifyCallback(testConfig, wrong)
	assert.ErrorIs(t, err, ErrSecureHashMismatch)
}

func TestVerifyCallbackIdempotent(t *testing.T) {
	req, err := BuildRequest(testConfig, 10, "ORD3", "a@b.com", "0300")
	require.NoError(t, err)
	cb := echoCallback(t, req, "000")

	first, err := VerifyCallback(testConfig, cb)
	require.NoError(t, err)
	second, err := VerifyCallback(testConfig, cb)
	require.NoError(t, err)
	assert.Equal(t, first.Success, second.Success)
	assert.Equal(t, first.OrderID, second.OrderID)
}

func TestGatewayURLByEnvironment(t *testing.T) {
	live := testConfig
	live.Environment = "live"
	assert.Equal(t, "https://jazzcash.com.pk/CustomerPortal/transactionmanagement/merchantform", live.GatewayURL())
}
