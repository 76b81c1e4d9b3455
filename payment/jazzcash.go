// Package payment implements the JazzCash request signing and callback
// verification handshake.
package payment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// SuccessResponseCode is the gateway code for a completed payment.
	SuccessResponseCode = "000"

	sandboxURL = "https://sandbox.jazzcash.com.pk/CustomerPortal/transactionmanagement/merchantform"
	liveURL    = "https://jazzcash.com.pk/CustomerPortal/transactionmanagement/merchantform"

	// Gateway timestamps are to-the-second, no separators.
	timestampLayout = "20060102150405"

	expiryWindow = 60 * time.Minute
)

// ErrSecureHashMismatch is returned when a callback's pp_SecureHash does not
// match the recomputed digest. No field of such a callback may be trusted.
var ErrSecureHashMismatch = errors.New("secure hash mismatch")

// MerchantConfig holds the JazzCash merchant credentials. It is passed
// explicitly into both signing and verification.
type MerchantConfig struct {
	MerchantID    string
	Password      string
	IntegritySalt string
	ReturnURL     string
	Currency      string
	Language      string
	Version       string
	Environment   string // "sandbox" or "live"
}

// Validate reports the first missing required field. Signing with empty
// credentials produces hashes the gateway silently rejects, so startup must
// fail instead.
func (c MerchantConfig) Validate() error {
	switch {
	case c.MerchantID == "":
		return errors.New("merchant id required")
	case c.Password == "":
		return errors.New("merchant password required")
	case c.IntegritySalt == "":
		return errors.New("integrity salt required")
	case c.ReturnURL == "":
		return errors.New("return url required")
	}
	return nil
}

// GatewayURL returns the endpoint the customer is redirected to.
func (c MerchantConfig) GatewayURL() string {
	if c.Environment == "sandbox" {
		return sandboxURL
	}
	return liveURL
}

// Request is a fully signed payment request ready to be submitted to the
// gateway.
type Request struct {
	Fields     map[string]string `json:"paymentRequest"`
	GatewayURL string            `json:"paymentUrl"`
}

// Outcome is the result of a callback whose signature verified.
type Outcome struct {
	OrderID      string
	TxnRef       string
	ResponseCode string
	Success      bool
	Fields       map[string]string
}

// MinorUnits converts a decimal currency amount to the gateway's minor-unit
// string (1500.00 -> "150000"). Rounds half away from zero.
func MinorUnits(amount float64) string {
	return strconv.FormatInt(int64(math.Round(amount*100)), 10)
}

// SecureHash computes the integrity digest over fields: field names are
// sorted lexicographically, values joined with "&", the salt prepended, and
// the SHA-256 digest uppercased. The pp_SecureHash field itself must not be
// present in fields.
func SecureHash(salt string, fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, fields[k])
	}

	sum := sha256.Sum256([]byte(salt + "&" + strings.Join(values, "&")))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// BuildRequest assembles and signs a payment request for the given order.
// It has no side effects beyond generating a fresh transaction reference;
// order state is not touched until the gateway confirms.
func BuildRequest(cfg MerchantConfig, amount float64, orderID, customerEmail, customerMobile string) (Request, error) {
	if err := cfg.Validate(); err != nil {
		return Request{}, err
	}
	if amount <= 0 {
		return Request{}, fmt.Errorf("invalid amount %v: must be greater than zero", amount)
	}
	if orderID == "" {
		return Request{}, errors.New("order id required")
	}

	now := time.Now().UTC()
	fields := map[string]string{
		"pp_Version":           cfg.Version,
		"pp_TxnType":           "MWALLET",
		"pp_Language":          cfg.Language,
		"pp_MerchantID":        cfg.MerchantID,
		"pp_Password":          cfg.Password,
		"pp_TxnRefNo":          "T" + strconv.FormatInt(now.UnixMilli(), 10),
		"pp_Amount":            MinorUnits(amount),
		"pp_TxnCurrency":       cfg.Currency,
		"pp_ProductID":         orderID,
		"pp_ReturnURL":         cfg.ReturnURL,
		"pp_TxnDateTime":       now.Format(timestampLayout),
		"pp_TxnExpiryDateTime": now.Add(expiryWindow).Format(timestampLayout),
		"pp_BillReference":     "billRef",
		"pp_Description":       "Product Purchase",
		"pp_CustomerEmail":     customerEmail,
		"pp_CustomerMobile":    customerMobile,
	}
	fields["pp_SecureHash"] = SecureHash(cfg.IntegritySalt, fields)

	return Request{Fields: fields, GatewayURL: cfg.GatewayURL()}, nil
}

// VerifyCallback authenticates a gateway callback. The claimed pp_SecureHash
// is separated out, the digest recomputed over the remaining fields with the
// same canonicalization as signing, and compared in constant time. Only after
// the hash verifies is the response code inspected. Pure: safe to retry on
// the same payload.
func VerifyCallback(cfg MerchantConfig, fields map[string]string) (Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return Outcome{}, err
	}

	claimed, ok := fields["pp_SecureHash"]
	if !ok || claimed == "" {
		return Outcome{}, ErrSecureHashMismatch
	}

	rest := make(map[string]string, len(fields)-1)
	for k, v := range fields {
		if k == "pp_SecureHash" {
			continue
		}
		rest[k] = v
	}

	computed := SecureHash(cfg.IntegritySalt, rest)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(claimed)) != 1 {
		return Outcome{}, ErrSecureHashMismatch
	}

	code := fields["pp_ResponseCode"]
	return Outcome{
		OrderID:      fields["pp_ProductID"],
		TxnRef:       fields["pp_TxnRefNo"],
		ResponseCode: code,
		Success:      code == SuccessResponseCode,
		Fields:       fields,
	}, nil
}
