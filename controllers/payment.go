package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hl-ecommerce/models"
	"hl-ecommerce/payment"
	"hl-ecommerce/utils"
)

// PaymentController handles the JazzCash initiation and callback endpoints
type PaymentController struct {
	Orders   *mongo.Collection
	Merchant payment.MerchantConfig
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(client *mongo.Client, merchant payment.MerchantConfig) *PaymentController {
	return &PaymentController{
		Orders:   client.Database("ecommerce").Collection("orders"),
		Merchant: merchant,
	}
}

// Initiate builds a signed payment request for the client to submit to the
// gateway. Order state is not touched here; only a verified callback does
// that.
func (pc *PaymentController) Initiate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount         float64 `json:"amount"`
		OrderID        string  `json:"orderId"`
		CustomerEmail  string  `json:"customerEmail"`
		CustomerMobile string  `json:"customerMobile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req, err := payment.BuildRequest(pc.Merchant, input.Amount, input.OrderID, input.CustomerEmail, input.CustomerMobile)
	if err != nil {
		http.Error(w, "Payment initiation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":        true,
		"paymentRequest": req.Fields,
		"paymentUrl":     req.GatewayURL,
	})
}

// Callback handles the gateway's server-to-server response. The secure hash
// is verified before any field is trusted; a verified outcome then drives a
// compare-and-swap status transition so duplicate deliveries stay no-ops.
func (pc *PaymentController) Callback(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeCallbackFields(r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	logger := utils.NewLogger("payment")

	outcome, err := payment.VerifyCallback(pc.Merchant, fields)
	if err != nil {
		if errors.Is(err, payment.ErrSecureHashMismatch) {
			// The claimed order id is logged for audit only; it is
			// unverified and never used for a lookup here.
			logger.Warn("callback secure hash mismatch",
				"claimed_order_id", fields["pp_ProductID"])
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Invalid secure hash",
			})
			return
		}
		http.Error(w, "Payment response handling error", http.StatusInternalServerError)
		return
	}

	applied, err := pc.applyOutcome(r.Context(), outcome)
	if err != nil {
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}
	if !applied {
		// Already finalized: acknowledge success so the gateway stops
		// retrying, leave the stored status untouched.
		logger.Info("callback for already finalized order",
			"order_id", outcome.OrderID, "response_code", outcome.ResponseCode)
	}

	w.Header().Set("Content-Type", "application/json")
	if outcome.Success {
		logger.Info("payment successful", "order_id", outcome.OrderID, "txn_ref", outcome.TxnRef)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Payment successful",
			"data":    outcome.Fields,
		})
		return
	}

	logger.Info("payment failed", "order_id", outcome.OrderID, "response_code", outcome.ResponseCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Payment failed",
		"data":    outcome.Fields,
	})
}

// applyOutcome transitions the order named by a verified outcome. The update
// is filtered on status "pending" so concurrent or repeated callbacks apply
// at most once. Returns false when the order was already finalized (or does
// not exist).
func (pc *PaymentController) applyOutcome(ctx context.Context, outcome payment.Outcome) (bool, error) {
	orderID, err := primitive.ObjectIDFromHex(outcome.OrderID)
	if err != nil {
		// Verified but unknown order reference; nothing to transition.
		return false, nil
	}

	next, _ := models.NextPaymentStatus(models.StatusPending, outcome.Success)
	set := bson.M{"status": next}
	if outcome.Success {
		set["txn_ref"] = outcome.TxnRef
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	result, err := pc.Orders.UpdateOne(ctx,
		bson.M{"_id": orderID, "status": models.StatusPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// decodeCallbackFields accepts the gateway payload as either a JSON object
// or a classic form post, normalized to a flat string map.
func decodeCallbackFields(r *http.Request) (map[string]string, error) {
	fields := map[string]string{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var raw map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			if s, ok := v.(string); ok {
				fields[k] = s
			}
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}
	return fields, nil
}
