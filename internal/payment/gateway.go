package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	ErrUpstream          = errors.New("payment upstream failure")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
)

// receiptMaxLen is the gateway's hard cap on the receipt field.
const receiptMaxLen = 40

// Gateway talks to the payment provider. It holds no order state: the
// order service records payment results after a verified call returns.
type Gateway struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

func NewGateway(baseURL, keyID, keySecret string) *Gateway {
	return &Gateway{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type gatewayError struct {
	Error *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// Receipt derives the gateway receipt id from a reference plus a timestamp
// suffix, truncating the reference so the whole thing stays under the cap.
func Receipt(ref string, now time.Time) string {
	suffix := fmt.Sprintf("_%d", now.Unix())
	max := receiptMaxLen - len(suffix)
	if len(ref) > max {
		ref = ref[:max]
	}
	return ref + suffix
}

// CreateOrder registers a pending charge with the gateway. The amount is in
// currency units and converted to the smallest unit before submission.
func (g *Gateway) CreateOrder(ctx context.Context, amount float64, currency, receiptRef string) (*GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   int64(amount * 100),
		"currency": currency,
		"receipt":  Receipt(receiptRef, time.Now()),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		var ge gatewayError
		if err := json.Unmarshal(raw, &ge); err == nil && ge.Error != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrUpstream, ge.Error.Code, ge.Error.Description)
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Status)
	}

	var order GatewayOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("%w: bad response: %v", ErrUpstream, err)
	}
	return &order, nil
}

// VerifySignature recomputes the HMAC over "orderID|paymentID" and compares
// it to the supplied signature. Any mismatch is a hard failure.
func (g *Gateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
