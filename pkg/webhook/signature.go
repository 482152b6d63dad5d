package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderTimestamp = "X-Webhook-Timestamp"
	HeaderID        = "X-Webhook-ID"
)

// sign returns hex(HMAC-SHA256(secret, timestamp + "." + payload)).
func sign(secret string, timestamp int64, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = fmt.Fprintf(h, "%d.", timestamp)
	_, _ = h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// SignPayload sets the signature and timestamp headers for payload.
func SignPayload(header http.Header, secret string, payload []byte, now time.Time) error {
	if secret == "" {
		return fmt.Errorf("%w: secret is required", ErrInvalidConfiguration)
	}
	if len(payload) == 0 {
		return fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}

	ts := now.Unix()
	header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	header.Set(HeaderSignature, sign(secret, ts, payload))
	return nil
}

// VerifySignature checks the signature headers of a received payload.
// A positive maxAge rejects signatures older than maxAge or more than a
// minute in the future.
func VerifySignature(header http.Header, secret string, payload []byte, maxAge time.Duration) error {
	if secret == "" {
		return fmt.Errorf("%w: secret is required", ErrInvalidConfiguration)
	}

	signature := header.Get(HeaderSignature)
	if signature == "" {
		return fmt.Errorf("%w: signature is missing", ErrInvalidSignature)
	}
	ts, err := strconv.ParseInt(header.Get(HeaderTimestamp), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid timestamp", ErrInvalidSignature)
	}

	if maxAge > 0 {
		age := time.Since(time.Unix(ts, 0))
		if age > maxAge {
			return fmt.Errorf("%w: signature timestamp too old: %v", ErrInvalidSignature, age)
		}
		if age < -time.Minute {
			return fmt.Errorf("%w: signature timestamp is in the future", ErrInvalidSignature)
		}
	}

	if !hmac.Equal([]byte(sign(secret, ts, payload)), []byte(signature)) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidSignature)
	}
	return nil
}
