package tuya

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// signHeaders builds the Tuya v1.0 signature headers for one request.
// The signature covers client id, access token (when present), timestamp,
// nonce and the canonical request string:
//
//	METHOD \n sha256(body) \n <signed headers, unused> \n path-with-query
//
// signed with HMAC-SHA256 over the access secret, rendered as uppercase hex.
func (c *Client) signHeaders(method, pathWithQuery string, body []byte, accessToken string) map[string]string {
	t := strconv.FormatInt(time.Now().UnixMilli(), 10)
	nonce := uuid.NewString()

	contentHash := sha256.Sum256(body)
	stringToSign := method + "\n" + hex.EncodeToString(contentHash[:]) + "\n" + "\n" + pathWithQuery

	payload := c.cfg.AccessID + accessToken + t + nonce + stringToSign

	mac := hmac.New(sha256.New, []byte(c.cfg.AccessSecret))
	mac.Write([]byte(payload))
	sign := strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))

	headers := map[string]string{
		"client_id":   c.cfg.AccessID,
		"sign":        sign,
		"t":           t,
		"nonce":       nonce,
		"sign_method": "HMAC-SHA256",
	}
	if accessToken != "" {
		headers["access_token"] = accessToken
	}
	return headers
}
