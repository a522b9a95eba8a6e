package gonka

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ineyio/textgen/transport"
)

// signingEngine is a transport.Engine that intercepts requests, reads the
// private key from the Authorization header, signs the body and sets the
// Gonka-specific headers.
type signingEngine struct {
	base     transport.Engine
	keys     *keyCache
	transfer string
	now      func() time.Time
}

var _ transport.Engine = (*signingEngine)(nil)

func newSigningEngine(base transport.Engine, transferAddr string) *signingEngine {
	if base == nil {
		base = http.DefaultClient
	}
	return &signingEngine{
		base:     base,
		keys:     newKeyCache(),
		transfer: transferAddr,
		now:      time.Now,
	}
}

// Do implements transport.Engine.
func (e *signingEngine) Do(req *http.Request) (*http.Response, error) {
	authHeader := req.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, fmt.Errorf("gonka: missing Bearer authorization header")
	}
	hexKey := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	ki, err := e.keys.get(hexKey)
	if err != nil {
		return nil, err
	}

	var body []byte
	if req.Body != nil {
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("gonka: read request body: %w", err)
		}
	}

	tsNanos := e.now().UnixNano()
	signature := signRequest(ki.privKey, body, tsNanos, e.transfer)

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", signature)
	clone.Header.Set("X-Requester-Address", ki.address)
	clone.Header.Set("X-Timestamp", strconv.FormatInt(tsNanos, 10))

	clone.Body = io.NopCloser(bytes.NewReader(body))
	clone.ContentLength = int64(len(body))

	return e.base.Do(clone)
}
