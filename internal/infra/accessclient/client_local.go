//go:build !gcloud

package accessclient

import (
	"net/http"
	"time"
)

func newHTTPClient(_ string) *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}
