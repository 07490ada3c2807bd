package clients

import (
	"net/http"
	"time"
)

type HTTP struct{ c *http.Client }

// NewHTTP builds the shared client. Transcription of a long recording can
// take minutes, so the timeout is generous.
func NewHTTP() *HTTP { return &HTTP{c: &http.Client{Timeout: 15 * time.Minute}} }
