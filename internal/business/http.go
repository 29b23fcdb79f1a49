package business

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/djjrip/ggloop-bots/internal/boterr"
)

const (
	HTTP_REDIRECT_MAX = 10

	// maxBodySize is the limit of the response body to read.
	maxBodySize = 4 * 1024 * 1024
)

var (
	ErrRedirectLoopDetected = errors.New("redirect loop detected")
)

func checkHTTPRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > HTTP_REDIRECT_MAX {
		return ErrRedirectLoopDetected
	}
	return nil
}

// NewHTTPClient makes a client for the watchdogs.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DisableKeepAlives:     true,
			ResponseHeaderTimeout: timeout,
		},
		CheckRedirect: checkHTTPRedirect,
	}
}

// response is a fully read HTTP response.
type response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (b *Bot) get(ctx context.Context, url, accept string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return response{}, boterr.New(boterr.ErrHTTP, err, "")
	}
	req.Header.Set("User-Agent", b.Config.Production.UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := b.client().Do(req)
	if err != nil {
		return response{}, boterr.New(boterr.ErrHTTP, nil, "%s", errorMessage(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return response{}, boterr.New(boterr.ErrHTTP, err, "failed to read response")
	}

	return response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// errorMessage makes a short message from an error of http.Client.
func errorMessage(err error) string {
	dnsErr := &net.DNSError{}
	opErr := &net.OpError{}

	switch {
	case errors.As(err, &dnsErr):
		if dnsErr.IsNotFound {
			return fmt.Sprintf("%s: host not found", dnsErr.Name)
		}
		return fmt.Sprintf("%s: failed to resolve", dnsErr.Name)
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return fmt.Sprintf("%s: connection refused", opErr.Addr)
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	default:
		return err.Error()
	}
}
