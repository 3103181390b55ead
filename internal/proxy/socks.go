// Package proxy builds the outbound http.Client every network-calling tool
// shares. All outbound calls get the same bounded timeout.
package proxy

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

const outboundTimeout = 30 * time.Second

// NewSocksClient routes outbound HTTP through a SOCKS5 proxy.
func NewSocksClient(socksAddr string) (*http.Client, error) {
	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}

	return &http.Client{
		Transport: transport,
		Timeout:   outboundTimeout,
	}, nil
}

// NewDirectClient is the no-proxy variant with the same timeout policy.
func NewDirectClient() *http.Client {
	return &http.Client{Timeout: outboundTimeout}
}
