package model

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

var ErrInvalidEndpoint = errors.New("invalid endpoint")

// Endpoint is the remote address of a peer
type Endpoint struct {
	Host string
	Port uint16
}

// ParseEndpoint parses host:port and [v6]:port forms
func ParseEndpoint(s string) (*Endpoint, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidEndpoint, s, err)
	}
	if host == "" {
		return nil, fmt.Errorf("%w %q: empty host", ErrInvalidEndpoint, s)
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return nil, fmt.Errorf("%w %q: bad port %q", ErrInvalidEndpoint, s, portStr)
	}

	return &Endpoint{Host: host, Port: uint16(port)}, nil
}

// Addr returns the host as an IP address when it is one
func (e Endpoint) Addr() (netip.Addr, bool) {
	addr, err := netip.ParseAddr(e.Host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr, true
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}
