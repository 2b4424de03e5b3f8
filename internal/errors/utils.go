package errors

import (
	"context"
	"errors"
	"net"
	"strings"
)

// transport failure categories, used for logging only
const (
	CategoryTimeout  = "timeout"
	CategoryCanceled = "canceled"
	CategoryDNS      = "dns"
	CategoryRefused  = "connection_refused"
	CategoryNetwork  = "network"
	CategoryUnknown  = "unknown"
)

// analyzes a transport error (no response received) and returns its category
func TransportCategory(err error) string {
	if err == nil {
		return CategoryUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	if errors.Is(err, context.Canceled) {
		return CategoryCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNS
	}

	// fallback to string matching for wrapped syscall errors
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "connection refused") {
		return CategoryRefused
	}

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline") {
		return CategoryTimeout
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dial") || strings.Contains(errMsg, "eof") {
		return CategoryNetwork
	}

	return CategoryUnknown
}
