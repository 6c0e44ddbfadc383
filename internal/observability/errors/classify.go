package errors

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net"

	apperrors "github.com/gamestore/gamestore-web/internal/errors"
)

// Label values returned by Classify. The set is closed so metric cardinality stays bounded.
const (
	ClassCanceled = "canceled"
	ClassDNS      = "dns"
	ClassNetwork  = "network"
	ClassTimeout  = "timeout"
	ClassDecode   = "malformed"
	ClassOther    = "other"
)

// Classify maps an error from a backend call onto a short label for metrics and logs.
// Application errors report their code.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if goerrors.Is(err, context.Canceled) {
		return ClassCanceled
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	if goerrors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}

	var dnsErr *net.DNSError
	if goerrors.As(err, &dnsErr) {
		return ClassDNS
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) {
		if netErr.Timeout() {
			return ClassTimeout
		}
		return ClassNetwork
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if goerrors.As(err, &syntaxErr) || goerrors.As(err, &typeErr) {
		return ClassDecode
	}
	return ClassOther
}
