// Package version exposes the build metadata of the module: a numeric version
// identifier and a human-readable version label.
//
// Both values are injected at link time:
//
//	go build -ldflags "-X github.com/Commencement-Technology/mobile-ios-wireguard/version.version=1.2.0 \
//	  -X github.com/Commencement-Technology/mobile-ios-wireguard/version.versionNumber=1.2"
//
// They are resolved once during package initialization and never change afterwards.
package version

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

const (
	defaultVersion       = "1.0"
	defaultVersionNumber = "1.0"
	productName          = "PIAWireguard"
)

// set at link time
var (
	version       = defaultVersion
	versionNumber = defaultVersionNumber
)

// info is the resolved build metadata
type info struct {
	number float64
	label  string
}

var current = newInfo(version, versionNumber)

func newInfo(label, number string) info {
	label = strings.TrimSpace(label)
	if label == "" {
		label = defaultVersion
	}

	return info{
		number: parseNumber(number, label),
		label:  label,
	}
}

// parseNumber reads the explicit number first and falls back to major.minor of the label
func parseNumber(number, label string) float64 {
	if n, err := strconv.ParseFloat(strings.TrimSpace(number), 64); err == nil {
		return n
	}

	v, err := goversion.NewVersion(label)
	if err != nil {
		return 0
	}

	segments := v.Segments()
	minor := 0
	if len(segments) > 1 {
		minor = segments[1]
	}

	n, err := strconv.ParseFloat(fmt.Sprintf("%d.%d", segments[0], minor), 64)
	if err != nil {
		return 0
	}
	return n
}

// Number returns the numeric version of the module build
func (i info) Number() float64 {
	return i.number
}

// String returns the version label
func (i info) String() string {
	return i.label
}

// Bytes returns a copy of the version label
func (i info) Bytes() []byte {
	return []byte(i.label)
}

// Number returns the numeric version of the module build
func Number() float64 {
	return current.Number()
}

// String returns the version label of the module build
func String() string {
	return current.String()
}

// Bytes returns the version label as a byte sequence. Every call returns a fresh
// slice, so callers may modify it freely.
func Bytes() []byte {
	return current.Bytes()
}

// UserAgent returns the HTTP user agent used by the API client
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s; %s; %s)", productName, current.label, runtime.GOOS, runtime.Version(), runtime.GOARCH)
}
