// Package geo classifies requester addresses into coarse locations.
// The default resolver is deterministic and explicitly not real
// geolocation; deployments wanting accuracy plug in their own Resolver.
package geo

import (
	"hash/fnv"
	"net"

	"github.com/jack/golang-url-alias-service/internal/model"
)

// Unknown is returned for empty, loopback or unparseable addresses.
var Unknown = model.Location{Country: "Unknown", City: "Unknown"}

// Resolver maps a client network address to a coarse location.
type Resolver interface {
	Resolve(address string) model.Location
}

// StaticResolver deterministically maps an address onto a fixed table of
// locations via a stable hash. The same address always yields the same
// pair within a process lifetime, which keeps click analytics testable.
type StaticResolver struct {
	locations []model.Location
}

// NewStaticResolver creates the default resolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		locations: []model.Location{
			{Country: "United States", City: "New York"},
			{Country: "United Kingdom", City: "London"},
			{Country: "Germany", City: "Berlin"},
			{Country: "Japan", City: "Tokyo"},
			{Country: "Australia", City: "Sydney"},
			{Country: "Brazil", City: "Sao Paulo"},
			{Country: "India", City: "Mumbai"},
			{Country: "Canada", City: "Toronto"},
		},
	}
}

// Resolve classifies the given address. The port is stripped when present
// so "1.2.3.4" and "1.2.3.4:9000" land on the same location.
func (r *StaticResolver) Resolve(address string) model.Location {
	host := address
	if h, _, err := net.SplitHostPort(address); err == nil {
		host = h
	}

	if host == "" || host == "localhost" {
		return Unknown
	}

	if ip := net.ParseIP(host); ip != nil && (ip.IsLoopback() || ip.IsUnspecified()) {
		return Unknown
	}

	h := fnv.New32a()
	h.Write([]byte(host))
	return r.locations[int(h.Sum32())%len(r.locations)]
}
