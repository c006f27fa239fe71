package provisioning

import (
	"strings"

	"github.com/imamik/podtrain/internal/compute"
)

// PreferredEndpoint picks the address to connect to from the reported port
// mappings. A mapping of the private port wins, public before private; then
// any public TCP mapping; then any mapping at all. Mappings without an IP or
// public port are never reachable and are skipped.
func PreferredEndpoint(ports []compute.PortMapping, port int) (compute.Endpoint, bool) {
	var usable []compute.PortMapping
	for _, p := range ports {
		if p.IP != "" && p.PublicPort > 0 {
			usable = append(usable, p)
		}
	}
	if len(usable) == 0 {
		return compute.Endpoint{}, false
	}

	tiers := []func(compute.PortMapping) bool{
		func(p compute.PortMapping) bool { return p.PrivatePort == port && isTCP(p) && p.Public },
		func(p compute.PortMapping) bool { return p.PrivatePort == port && isTCP(p) },
		func(p compute.PortMapping) bool { return isTCP(p) && p.Public },
	}
	for _, match := range tiers {
		for _, p := range usable {
			if match(p) {
				return toEndpoint(p), true
			}
		}
	}
	return toEndpoint(usable[0]), true
}

func isTCP(p compute.PortMapping) bool {
	return p.Type == "" || strings.EqualFold(p.Type, "tcp")
}

func toEndpoint(p compute.PortMapping) compute.Endpoint {
	return compute.Endpoint{Host: p.IP, Port: p.PublicPort, Public: p.Public}
}
