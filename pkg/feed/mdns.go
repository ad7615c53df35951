package feed

import (
	"fmt"

	"github.com/grandcat/zeroconf"
)

// mDNS service parameters.
const (
	ServiceType = "_emv-reader._tcp"
	Domain      = "local."
)

// Advertise registers the feed on the local network. Call the returned
// function to withdraw it.
func Advertise(instance string, port int) (func(), error) {
	txt := []string{
		"version=1",
		"protocol=websocket",
		"path=/ws",
	}
	srv, err := zeroconf.Register(instance, ServiceType, Domain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("registering mDNS service: %w", err)
	}
	return srv.Shutdown, nil
}
