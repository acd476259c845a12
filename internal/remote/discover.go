package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service name the processing service advertises.
const ServiceType = "_layerpaint-proc._tcp"

// ErrNotFound is returned when discovery sees no service.
var ErrNotFound = errors.New("no processing service found")

// Discover browses the local network for the processing service and
// returns the base URL of the first responder.
func Discover(ctx context.Context, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.Port == 0 || e.AddrV4 == nil {
				continue
			}
			select {
			case found <- fmt.Sprintf("http://%s:%d", e.AddrV4, e.Port):
			default:
			}
		}
	}()
	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	errc := make(chan error, 1)
	go func() {
		errc <- mdns.Query(params)
		close(entries)
	}()
	select {
	case addr := <-found:
		return addr, nil
	case err := <-errc:
		<-done
		select {
		case addr := <-found:
			return addr, nil
		default:
		}
		if err != nil {
			return "", fmt.Errorf("mdns query: %w", err)
		}
		return "", ErrNotFound
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
