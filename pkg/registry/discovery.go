package registry

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/pion/logging"
)

// ServiceType is the DNS-SD service name mints advertise under for
// local auto-discovery. Distinct from, and unrelated to, any
// Nostr-based relay discovery.
const ServiceType = "_cashu-mint._tcp"

// DefaultDomain is the mDNS domain services are advertised and browsed
// on.
const DefaultDomain = "local."

// DefaultBrowseTimeout bounds a Discover call that has no deadline of
// its own.
const DefaultBrowseTimeout = 5 * time.Second

// TXTKeyURL is the TXT record key carrying a mint's base URL, since
// the mDNS host/port pair alone does not disambiguate http from https
// or carry a path prefix.
const TXTKeyURL = "url"

// mdnsServer abstracts the running advertisement so it can be shut
// down; satisfied by *zeroconf.Server.
type mdnsServer interface {
	Shutdown()
}

// mdnsResolver abstracts browsing so tests can inject a fake.
type mdnsResolver interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// DiscovererConfig configures a Discoverer.
type DiscovererConfig struct {
	// Interfaces restricts advertising to the given interfaces. Nil
	// means all interfaces. Browsing always uses every interface.
	Interfaces []net.Interface

	// BrowseTimeout bounds Discover when ctx carries no deadline.
	BrowseTimeout time.Duration

	// LoggerFactory creates the discoverer's logger. Nil disables
	// logging.
	LoggerFactory logging.LoggerFactory

	// resolverFactory and registerFunc exist for tests to inject fakes
	// in place of the real zeroconf calls.
	resolverFactory func() (mdnsResolver, error)
	registerFunc    func(instance, service, domain string, port int, txt []string, ifaces []net.Interface) (mdnsServer, error)
}

// Discoverer advertises a local mint on the network and browses for
// peer mints, feeding results into a Registry. Grounded on the
// advertiser/resolver pair's factory-injection shape, generalized from
// Matter's commissionable/operational services to a single flat
// "_cashu-mint._tcp" service.
type Discoverer struct {
	cfg DiscovererConfig
	log logging.LeveledLogger

	server   mdnsServer
	resolver mdnsResolver
}

// NewDiscoverer creates a Discoverer. The zeroconf resolver is created
// lazily on first Discover call so constructing a Discoverer never
// touches the network.
func NewDiscoverer(cfg DiscovererConfig) *Discoverer {
	if cfg.BrowseTimeout == 0 {
		cfg.BrowseTimeout = DefaultBrowseTimeout
	}
	d := &Discoverer{cfg: cfg}
	if d.cfg.LoggerFactory != nil {
		d.log = d.cfg.LoggerFactory.NewLogger("registry")
	}
	return d
}

// Advertise publishes this process's mint at the given base URL and
// port under ServiceType. Call Close to stop advertising.
func (d *Discoverer) Advertise(instance, baseURL string, port int) error {
	register := d.cfg.registerFunc
	if register == nil {
		register = func(instance, service, domain string, port int, txt []string, ifaces []net.Interface) (mdnsServer, error) {
			return zeroconf.Register(instance, service, domain, port, txt, ifaces)
		}
	}

	txt := []string{fmt.Sprintf("%s=%s", TXTKeyURL, baseURL)}

	server, err := register(instance, ServiceType, DefaultDomain, port, txt, d.cfg.Interfaces)
	if err != nil {
		return fmt.Errorf("registry: mDNS registration failed: %w", err)
	}
	if d.log != nil {
		d.log.Infof("advertising %s as %s on port %d", baseURL, instance, port)
	}
	d.server = server
	return nil
}

// Close stops advertising, if Advertise was called.
func (d *Discoverer) Close() error {
	if d.server != nil {
		d.server.Shutdown()
		d.server = nil
	}
	return nil
}

// Discover browses for peer mints for up to cfg.BrowseTimeout (or
// until ctx is done, if it carries its own deadline) and registers
// each one found into reg by fetching its live /v1/info and /v1/keys.
// Entries whose TXT records carry no url key, or whose Refresh call
// fails, are skipped rather than failing the whole discovery pass.
func (d *Discoverer) Discover(ctx context.Context, reg *Registry) ([]MintInfo, error) {
	resolver, err := d.getResolver()
	if err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.BrowseTimeout)
		defer cancel()
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		defer close(entries)
		resolver.Browse(ctx, ServiceType, DefaultDomain, entries)
	}()

	var found []MintInfo
	for entry := range entries {
		url := parseURL(entry.Text)
		if url == "" {
			continue
		}
		info, err := reg.Refresh(ctx, url)
		if err != nil {
			if d.log != nil {
				d.log.Warnf("registry: refresh of discovered mint %s failed: %v", url, err)
			}
			continue
		}
		found = append(found, info)
	}

	return found, nil
}

func (d *Discoverer) getResolver() (mdnsResolver, error) {
	if d.resolver != nil {
		return d.resolver, nil
	}
	if d.cfg.resolverFactory != nil {
		r, err := d.cfg.resolverFactory()
		if err != nil {
			return nil, err
		}
		d.resolver = r
		return r, nil
	}
	r, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, err
	}
	d.resolver = r
	return r, nil
}

func parseURL(txt []string) string {
	prefix := TXTKeyURL + "="
	for _, kv := range txt {
		if strings.HasPrefix(kv, prefix) {
			return strings.TrimPrefix(kv, prefix)
		}
	}
	return ""
}
