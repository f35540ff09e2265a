// Package forge resolves web URLs of known git hosting services into a
// canonical repository identity.
package forge

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

type hostKind int

const (
	kindGitHub hostKind = iota
	kindGitLab
	kindGitLabForge
)

// Host identifies a known git hosting service. The zero value is not a
// valid host; use one of the exported values or GitLabForge.
type Host struct {
	kind   hostKind
	domain string
}

var (
	// GitHub is the github.com hosting service.
	GitHub = Host{kindGitHub, "github.com"}

	// GitLab is the gitlab.com hosting service.
	GitLab = Host{kindGitLab, "gitlab.com"}
)

// GitLabForge returns a Host for a self-hosted GitLab instance on the
// given domain, such as salsa.debian.org.
func GitLabForge(domain string) Host {
	return Host{kindGitLabForge, strings.ToLower(strings.TrimSpace(domain))}
}

// Domain returns the canonical domain of the hosting service.
func (h Host) Domain() string { return h.domain }

func (h Host) String() string { return h.domain }

// IsGitHub returns true if the host is github.com.
func (h Host) IsGitHub() bool { return h.kind == kindGitHub }

// IsGitLabLike returns true if the host is gitlab.com or a self-hosted
// GitLab instance.
func (h Host) IsGitLabLike() bool {
	return h.kind == kindGitLab || h.kind == kindGitLabForge
}

// knownHosts is the fixed list of recognised hosting services. patterns
// are tried in this order, first match wins.
var knownHosts = []Host{
	GitHub,
	GitLab,
	GitLabForge("salsa.debian.org"),
}

type hostPattern struct {
	host Host
	rgx  *regexp.Regexp
}

var hostPatterns []hostPattern

func init() {
	for _, h := range knownHosts {
		// scheme is insignificant to identity, owner and repo are exactly
		// two path segments, anything after the repo segment is
		// a link inside the repository and is dropped
		rgx := regexp.MustCompile(
			`^https?://` + regexp.QuoteMeta(h.domain) + `/([^/]+)/([^/]+)/?.*$`)
		hostPatterns = append(hostPatterns, hostPattern{host: h, rgx: rgx})
	}
}

// Identity is the normalised (host, owner, repo) triple naming a
// repository independent of URL formatting. Identities are immutable,
// all fields are lowercase and non-empty.
type Identity struct {
	host  Host
	owner string
	repo  string
}

// Host returns the hosting service of the repository.
func (id Identity) Host() Host { return id.host }

// Owner returns the lowercase owner (user or org) of the repository.
func (id Identity) Owner() string { return id.owner }

// Repo returns the lowercase name of the repository.
func (id Identity) Repo() string { return id.repo }

// CanonicalURL reconstructs the https URL of the repository without
// scheme variance, case variance, trailing slashes or subpaths.
func (id Identity) CanonicalURL() string {
	return "https://" + id.host.domain + "/" + id.owner + "/" + id.repo
}

// OwnerDir returns the path of the owner directory under the given root.
func (id Identity) OwnerDir(root string) string {
	return filepath.Join(root, id.host.domain, id.owner)
}

// Dir returns the path of the repository mirror directory under the
// given root.
func (id Identity) Dir(root string) string {
	return filepath.Join(id.OwnerDir(root), id.repo)
}

func (id Identity) String() string {
	return id.host.domain + "/" + id.owner + "/" + id.repo
}

// ParseError is returned when a URL does not match any known hosting
// service. It carries the original input string.
type ParseError struct {
	URL string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("url %q does not match any known git hosting service", e.URL)
}

// NormaliseURL will return normalised url
func NormaliseURL(rawURL string) string {
	nURL := strings.ToLower(strings.TrimSpace(rawURL))
	nURL = strings.TrimRight(nURL, "/")

	return nURL
}

// Resolve parses a repository web URL into an Identity. The URL must be
// a http(s) URL of one of the known hosting services with at least
// owner and repo path segments. Direct links to files or branches
// inside a repository resolve to the owning repository.
// On failure it returns a *ParseError, never a partial identity.
func Resolve(rawURL string) (Identity, error) {
	nURL := NormaliseURL(rawURL)

	for _, p := range hostPatterns {
		sections := p.rgx.FindStringSubmatch(nURL)
		if sections == nil {
			continue
		}
		return Identity{
			host:  p.host,
			owner: sections[1],
			repo:  sections[2],
		}, nil
	}

	return Identity{}, &ParseError{URL: rawURL}
}
