// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bureau-foundation/bnlogs/lib/clock"
	"github.com/bureau-foundation/bnlogs/lib/codec"
	"github.com/bureau-foundation/bnlogs/lib/netutil"
)

const (
	// DefaultAPIURL is the public IC API gateway used for discovery.
	DefaultAPIURL = "https://icp-api.io"

	// DefaultSubnet is the subnet whose certified state lists the API
	// boundary nodes.
	DefaultSubnet = "tdb26-jop6k-aogll-7ltgs-eruif-6kk7m-qpktf-gdiqx-mxtrf-vb5e6-eqe"

	// ingressExpiryDelta is how far in the future a read_state request
	// expires. Replicas reject expiries more than five minutes ahead.
	ingressExpiryDelta = 3 * time.Minute

	boundaryNodesLabel = "api_boundary_nodes"
	domainLabel        = "domain"
)

// ErrNoCertificate is returned when a read_state reply carries no
// certificate, or the certificate omits the boundary node subtree.
var ErrNoCertificate = errors.New("read_state reply has no boundary node certificate")

// BoundaryNodes discovers API boundary node domains through the
// Internet Computer read_state endpoint of a subnet.
//
// The certificate signature is not verified: the domains are only
// used as hostnames for TLS-verified wss:// connections, so a forged
// list can redirect the tailer but cannot impersonate a host.
type BoundaryNodes struct {
	// APIURL is the base URL of an IC HTTP gateway, e.g.
	// https://icp-api.io.
	APIURL string

	// Subnet is the subnet queried for its boundary node list.
	Subnet Principal

	// HTTPClient performs the request. Nil selects a client with
	// Timeout.
	HTTPClient *http.Client

	// Timeout bounds the whole discovery call when positive.
	Timeout time.Duration

	// Clock supplies the ingress expiry. Nil selects clock.Real().
	Clock clock.Clock
}

type readStateContent struct {
	RequestType   string     `cbor:"request_type"`
	Sender        []byte     `cbor:"sender"`
	Paths         [][][]byte `cbor:"paths"`
	IngressExpiry uint64     `cbor:"ingress_expiry"`
}

type readStateEnvelope struct {
	Content readStateContent `cbor:"content"`
}

type readStateResponse struct {
	Certificate []byte `cbor:"certificate"`
}

type certificate struct {
	Tree       codec.RawMessage `cbor:"tree"`
	Signature  []byte           `cbor:"signature"`
	Delegation codec.RawMessage `cbor:"delegation,omitempty"`
}

// Discover issues one read_state request and returns the domains of
// the subnet's API boundary nodes in certificate order. Nodes without
// a domain entry are skipped.
func (b *BoundaryNodes) Discover(ctx context.Context) ([]string, error) {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	endpoint, err := b.endpoint()
	if err != nil {
		return nil, err
	}

	body, err := codec.MarshalSelfDescribed(readStateEnvelope{
		Content: readStateContent{
			RequestType:   "read_state",
			Sender:        AnonymousPrincipal,
			Paths:         [][][]byte{{[]byte(boundaryNodesLabel)}},
			IngressExpiry: uint64(b.now().Add(ingressExpiryDelta).UnixNano()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding read_state request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building read_state request: %w", err)
	}
	request.Header.Set("Content-Type", "application/cbor")

	response, err := b.client().Do(request)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", endpoint, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("querying %s: HTTP %d: %s",
			endpoint, response.StatusCode, strings.TrimSpace(netutil.ErrorBody(response.Body)))
	}

	data, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading read_state reply: %w", err)
	}
	return parseBoundaryNodes(data)
}

// parseBoundaryNodes extracts domains from an encoded read_state reply.
func parseBoundaryNodes(data []byte) ([]string, error) {
	var reply readStateResponse
	if err := codec.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("decoding read_state reply: %w", err)
	}
	if len(reply.Certificate) == 0 {
		return nil, ErrNoCertificate
	}

	var cert certificate
	if err := codec.Unmarshal(reply.Certificate, &cert); err != nil {
		return nil, fmt.Errorf("decoding certificate: %w", err)
	}
	if len(cert.Tree) == 0 {
		return nil, ErrNoCertificate
	}

	tree, err := decodeHashTree(cert.Tree)
	if err != nil {
		return nil, fmt.Errorf("decoding certificate tree %s: %w", diagnose(cert.Tree), err)
	}

	nodes := tree.lookup(boundaryNodesLabel)
	if nodes == nil {
		return nil, ErrNoCertificate
	}

	domains := []string{}
	for _, node := range nodes.labeledChildren() {
		leaf := node.child.lookup(domainLabel)
		if leaf == nil || leaf.kind != treeLeaf {
			continue
		}
		domains = append(domains, string(leaf.value))
	}
	return domains, nil
}

// maxDiagnosticLength truncates diagnostic notation in error messages.
const maxDiagnosticLength = 200

// diagnose renders data in CBOR diagnostic notation for an error
// message.
func diagnose(data []byte) string {
	diagnostic, err := codec.Diagnose(data)
	if err != nil {
		return fmt.Sprintf("(%d undecodable bytes)", len(data))
	}
	if len(diagnostic) > maxDiagnosticLength {
		diagnostic = diagnostic[:maxDiagnosticLength] + "..."
	}
	return diagnostic
}

func (b *BoundaryNodes) endpoint() (string, error) {
	base, err := url.Parse(b.APIURL)
	if err != nil {
		return "", fmt.Errorf("parsing API URL %q: %w", b.APIURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return "", fmt.Errorf("API URL %q must use http or https", b.APIURL)
	}
	if len(b.Subnet) == 0 {
		return "", fmt.Errorf("no subnet configured for boundary node discovery")
	}
	return base.JoinPath("api", "v2", "subnet", b.Subnet.String(), "read_state").String(), nil
}

func (b *BoundaryNodes) client() *http.Client {
	if b.HTTPClient != nil {
		return b.HTTPClient
	}
	return &http.Client{Timeout: b.Timeout}
}

func (b *BoundaryNodes) now() time.Time {
	if b.Clock == nil {
		return clock.Real().Now()
	}
	return b.Clock.Now()
}
