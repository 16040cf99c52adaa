// Package nordapi is the REST client for the NordVPN public API:
// credentials lookup, the WireGuard server list and caller geolocation.
package nordapi

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"

	"github.com/nordwg/nordgen/pkg/geo"
	"github.com/nordwg/nordgen/pkg/server"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnavailable wraps every fetch failure. A run aborts cleanly on it
// before any filesystem writes happen.
var ErrUnavailable = errors.New("nord api unavailable")

const (
	defaultBaseURL = "https://api.nordvpn.com/v1"

	credentialsPath = "/users/services/credentials"
	serversPath     = "/servers?limit=16384&filters[servers_technologies][identifier]=wireguard_udp"
	geoPath         = "/helpers/ips/insights"
)

// Client talks to the NordVPN API. BaseURL is overridable for tests.
type Client struct {
	BaseURL string
	http    *http.Client
}

func New() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

type credentialsResponse struct {
	PrivateKey string `json:"nordlynx_private_key"`
}

type geoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PrivateKey exchanges an access token for the account's NordLynx
// (WireGuard) private key via Basic token auth.
func (c *Client) PrivateKey(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+credentialsPath, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte("token:" + token))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: credentials: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: credentials status %d", ErrUnavailable, resp.StatusCode)
	}

	var creds credentialsResponse
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return "", fmt.Errorf("%w: decode credentials: %v", ErrUnavailable, err)
	}
	if creds.PrivateKey == "" {
		return "", fmt.Errorf("%w: account has no nordlynx private key", ErrUnavailable)
	}
	return creds.PrivateKey, nil
}

// Servers fetches the raw WireGuard server list.
func (c *Client) Servers(ctx context.Context) ([]server.RawServer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+serversPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: servers: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: servers status %d", ErrUnavailable, resp.StatusCode)
	}

	var servers []server.RawServer
	if err := json.NewDecoder(resp.Body).Decode(&servers); err != nil {
		return nil, fmt.Errorf("%w: decode servers: %v", ErrUnavailable, err)
	}
	return servers, nil
}

// Location resolves the caller's network egress coordinates.
func (c *Client) Location(ctx context.Context) (geo.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+geoPath, nil)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("%w: geolocation: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinates{}, fmt.Errorf("%w: geolocation status %d", ErrUnavailable, resp.StatusCode)
	}

	var loc geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return geo.Coordinates{}, fmt.Errorf("%w: decode geolocation: %v", ErrUnavailable, err)
	}
	return geo.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

// Snapshot is everything a generation run needs from the remote side.
type Snapshot struct {
	PrivateKey string
	Servers    []server.RawServer
	User       geo.Coordinates
}

// FetchAll runs the three independent fetches concurrently and joins them
// all before returning; any failure cancels the rest and aborts the run.
func (c *Client) FetchAll(ctx context.Context, token string) (*Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		key, err := c.PrivateKey(ctx, token)
		snap.PrivateKey = key
		return err
	})
	g.Go(func() error {
		servers, err := c.Servers(ctx)
		snap.Servers = servers
		return err
	})
	g.Go(func() error {
		user, err := c.Location(ctx)
		snap.User = user
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
