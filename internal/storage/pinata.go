package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// PinataStore pins files to IPFS through the Pinata API. References are gateway URLs.
type PinataStore struct {
	httpClient *http.Client
	apiURL     string
	gatewayURL string
	jwt        string
}

// NewPinataStore creates a Pinata client that authenticates with jwt and resolves references through gatewayURL.
func NewPinataStore(apiURL, gatewayURL, jwt string) *PinataStore {
	return &PinataStore{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiURL:     apiURL,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		jwt:        jwt,
	}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// Upload pins data and returns its gateway URL.
func (p *PinataStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create pin request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.jwt)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to pin %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: pinata responded %d", ErrNotAcknowledged, resp.StatusCode)
	}

	var pinned pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", fmt.Errorf("%w: unreadable pin response: %v", ErrNotAcknowledged, err)
	}
	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("%w: empty IPFS hash", ErrNotAcknowledged)
	}

	logrus.Infof("File %s pinned as %s", filename, pinned.IpfsHash)
	return p.gatewayURL + "/ipfs/" + pinned.IpfsHash, nil
}

// Fetch downloads a pinned object through the configured gateway.
func (p *PinataStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, p.gatewayURL+"/ipfs/") {
		return nil, fmt.Errorf("%w: %s is not a gateway reference", ErrObjectNotFound, ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrObjectNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("gateway responded %d for %s", resp.StatusCode, ref)
	}

	return io.ReadAll(resp.Body)
}
