// Package ice runs BLAST sequence searches against an ICE registry
// (Inventory of Composable Elements) over its REST API.
package ice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SequenceSearcher = (*Client)(nil)

const (
	// DefaultURL is the JBEI public registry
	DefaultURL = "https://registry.jbei.org"

	// DefaultRetrieveCount caps the hits requested per search
	DefaultRetrieveCount = 100

	// ICE entries are JBEI records; these fields are fixed for every hit
	hitBRC         = "JBEI"
	hitRepository  = "ICE"
	hitAffiliation = "Joint BioEnergy Institute, Lawrence Berkeley National Laboratory Berkeley CA 94720"

	maxResponseBytes = 32 << 20
)

// ErrMissingCredentials is returned when any API token is blank
var ErrMissingCredentials = errors.New("ice: api token, client and owner are required")

// Config holds ICE client configuration.
type Config struct {
	BaseURL       string        // default: DefaultURL
	TokenClient   string        // X-ICE-API-Token-Client
	Token         string        // X-ICE-API-Token
	TokenOwner    string        // X-ICE-API-Token-Owner
	RetrieveCount int           // default: DefaultRetrieveCount
	Timeout       time.Duration // default: 60s
}

// Client searches an ICE instance with BLAST_N.
type Client struct {
	baseURL       string
	headers       map[string]string
	retrieveCount int
	httpClient    *http.Client
}

// NewClient creates a Client. All three tokens must be set.
func NewClient(cfg Config) (*Client, error) {
	if cfg.TokenClient == "" || cfg.Token == "" || cfg.TokenOwner == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultURL
	}
	if cfg.RetrieveCount <= 0 {
		cfg.RetrieveCount = DefaultRetrieveCount
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		headers: map[string]string{
			"X-ICE-API-Token-Client": cfg.TokenClient,
			"X-ICE-API-Token":        cfg.Token,
			"X-ICE-API-Token-Owner":  cfg.TokenOwner,
		},
		retrieveCount: cfg.RetrieveCount,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Name identifies the searcher
func (c *Client) Name() string { return "ice" }

type searchRequest struct {
	QueryString string      `json:"queryString"`
	BlastQuery  blastQuery  `json:"blastQuery"`
	Parameters  searchLimit `json:"parameters"`
}

type blastQuery struct {
	BlastProgram string `json:"blastProgram"`
	Sequence     string `json:"sequence"`
}

type searchLimit struct {
	RetrieveCount int `json:"retrieveCount"`
}

type searchResponse struct {
	Results []struct {
		EntryInfo entryInfo `json:"entryInfo"`
	} `json:"results"`
}

type entryInfo struct {
	PartID           string `json:"partId"`
	Name             string `json:"name"`
	Owner            string `json:"owner"`
	ShortDescription string `json:"shortDescription"`
	CreationTime     int64  `json:"creationTime"` // epoch millis
}

// SearchSequence runs a BLAST_N search and maps each entry to a dataset-shaped hit.
func (c *Client) SearchSequence(ctx context.Context, sequence string) ([]domain.SequenceHit, error) {
	body, err := json.Marshal(searchRequest{
		BlastQuery: blastQuery{BlastProgram: "BLAST_N", Sequence: sequence},
		Parameters: searchLimit{RetrieveCount: c.retrieveCount},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/search?searchWeb=true", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ice search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("ice search: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	hits := make([]domain.SequenceHit, 0, len(result.Results))
	for _, r := range result.Results {
		if r.EntryInfo.PartID == "" {
			continue
		}
		hits = append(hits, toHit(r.EntryInfo))
	}
	return hits, nil
}

func toHit(e entryInfo) domain.SequenceHit {
	doc := map[string]any{
		"title":       e.Name,
		"brc":         hitBRC,
		"identifier":  e.PartID,
		"description": e.ShortDescription,
		"keywords":    []any{},
		"repository":  hitRepository,
		"creator": []any{map[string]any{
			"creatorName":    e.Owner,
			"primaryContact": true,
			"affiliation":    hitAffiliation,
		}},
	}
	if e.CreationTime > 0 {
		doc["date"] = time.UnixMilli(e.CreationTime).UTC().Format("2006-01-02T15:04:05.000Z")
	}
	return domain.SequenceHit{BRC: hitBRC, Identifier: e.PartID, Document: doc}
}
