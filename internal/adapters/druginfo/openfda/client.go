package openfda

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"med-reminder/internal/platform/httpclient"
	"med-reminder/internal/ports/druginfo"
)

var (
	ErrNotConfigured = errors.New("openfda client not configured")
	ErrUpstream      = errors.New("openfda upstream error")
)

const (
	// API pública de etiquetas de medicamentos (no requiere API key para
	// volúmenes chicos).
	DefaultBaseURL = "https://api.fda.gov"

	defaultLimit = 10
	maxLimit     = 25
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implementa druginfo.Lookup contra el endpoint drug/label de openFDA.
type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}

	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{http: hc}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

type labelResponse struct {
	Results []struct {
		OpenFDA struct {
			BrandName   []string `json:"brand_name"`
			GenericName []string `json:"generic_name"`
			Route       []string `json:"route"`
			DosageForm  []string `json:"dosage_form"`
		} `json:"openfda"`
	} `json:"results"`
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]druginfo.Drug, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []druginfo.Drug{}, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	search := url.QueryEscape(fmt.Sprintf(`openfda.brand_name:%q`, query))
	path := fmt.Sprintf("/drug/label.json?search=%s&limit=%d", search, limit)

	var out labelResponse
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			// openFDA responde 404 cuando la búsqueda no matchea nada.
			return []druginfo.Drug{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	drugs := make([]druginfo.Drug, 0, len(out.Results))
	for _, res := range out.Results {
		drugs = append(drugs, druginfo.Drug{
			BrandName:   first(res.OpenFDA.BrandName),
			GenericName: first(res.OpenFDA.GenericName),
			Route:       first(res.OpenFDA.Route),
			DosageForm:  first(res.OpenFDA.DosageForm),
		})
	}
	return drugs, nil
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
