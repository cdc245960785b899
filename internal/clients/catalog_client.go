// internal/clients/catalog_client.go
package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"mudahpos/internal/catalog"
)

// CatalogClient reads products from the catalog service.
type CatalogClient struct {
	baseURL string
	http    *http.Client
}

func NewCatalogClient(baseURL string, httpClient *http.Client) *CatalogClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CatalogClient{baseURL: baseURL, http: httpClient}
}

func (c *CatalogClient) List(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := getJSON(ctx, c.http, c.baseURL+"/products", &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *CatalogClient) Get(ctx context.Context, id string) (*catalog.Product, error) {
	var product catalog.Product
	err := getJSON(ctx, c.http, fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(id)), &product)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", catalog.ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &product, nil
}
