// internal/clients/customer_client.go
package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"mudahpos/internal/customer"
)

// CustomerClient reads the customer directory from the catalog service.
type CustomerClient struct {
	baseURL string
	http    *http.Client
}

func NewCustomerClient(baseURL string, httpClient *http.Client) *CustomerClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CustomerClient{baseURL: baseURL, http: httpClient}
}

func (c *CustomerClient) List(ctx context.Context) ([]customer.Customer, error) {
	var customers []customer.Customer
	if err := getJSON(ctx, c.http, c.baseURL+"/customers", &customers); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (c *CustomerClient) Get(ctx context.Context, id string) (*customer.Customer, error) {
	var cust customer.Customer
	err := getJSON(ctx, c.http, fmt.Sprintf("%s/customers/%s", c.baseURL, url.PathEscape(id)), &cust)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", customer.ErrCustomerNotFound, id)
		}
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	return &cust, nil
}
