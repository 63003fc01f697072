// Package customer resolves which customer identifier scopes a request.
package customer

import "errors"

// ErrMissingCustomerID is returned when neither the request nor the
// configured default yields a customer identifier.
var ErrMissingCustomerID = errors.New("no customer id supplied and no default configured")

// Source records where the resolved customer identifier came from.
type Source string

const (
	SourceBody    Source = "body"
	SourceHeader  Source = "header"
	SourceDefault Source = "default"
)

// Context is the customer identity scoping all banking calls within one
// request. It is resolved once per inbound request and immutable afterward.
type Context struct {
	CustomerID string
	Source     Source
}

// Resolver produces a Context from the identifiers a request carries.
// Precedence: explicit body field (write operations) > x-customer-id header
// (read operations) > the injected default.
type Resolver struct {
	defaultID string
}

func NewResolver(defaultID string) *Resolver {
	return &Resolver{defaultID: defaultID}
}

// Resolve picks the customer id for a request. bodyID is the customer_id
// field from the request body, empty for read operations; headerID is the
// x-customer-id header value.
func (r *Resolver) Resolve(bodyID, headerID string) (Context, error) {
	if bodyID != "" {
		return Context{CustomerID: bodyID, Source: SourceBody}, nil
	}
	if headerID != "" {
		return Context{CustomerID: headerID, Source: SourceHeader}, nil
	}
	if r.defaultID != "" {
		return Context{CustomerID: r.defaultID, Source: SourceDefault}, nil
	}
	return Context{}, ErrMissingCustomerID
}
