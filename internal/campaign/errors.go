// File: internal/campaign/errors.go
package campaign

import "errors"

var (
	// ErrNotFound reports that a locator matched nothing within its wait
	// budget. Session implementations return it so campaign logic can
	// distinguish "absent" from a broken page.
	ErrNotFound = errors.New("element not found")

	// ErrNoDetailLink reports that a search-result row carried no usable
	// profile link, so no background context could be opened for it.
	ErrNoDetailLink = errors.New("no detail link in result row")

	// ErrQuotaReached reports that the campaign hit its configured cap.
	ErrQuotaReached = errors.New("campaign quota reached")
)
