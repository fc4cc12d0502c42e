// File: internal/campaign/interfaces.go

// Package campaign drives outreach campaigns against a live rendering
// session: walking search results, sending connection requests, and
// submitting job applications. The package owns the campaign state machines
// and talks to the page exclusively through the Session interface.
package campaign

import (
	"context"
	"time"

	"github.com/xkilldash9x/outreach-cli/internal/forms"
)

// ContextID identifies a rendering context (a tab) within the session.
type ContextID string

// ElementRef addresses a single element on the page. The value is an XPath
// expression guaranteed to match exactly one node, so it stays valid across
// calls without holding a live handle.
type ElementRef string

// FieldOption is one selectable choice of a dropdown or radio group.
type FieldOption struct {
	Ref   ElementRef
	Label string
}

// FormField is one fillable control probed from the current form step.
type FormField struct {
	Ref     ElementRef
	Kind    forms.FieldKind
	Label   string
	Options []FieldOption
	Checked bool
}

// Session is the rendering surface campaigns drive. Implementations wrap a
// real browser; tests substitute a scripted fake. Every method takes the
// caller's context so cancellation propagates into in-flight page work.
type Session interface {
	// Navigate loads url in the current context.
	Navigate(ctx context.Context, url string) error
	// CurrentLocation returns the URL of the current context.
	CurrentLocation(ctx context.Context) (string, error)

	// FindAll returns refs for every element matching the locator, in
	// document order. An empty slice with a nil error means no matches.
	FindAll(ctx context.Context, locator string) ([]ElementRef, error)
	// Click clicks a previously resolved element. ErrNotFound when the
	// element no longer exists.
	Click(ctx context.Context, ref ElementRef) error
	// ClickLocator clicks the first element matching the locator.
	// ErrNotFound when nothing matches.
	ClickLocator(ctx context.Context, locator string) error
	// Type focuses the first match and types text into it.
	Type(ctx context.Context, locator string, text string) error
	// Text returns the visible text of an element.
	Text(ctx context.Context, ref ElementRef) (string, error)
	// Attribute returns the named attribute, empty when absent.
	Attribute(ctx context.Context, ref ElementRef, name string) (string, error)
	// WaitVisible blocks until the locator matches a visible element or
	// the timeout elapses with ErrNotFound.
	WaitVisible(ctx context.Context, locator string, timeout time.Duration) error

	// OpenContext opens url in a new background context without moving
	// focus off the current one.
	OpenContext(ctx context.Context, url string) (ContextID, error)
	// SwitchContext moves focus to the given context.
	SwitchContext(ctx context.Context, id ContextID) error
	// CloseContext closes the given context. Closing the focused context
	// leaves focus undefined until the next SwitchContext.
	CloseContext(ctx context.Context, id ContextID) error
	// CurrentContext reports the focused context.
	CurrentContext() ContextID

	// FormFields probes the visible application form and returns its
	// fillable controls with resolved labels.
	FormFields(ctx context.Context) ([]FormField, error)
}

// JobRecord is one discovered job posting and its application outcome.
type JobRecord struct {
	Company  string
	Title    string
	URL      string
	Location string
	PostTime string
	Status   string
}

// Job application statuses recorded in the result sink.
const (
	StatusDiscovered = "Discovered"
	StatusSubmitted  = "Submitted"
	StatusError      = "Error"
)

// ResultSink records discovered jobs and their outcomes.
type ResultSink interface {
	// RecordDiscovered appends a job unless its URL is already present.
	RecordDiscovered(rec JobRecord) error
	// UpdateStatus rewrites the status of the job with the given URL.
	UpdateStatus(url, status string) error
}
