package model

import "fmt"

// UnsupportedPlatformError marks a platform id with no registered poster.
type UnsupportedPlatformError struct {
	Platform string
}

func (e UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("platform '%s' is not supported", e.Platform)
}

// MissingCredentialsError is returned by Authenticate when no usable
// credential is available from the call, stored state, or configuration.
type MissingCredentialsError struct {
	Platform string
	Missing  []string
}

func (e MissingCredentialsError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("%s credentials not configured", e.Platform)
	}
	msg := e.Missing[0]
	for _, m := range e.Missing[1:] {
		msg += ", " + m
	}
	return fmt.Sprintf("%s requires %s", e.Platform, msg)
}

// AuthenticationFailedError carries the provider response to a rejected
// identity-verification call.
type AuthenticationFailedError struct {
	Platform string
	Status   int
	Body     string
}

func (e AuthenticationFailedError) Error() string {
	return fmt.Sprintf("%s authentication failed (status %d): %s", e.Platform, e.Status, e.Body)
}

// MediaFetchFailedError marks a failed download of a caller-supplied media URL.
type MediaFetchFailedError struct {
	Platform string
	URL      string
	Status   int
	Reason   string
}

func (e MediaFetchFailedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s media fetch failed for %s: %s", e.Platform, e.URL, e.Reason)
	}
	return fmt.Sprintf("%s media fetch failed for %s (status %d)", e.Platform, e.URL, e.Status)
}

// PlatformAPIError carries the provider error body of a rejected publish or
// upload step, verbatim for diagnostics.
type PlatformAPIError struct {
	Platform string
	Step     string
	Status   int
	Body     string
}

func (e PlatformAPIError) Error() string {
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Platform, e.Step, e.Status, e.Body)
}
