package resolve

// URLParseError reports that a raw URL string could not be parsed. It is
// returned as a value, not propagated as a fatal error, so a multi-URL
// resolve can report one bad entry without failing the others (§7).
type URLParseError struct {
	Raw string
	Err error
}

func (e *URLParseError) Error() string {
	return "resolve: could not parse url " + e.Raw + ": " + e.Err.Error()
}

func (e *URLParseError) Unwrap() error { return e.Err }

// ChannelNotFoundError reports that no claim satisfies a URL's channel
// segment.
type ChannelNotFoundError struct {
	URL string
}

func (e *ChannelNotFoundError) Error() string {
	return "resolve: could not find channel in \"" + e.URL + "\""
}

// StreamNotFoundError reports that no claim satisfies a URL's stream
// segment.
type StreamNotFoundError struct {
	URL string
}

func (e *StreamNotFoundError) Error() string {
	return "resolve: could not find claim at \"" + e.URL + "\""
}
