package session

import "github.com/toole-brendan/claimsearch/claim"

// ResolveResult is one entry of a resolve() call's result list: either a
// resolved document, or the error that kept it from resolving — a
// malformed URL, a channel/stream lookup failure, or a censorship block
// (§7).
type ResolveResult struct {
	Doc *claim.IndexedDocument
	Err error
}

// Outputs is the structured tuple handed to the external serializer
// after either a resolve or a search call: primary results, expanded
// references (channels first, then reposts), pagination metadata, and
// the Censor that ran over the primary results (§4.6, §6 "Output").
type Outputs struct {
	Results    []ResolveResult
	References []*claim.IndexedDocument
	Offset     int
	Total      int64
	Censor     *Censor
}
