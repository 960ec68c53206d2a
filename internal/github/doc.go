// Package github retrieves single files from GitHub repositories.
//
// A fetch tries two strategies in order:
//
//  1. The contents API (api.github.com/repos/{owner}/{repo}/contents/{path}?ref={branch}),
//     which serves private repositories when a credential is supplied and
//     returns the file base64-encoded together with its metadata.
//  2. The raw content host (raw.githubusercontent.com/{owner}/{repo}/{branch}/{path}),
//     tried only when the API answered with a non-200 status.
//
// Both strategies share the same path encoding: every segment is
// percent-encoded on its own and the separating slashes are preserved.
//
// Transport failures surface as *domain.TransportError and are never
// retried. A malformed 200 from the API is a *domain.ProtocolError and does
// not fall back. When neither strategy succeeds the error is a
// *domain.NotFoundError carrying both URLs and both status codes.
package github
