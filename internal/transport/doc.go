// Package transport fetches /crawl documents from rippled nodes over
// HTTPS.
//
// This is the traversal's only network boundary. One Fetch performs one
// GET of https://<host:port>/crawl, validates the JSON body, and decodes
// the overlay peer list; the rest of the document is carried through
// opaquely. Failures are classified into the typed error codes the
// session report records. Fetches are never retried here.
//
// Certificate verification is disabled: rippled serves its peer port
// with a self-signed certificate, so verification would reject every
// node on the network.
package transport
