// Package main provides the entry point for the rippled network crawler
// CLI.
//
// The crawler discovers the topology of a rippled peer-to-peer network:
// starting from one known node it asks every newly discovered neighbor
// for its peer list and aggregates the answers into a single topology
// snapshot.
//
// Usage:
//
//	rippled-network-crawler crawl <host[:port]>
//	rippled-network-crawler crawl --network mainnet
//
// See --help for all available options.
package main

// main is the entry point for the crawler.
func main() {
	Execute()
}
