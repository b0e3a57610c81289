// Package site looks up the sites of a multisite deployment.
package site

// Site is one site of the network.
type Site struct {
	ID     int64
	Domain string
	Path   string
}
