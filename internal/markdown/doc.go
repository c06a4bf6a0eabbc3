// Package markdown reads documents from a filesystem, runs them through the
// metadata pipeline and optionally renders their bodies to HTML.
package markdown
