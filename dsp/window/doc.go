// Package window generates the tapering windows applied to audio blocks
// before spectrum analysis.
package window
