// Package server implements the optional local preview server for
// checking generated gallery output in a browser.
package server
