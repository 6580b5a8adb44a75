// Package startup handles configuration loading and startup logging
// for the gallery generator. Configuration comes from environment
// variables, optionally seeded from a .env file in the working
// directory.
package startup
