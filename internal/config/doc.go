// Package config loads, validates, and defaults the watchnext TOML
// configuration.
//
// Configuration resolves from an explicit path, then ~/.config/watchnext/
// config.toml, then a watchnext.toml in the working directory. Values absent
// from the file fall back to Default(). The TMDB API key may also be supplied
// through the TMDB_API_KEY environment variable; a missing key fails
// validation because nothing useful can run without it.
package config
