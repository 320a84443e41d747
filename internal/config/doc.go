// Package config holds the crawler's configuration: defaults, validation,
// and the optional YAML file loader.
//
// Configuration flows in three layers, lowest priority first:
//  1. Defaults from NewConfig
//  2. Values from the .textcrawler YAML file, if present
//  3. Explicit CLI flags
//
// Validation happens once, after all layers are applied and before any
// crawling begins. Validation failures are the only fatal errors in the
// system; every later failure is absorbed per page.
package config
