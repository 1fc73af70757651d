// Package config loads capturetime's TOML configuration.
//
// Load starts from Default, overlays the file when one exists, then
// normalizes and validates the result. The accessors translate the settings
// into the option structs of the detector, the extractor, the batch runner and
// the scanner.
package config
