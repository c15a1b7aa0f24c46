// Package config loads YAML configuration for the eodctl and gatherer binaries.
//
// ${VAR} references are expanded from the environment before parsing. The API
// token may also come from EOD_API_KEY, which takes precedence over the file.
package config
