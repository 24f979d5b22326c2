// Package config loads, validates and initializes the YAML configuration of pms.
package config
