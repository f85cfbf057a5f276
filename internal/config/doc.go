// Package config loads and validates the environment configuration.
package config
