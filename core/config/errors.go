package config

import "errors"

var (
	// ErrParse is returned when environment variables or a config file cannot be parsed into the target struct.
	ErrParse = errors.New("failed to parse config")

	// ErrReadFile is returned when a config file cannot be read.
	ErrReadFile = errors.New("failed to read config file")
)
