package config

import (
	"net"
	"strconv"
)

// Network constants
const (
	// HTTP Server Port - REST API consumed by the browser UI
	HTTP_SERVER_PORT = 8080

	// Default bind address
	DEFAULT_SERVER_ADDRESS = "0.0.0.0"

	// Localhost address for development
	LOCALHOST_ADDRESS = "127.0.0.1"
)

// Port validation constants
const (
	MIN_PORT = 1
	MAX_PORT = 65535
)

// Storage defaults
const (
	DEFAULT_REGION = "us-east-1"
)

// Reader defaults
const (
	READER_STRATEGY_AUTO   = "auto"
	READER_STRATEGY_LINEAR = "linear"

	DEFAULT_BATCH_SIZE = 1024
	DEFAULT_PAGE_SIZE  = 50
)

// Export defaults
const (
	DEFAULT_FLUSH_ROWS  = 1000
	DEFAULT_SAMPLE_ROWS = 50
	DEFAULT_SHEET_NAME  = "Data"

	// Spreadsheet row limit per sheet, header included
	MAX_SHEET_ROWS = 1048576
)

// IsValidPort checks if a port number is within valid range
func IsValidPort(port int) bool {
	return port >= MIN_PORT && port <= MAX_PORT
}

// JoinHostPort renders host and port as an address suitable for Listen
func JoinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
