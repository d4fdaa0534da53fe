// Package models contains the data structures used throughout pinet.
package models

// ServerConfig holds the complete configuration for the API server.
type ServerConfig struct {
	APIKey string
	Port   int
	WOL    WOLSettings
}

// WOLSettings holds Wake-on-LAN transmission settings.
type WOLSettings struct {
	BroadcastIP string
	Port        int
}
