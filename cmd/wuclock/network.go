package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/sweeney/wuclock/internal/status"
)

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

// readNetworkInfo reads pi-helper's network state. Values in envFile win over
// the process environment; the file is re-read on every call since pi-helper
// rewrites it as the network changes. A missing file is not an error.
func readNetworkInfo(envFile string) *status.NetworkInfo {
	var file map[string]string
	if envFile != "" {
		file, _ = godotenv.Read(envFile)
	}
	get := func(key string) string {
		if v, ok := file[key]; ok {
			return v
		}
		return os.Getenv(key)
	}

	s := get(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       get(envNetworkType),
		IP:         get(envNetworkIP),
		Status:     s,
		Gateway:    get(envNetworkGateway),
		WifiStatus: get(envNetworkWifiStatus),
		SSID:       get(envNetworkWifiSSID),
	}
}
