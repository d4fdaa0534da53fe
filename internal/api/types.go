package api

// ServiceName identifies this API in the health response.
const ServiceName = "PiNet API"

// statusResponse is the generic envelope for errors and WoL confirmations.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// healthResponse is the fixed body of the unauthenticated health check.
type healthResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// pingResponse reports the reachability of a single host.
type pingResponse struct {
	IPAddress string `json:"ip_address"`
	Status    string `json:"status"`
}

// wakeRequest is the JSON body of POST /wol.
type wakeRequest struct {
	MACAddress string `json:"mac_address"`
}
