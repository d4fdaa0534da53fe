package models

// PingStatus is the reachability outcome of a single ping probe.
type PingStatus string

const (
	// StatusOnline means the probe received a reply (exit code 0).
	StatusOnline PingStatus = "online"

	// StatusOffline means the probe got no reply or never completed
	// within the invocation timeout. The two cases are deliberately
	// indistinguishable at the API surface.
	StatusOffline PingStatus = "offline"
)
