package domain

// AppInfo identifies the engine instance a session is attached to.
type AppInfo struct {
	Version string `json:"version" mapstructure:"version"`
	Caption string `json:"caption,omitempty" mapstructure:"caption"`
	Path    string `json:"path,omitempty" mapstructure:"path"`
	Visible bool   `json:"visible" mapstructure:"visible"`
	PID     int    `json:"pid,omitempty" mapstructure:"pid"`
}

// ConnectionStatus is the result of a liveness probe.
type ConnectionStatus struct {
	Connected bool     `json:"connected"`
	App       *AppInfo `json:"app,omitempty"`
}
