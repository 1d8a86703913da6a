package rtc

import (
	"fmt"

	"github.com/dkeye/huddle/internal/config"
	"github.com/pion/webrtc/v4"
)

// DefaultICEServers is handed to browsers when nothing is configured.
var DefaultICEServers = []webrtc.ICEServer{
	{URLs: []string{"stun:stun.l.google.com:19302"}},
}

// ICEConfig is the STUN/TURN list browsers use to negotiate peer
// connections. The server never terminates media itself.
type ICEConfig struct {
	Servers []webrtc.ICEServer
}

// ICEConfigFromSettings converts configured servers into pion form, falling
// back to DefaultICEServers.
func ICEConfigFromSettings(servers []config.ICEServer) ICEConfig {
	if len(servers) == 0 {
		return ICEConfig{Servers: DefaultICEServers}
	}
	out := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		srv := webrtc.ICEServer{URLs: s.URLs, Username: s.Username}
		if s.Credential != "" {
			srv.Credential = s.Credential
		}
		out = append(out, srv)
	}
	return ICEConfig{Servers: out}
}

// Validate asks pion to build a peer connection with the servers, which
// parses every URL and credential. The connection is closed immediately.
func (c ICEConfig) Validate() error {
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{ICEServers: c.Servers})
	if err != nil {
		return fmt.Errorf("invalid ice servers: %w", err)
	}
	return pc.Close()
}

// ICEServerJSON is the browser RTCIceServer shape.
type ICEServerJSON struct {
	URLs       []string `json:"urls"`
	Username   string   `json:"username,omitempty"`
	Credential string   `json:"credential,omitempty"`
}

// Browser returns the list in the form RTCPeerConnection accepts.
func (c ICEConfig) Browser() []ICEServerJSON {
	out := make([]ICEServerJSON, 0, len(c.Servers))
	for _, s := range c.Servers {
		j := ICEServerJSON{URLs: s.URLs, Username: s.Username}
		if cred, ok := s.Credential.(string); ok {
			j.Credential = cred
		}
		out = append(out, j)
	}
	return out
}
