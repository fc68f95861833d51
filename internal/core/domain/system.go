package domain

import "encoding/json"

// DaemonInfo is the daemon's info document, kept as raw JSON so it can be relayed untouched.
type DaemonInfo json.RawMessage
