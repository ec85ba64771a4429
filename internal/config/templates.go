package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "bridge":
		return bridgeTemplate, nil
	case "sim":
		return simTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const bridgeTemplate = `# af4bridge configuration. Every key is optional.
# AF4BRIDGE_* environment variables override the values below.

# Shared memory channel readers attach to.
channel_name = "AeroflyFS4Data"
# capacity = 65536
# channel_dir = "/dev/shm"

# Message table override; the embedded table is used when empty.
# catalog = "catalog.toml"

# Admin HTTP surface (health, metrics, snapshot). Disabled when empty.
admin_addr = ""
cors_origins = ["http://localhost:3000"]

log_level = "info"
# Repeated per-tick warnings are logged at most once per interval.
log_interval = "5s"
`

const simTemplate = `# bridgesim configuration.
channel_name = "AeroflyFS4Data"
capacity = 65536
memory_channel = true
admin_addr = "127.0.0.1:9410"
cors_origins = ["http://localhost:3000"]
log_level = "debug"
log_interval = "1s"
reader_attempts = 8
`
