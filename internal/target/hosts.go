package target

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// HostEntry is a concrete Host alias from an SSH config file.
type HostEntry struct {
	Alias    string
	Hostname string
}

// ResolveHost maps an alias from ~/.ssh/config to its HostName, so a robot
// can be addressed by a name like "hexapod". Names without an entry, and IP
// addresses, come back unchanged.
func ResolveHost(name string) string {
	return ResolveHostFile(defaultSSHConfig(), name)
}

// ResolveHostFile is ResolveHost against a specific SSH config file.
func ResolveHostFile(configPath, name string) string {
	cfg, err := decodeSSHConfig(configPath)
	if err != nil || cfg == nil {
		return name
	}

	if hostname, _ := cfg.Get(name, "HostName"); hostname != "" {
		return hostname
	}
	return name
}

// ListHosts returns the concrete aliases in ~/.ssh/config, sorted, for
// offering as robot address choices.
func ListHosts() ([]HostEntry, error) {
	return ListHostsFile(defaultSSHConfig())
}

// ListHostsFile is ListHosts against a specific SSH config file.
func ListHostsFile(configPath string) ([]HostEntry, error) {
	cfg, err := decodeSSHConfig(configPath)
	if err != nil || cfg == nil {
		return nil, err
	}

	var hosts []HostEntry
	seen := make(map[string]bool)

	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()

			// Skip wildcards and special patterns
			if strings.Contains(alias, "*") || strings.Contains(alias, "?") {
				continue
			}
			if seen[alias] {
				continue
			}
			seen[alias] = true

			entry := HostEntry{Alias: alias}
			if hostname, _ := cfg.Get(alias, "HostName"); hostname != "" {
				entry.Hostname = hostname
			}
			hosts = append(hosts, entry)
		}
	}

	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Alias < hosts[j].Alias
	})

	return hosts, nil
}

// decodeSSHConfig parses the file up to its first Match block, which the
// parser doesn't support. A missing file yields nil, nil.
func decodeSSHConfig(configPath string) (*ssh_config.Config, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	lines := strings.Split(string(content), "\n")
	var kept []string
	for _, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			break
		}
		kept = append(kept, line)
	}

	return ssh_config.Decode(bytes.NewReader([]byte(strings.Join(kept, "\n"))))
}

func defaultSSHConfig() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".ssh", "config")
}
