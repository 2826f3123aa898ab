package config

// NetworkConfig is a named network profile: the seed entry nodes and
// traversal overrides for one overlay network (mainnet, testnet, a
// private cluster).
type NetworkConfig struct {
	// Seeds are entry node addresses, "host" or "host:port".
	Seeds []string `yaml:"seeds,omitempty"`

	// Port overrides the default peer port for this network.
	// Zero means keep the global default.
	Port uint16 `yaml:"port,omitempty"`

	// MaxInFlight overrides the traversal concurrency cap.
	// Zero means keep the global default.
	MaxInFlight int `yaml:"maxInFlight,omitempty"`
}

// File represents the structure of the .rippled-crawler configuration
// file.
type File struct {
	// Networks maps profile names to their configuration.
	Networks map[string]NetworkConfig `yaml:"networks,omitempty"`

	// Defaults applies to every network unless overridden per profile.
	Defaults NetworkConfig `yaml:"defaults,omitempty"`
}

// GetNetwork returns the profile for name merged over the file's
// defaults, and whether the profile exists.
func (f *File) GetNetwork(name string) (NetworkConfig, bool) {
	result := f.Defaults

	network, ok := f.Networks[name]
	if !ok {
		return result, false
	}

	if len(network.Seeds) > 0 {
		result.Seeds = network.Seeds
	}
	if network.Port != 0 {
		result.Port = network.Port
	}
	if network.MaxInFlight != 0 {
		result.MaxInFlight = network.MaxInFlight
	}

	return result, true
}
