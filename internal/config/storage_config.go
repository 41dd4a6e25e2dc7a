package config

// StorageConfig defines configuration for snapshot persistence. When
// DatabasePath is empty, snapshots are kept in memory only and baselines are
// re-seeded on restart.
type StorageConfig struct {
	DatabasePath string `json:"database_path,omitempty" yaml:"database_path,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		DatabasePath: "",
	}
}
