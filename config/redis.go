package config

import "errors"

// RedisConfig describes the Redis deployment holding server-side sessions. Exactly one
// topology applies: cluster, sentinel, or a direct URI (host:port or redis:// URL).
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"       envDefault:"0"`

	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"`

	UseCluster   bool     `env:"USE_CLUSTER"   envDefault:"false"`
	ClusterNodes []string `env:"CLUSTER_NODES"`
}

// Validate rejects topologies ConnectRedis cannot build.
func (c RedisConfig) Validate() error {
	var errs []error
	if c.UseSentinel && c.UseCluster {
		errs = append(errs, errors.New("REDIS_USE_SENTINEL and REDIS_USE_CLUSTER are mutually exclusive"))
	}
	if c.UseSentinel && c.SentinelMasterName == "" {
		errs = append(errs, errors.New("REDIS_SENTINEL_MASTER_NAME is required with REDIS_USE_SENTINEL"))
	}
	if c.UseCluster && c.DB != 0 {
		errs = append(errs, errors.New("REDIS_DB must be 0 in cluster mode"))
	}
	return errors.Join(errs...)
}
