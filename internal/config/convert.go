package config

import (
	"github.com/max8938/FinalCallATC/internal/observability"
	"github.com/max8938/FinalCallATC/internal/shm"
)

func (b Bridge) ChannelOptions() shm.Options {
	return shm.Options{
		Name:     b.ChannelName,
		Dir:      b.ChannelDir,
		Capacity: b.Capacity,
	}
}

func (b Bridge) AdminConfig(instanceID string) observability.AdminConfig {
	return observability.AdminConfig{
		Addr:        b.AdminAddr,
		CorsOrigins: b.CorsOrigins,
		InstanceID:  instanceID,
	}
}
