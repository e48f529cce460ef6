// Package config loads graphweave settings from a TOML file.
//
// A config file has one table per concern. Every key is optional; missing
// keys keep the values from [Default]:
//
//	[simulation]
//	seed = 7
//	ticks = 300
//	charge_strength = -120.0
//
//	[projection]
//	scale = 3.0
//	stroke = "#94a3b8"
//
//	[source]
//	base_url = "https://graph.example.com/api"
//	concurrency = 8
//	timeout = "10s"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
// Durations are written as Go duration strings ("500ms", "1m30s"). Loaded
// files are checked with struct tag validation; any failure, including an
// unknown key, is reported with errors.ErrCodeInvalidConfig.
package config
