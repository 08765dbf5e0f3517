// Package config loads listx runtime configuration. Default() gives the
// baseline, Load reads a JSON or YAML file, and FromEnv overlays LISTX_*
// environment variables.
//
// Example:
//
//	cfg, err := config.Load("/etc/listx.yaml")
//	if err != nil { /* handle */ }
//	config.FromEnv(&cfg)
//	rt, _ := runtime.Open(runtime.Options{DataDir: "/var/lib/listx", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
package config
