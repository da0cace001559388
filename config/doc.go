// Package config holds the datamosh parameters and their validation.
//
// Params is the snapshot that identifies one analysis: changing any of its
// fields invalidates cached chain output. Config adds the blend factor and
// estimator tuning, none of which forces reanalysis of the raw motion.
//
// Configuration can be loaded from YAML:
//
//	mosh_frame: 30
//	duration: 60
//	block_size: 16
//	search_range: 16
//	blend: 0.75
//	strategy: gradient
//
//	cfg, err := config.Load("mosh.yaml")
//
// Missing keys keep the values from Default.
package config
