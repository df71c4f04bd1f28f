// Package config provides centralized configuration for the HMIS cleaning and
// modeling tools.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables that are explicitly set (highest priority)
//	2. A YAML file (HMIS_CONFIG, or hmis.yaml / configs/hmis.yaml)
//	3. Default values from struct tags (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern HMIS_<SECTION>_<FIELD>:
//
//	HMIS_PATHS_RAW_DIR=/mnt/data/allchicago/data
//	HMIS_PATHS_AUX_DIR=/mnt/data/allchicago/auxiliary_data
//	HMIS_STORAGE_DRIVER=s3
//	HMIS_STORAGE_S3_BUCKET=hmis-clean
//	HMIS_LOGGING_LEVEL=debug
//	HMIS_MODELING_MAX_PARALLEL=4
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := cfg.GetPaths()
//
// Validation runs through go-playground/validator using the yaml field names
// in error messages.
package config
