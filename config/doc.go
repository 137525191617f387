// Package config loads socialhub configuration with Viper.
//
// Values come from a YAML file (config.yaml in /etc/socialhub,
// $HOME/.socialhub, the working directory or the binary directory, or
// the path given with --config) and may be overridden by environment
// variables prefixed with SOCIALHUB_, where dots become underscores:
//
//	export SOCIALHUB_SERVER_PORT=9000
//	export SOCIALHUB_AUTH_JWT_SECRET=production-secret
//
// Watch reloads the file on change and hands the new Config to a callback.
package config
