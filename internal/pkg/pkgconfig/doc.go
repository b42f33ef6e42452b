// Package pkgconfig reads configuration through the Config interface.
//
// Viper is the only implementation: a YAML file, overridden by FLAKEN_*
// environment variables, watched for changes. Has distinguishes an explicit
// zero from a missing key, which matters for values like an epoch of 0.
package pkgconfig
