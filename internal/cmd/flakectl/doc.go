// Package flakectl contains the Cobra commands of the flakectl tool, which
// issues and inspects flake ids offline using the same layout flags as the
// service configuration.
package flakectl
