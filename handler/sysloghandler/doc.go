// Package sysloghandler provides the syslog destination. It connects
// to the local daemon or dials a remote one, and maps record severity
// (DEBUG..CRITICAL) onto the corresponding syslog severities.
package sysloghandler
