// Package piawireguard is the entry point of the PIA WireGuard client module.
//
// It re-exports the public surface of the sub-packages so that applications,
// and the iOS bindings, can depend on a single import:
//
//	piawireguard.VersionNumber()   // build number, e.g. 1.0
//	piawireguard.VersionString()   // build label, e.g. "1.0"
//
// The WireGuard protocol itself is provided by the backend the generated
// configuration is handed to.
package piawireguard
