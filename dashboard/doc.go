// Package dashboard implements a client for the Universal Robots Dashboard
// Server, the line-oriented ASCII remote-control interface exposed by UR
// controllers on TCP port 29999.
//
// The Dashboard Server accepts one command per line and answers every command
// with exactly one reply line. The client validates each reply against a
// per-command regular expression matched against the entire trimmed line.
//
// # Command shapes
//
// Every command in the catalog executes in one of three shapes:
//
//   - fire-and-confirm: send the command and verify its acknowledgement
//     (e.g. "shutdown", "close popup").
//   - fire-and-wait: verify the acknowledgement, then poll a status query
//     until the controller reports the settled state (e.g. "stop" followed
//     by "programState" until "STOPPED ...").
//   - fire-and-retry-until-settled: re-issue the command each round until the
//     status settles or the rounds are exhausted (e.g. "power on", which may
//     need to be nudged again while the arm powers up).
//
// Query commands ("robotmode", "safetystatus", ...) return the captured reply
// text to the caller.
//
// # Version gating
//
// Command availability depends on the connected controller generation
// (CB3 below PolyScope 5, e-Series at 5 and above) and its firmware version.
// The client captures the PolyScope version once during Connect and refuses
// ineligible commands with an *UnsupportedVersionError before any byte is
// sent on the wire.
//
// # Timeouts
//
// Two independent timeout tiers apply: a short per-read deadline (1s by
// default) that guards protocol liveness and tears the connection down when
// exceeded, and the caller-facing patience of the poll/retry loops. Long
// running diagnostic commands (flight report, support file) temporarily widen
// the read deadline for a single exchange and always restore the default.
package dashboard
