package dashboard

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// commandSpec is one immutable entry of the command catalog: the request-line
// template, the expected acknowledgement pattern, the per-generation minimum
// PolyScope versions, and, for commands whose effect is asynchronous on the
// controller, the status query and settled pattern used for polling.
//
// Expected patterns are POSIX-extended style regular expressions matched
// against the entire trimmed reply line. Templates containing "%s" receive a
// caller-supplied argument; inside patterns the argument is regex-quoted.
type commandSpec struct {
	name     string
	request  string
	expected string

	// Minimum PolyScope version per controller generation. nil marks the
	// command as unavailable on that generation altogether.
	minESeries *Version
	minCB3     *Version

	// Status polling for fire-and-wait / fire-and-retry commands.
	statusQuery string
	settled     string
	waitTimeout time.Duration // 0 = defaultSettleTimeout

	// responseTimeout widens the read deadline for this single exchange.
	// 0 keeps the connection default.
	responseTimeout time.Duration
}

// render instantiates the spec's templates with arg. Arguments are inserted
// verbatim into the request line but regex-quoted inside patterns. An empty
// argument is a valid instantiation: the marker is replaced by nothing.
func (s *commandSpec) render(arg string) (request, expected, settled string) {
	request, expected, settled = s.request, s.expected, s.settled

	quoted := regexp.QuoteMeta(arg)
	if strings.Contains(request, "%s") {
		request = fmt.Sprintf(request, arg)
	}
	if strings.Contains(expected, "%s") {
		expected = fmt.Sprintf(expected, quoted)
	}
	if strings.Contains(settled, "%s") {
		settled = fmt.Sprintf(settled, quoted)
	}

	return request, expected, settled
}

// supported decides command eligibility for the connected controller.
// The threshold is picked by the generation of the connected controller, and
// the command is eligible when the firmware is at or above it.
func (s *commandSpec) supported(actual Version, eSeries bool) error {
	minVersion, generation := s.minCB3, "CB3"
	if eSeries {
		minVersion, generation = s.minESeries, "e-Series"
	}

	if minVersion == nil {
		return &UnsupportedVersionError{Command: s.name, Generation: generation, Actual: actual}
	}

	if actual.Less(*minVersion) {
		return &UnsupportedVersionError{
			Command:    s.name,
			Generation: generation,
			Required:   minVersion.String(),
			Actual:     actual,
		}
	}

	return nil
}

// matchReply matches reply against pattern, anchored to the full line.
func matchReply(pattern, reply string) bool {
	matched, err := regexp.MatchString("^(?:"+pattern+")$", reply)

	return err == nil && matched
}

// couldNotUnderstandPattern matches the server's generic error reply. The
// catch-all query commands re-validate against it because it would otherwise
// slip through their permissive patterns.
const couldNotUnderstandPattern = "(?:could not understand).*"

// Version thresholds referenced by the catalog.
var (
	verAny   = &Version{} // ungated
	verE50   = &Version{Major: 5}
	verE51   = &Version{Major: 5, Minor: 1}
	verE54   = &Version{Major: 5, Minor: 4}
	verE56   = &Version{Major: 5, Minor: 6}
	verE58   = &Version{Major: 5, Minor: 8}
	verCB14  = &Version{Major: 1, Minor: 4}
	verCB16  = &Version{Major: 1, Minor: 6}
	verCB18  = &Version{Major: 1, Minor: 8}
	verCB30  = &Version{Major: 3}
	verCB31  = &Version{Major: 3, Minor: 1}
	verCB32  = &Version{Major: 3, Minor: 2}
	verCB37  = &Version{Major: 3, Minor: 7}
	verCB311 = &Version{Major: 3, Minor: 11}
	verCB312 = &Version{Major: 3, Minor: 12}
	verCB313 = &Version{Major: 3, Minor: 13}
)

// The command catalog. Reply patterns are part of the wire-protocol contract:
// exact anchoring (full-line vs. wildcard-wrapped) must be preserved.
var (
	cmdPowerOff = commandSpec{
		name: "power off", request: "power off", expected: "Powering off",
		minESeries: verE50, minCB3: verCB30,
		statusQuery: "robotmode", settled: "Robotmode: POWER_OFF",
	}
	cmdPowerOn = commandSpec{
		name: "power on", request: "power on", expected: "Powering on",
		minESeries: verE50, minCB3: verCB30,
		statusQuery: "robotmode", settled: "Robotmode: IDLE",
	}
	cmdBrakeRelease = commandSpec{
		name: "brake release", request: "brake release", expected: "Brake releasing",
		minESeries: verE50, minCB3: verCB30,
		statusQuery: "robotmode", settled: "Robotmode: RUNNING",
	}
	cmdLoadProgram = commandSpec{
		name: "load program", request: "load %s", expected: "(?:Loading program: ).*(?:%s).*",
		minESeries: verE50, minCB3: verCB14,
		statusQuery: "programState", settled: "STOPPED %s",
	}
	cmdLoadInstallation = commandSpec{
		name: "load installation", request: "load installation %s",
		expected:   "(?:Loading installation: ).*(?:%s).*",
		minESeries: verE50, minCB3: verCB32,
	}
	cmdPlay = commandSpec{
		name: "play", request: "play", expected: "Starting program",
		minESeries: verE50, minCB3: verCB14,
		statusQuery: "programState", settled: "(?:PLAYING ).*",
	}
	cmdPause = commandSpec{
		name: "pause", request: "pause", expected: "Pausing program",
		minESeries: verE50, minCB3: verCB14,
		statusQuery: "programState", settled: "(?:PAUSED ).*",
	}
	cmdStop = commandSpec{
		name: "stop", request: "stop", expected: "Stopped",
		minESeries: verE50, minCB3: verCB14,
		statusQuery: "programState", settled: "(?:STOPPED ).*",
	}
	cmdClosePopup = commandSpec{
		name: "close popup", request: "close popup", expected: "closing popup",
		minESeries: verE50, minCB3: verCB16,
	}
	cmdCloseSafetyPopup = commandSpec{
		name: "close safety popup", request: "close safety popup", expected: "closing safety popup",
		minESeries: verE50, minCB3: verCB31,
	}
	cmdRestartSafety = commandSpec{
		name: "restart safety", request: "restart safety", expected: "Restarting safety",
		minESeries: verE51, minCB3: verCB37,
		statusQuery: "robotmode", settled: "Robotmode: POWER_OFF",
	}
	cmdUnlockProtectiveStop = commandSpec{
		name: "unlock protective stop", request: "unlock protective stop",
		expected:   "Protective stop releasing",
		minESeries: verE50, minCB3: verCB31,
	}
	cmdShutdown = commandSpec{
		name: "shutdown", request: "shutdown", expected: "Shutting down",
		minESeries: verE50, minCB3: verCB14,
	}
	cmdQuit = commandSpec{
		name: "quit", request: "quit", expected: "Disconnected",
		minESeries: verE50, minCB3: verCB14,
	}
	cmdRunning = commandSpec{
		name: "running", request: "running", expected: "Program running: true",
		minESeries: verE50, minCB3: verCB16,
	}
	cmdIsProgramSaved = commandSpec{
		name: "is program saved", request: "isProgramSaved", expected: "(?:true ).*",
		minESeries: verE50, minCB3: verCB18,
	}
	cmdIsInRemoteControl = commandSpec{
		name: "is in remote control", request: "is in remote control", expected: ".*",
		minESeries: verE56, minCB3: nil,
	}
	cmdPopup = commandSpec{
		name: "popup", request: "popup %s", expected: "showing popup",
		minESeries: verE50, minCB3: verCB16,
	}
	cmdAddToLog = commandSpec{
		name: "add to log", request: "addToLog %s", expected: "Added log message",
		minESeries: verE50, minCB3: verCB18,
	}
	cmdPolyscopeVersion = commandSpec{
		name: "polyscope version", request: "PolyscopeVersion", expected: "(?:URSoftware ).*",
		minESeries: verAny, minCB3: verAny,
	}
	cmdGetRobotModel = commandSpec{
		name: "get robot model", request: "get robot model", expected: "(?:UR).*",
		minESeries: verE56, minCB3: verCB312,
	}
	cmdGetSerialNumber = commandSpec{
		name: "get serial number", request: "get serial number", expected: "(?:20).*",
		minESeries: verE56, minCB3: verCB312,
	}
	cmdRobotMode = commandSpec{
		name: "robot mode", request: "robotmode", expected: "(?:Robotmode: ).*",
		minESeries: verE50, minCB3: verCB16,
	}
	cmdGetLoadedProgram = commandSpec{
		name: "get loaded program", request: "get loaded program", expected: "(?:Loaded program: ).*",
		minESeries: verE50, minCB3: verCB16,
	}
	cmdSafetyMode = commandSpec{
		name: "safety mode", request: "safetymode", expected: "(?:Safetymode: ).*",
		minESeries: verE50, minCB3: verCB30,
	}
	cmdSafetyStatus = commandSpec{
		name: "safety status", request: "safetystatus", expected: "(?:Safetystatus: ).*",
		minESeries: verE54, minCB3: verCB311,
	}
	cmdProgramState = commandSpec{
		name: "program state", request: "programState", expected: "(?:).*",
		minESeries: verE50, minCB3: verCB18,
	}
	cmdGetOperationalMode = commandSpec{
		name: "get operational mode", request: "get operational mode", expected: "(?:).*",
		minESeries: verE56, minCB3: nil,
	}
	cmdSetOperationalMode = commandSpec{
		name: "set operational mode", request: "set operational mode %s",
		expected:   "(?:Operational mode ).*(?:%s).*",
		minESeries: verE50, minCB3: nil,
	}
	cmdClearOperationalMode = commandSpec{
		name: "clear operational mode", request: "clear operational mode",
		expected:   "(?:No longer controlling the operational mode. ).*",
		minESeries: verE50, minCB3: nil,
	}
	cmdSetUserRole = commandSpec{
		name: "set user role", request: "setUserRole %s", expected: "(?:Setting user role: ).*",
		minESeries: nil, minCB3: verCB18,
	}
	cmdGetUserRole = commandSpec{
		name: "get user role", request: "getUserRole", expected: "(?:).*",
		minESeries: nil, minCB3: verCB18,
	}
	cmdGenerateFlightReport = commandSpec{
		name: "generate flight report", request: "generate flight report %s",
		expected:   "(?:Flight Report generated with id:).*",
		minESeries: verE58, minCB3: verCB313,
		responseTimeout: 3 * time.Minute,
	}
	cmdGenerateSupportFile = commandSpec{
		name: "generate support file", request: "generate support file %s",
		expected:   "(?:Completed successfully:).*",
		minESeries: verE58, minCB3: verCB313,
		responseTimeout: 10 * time.Minute,
	}
)

// catalog lists every command for catalog-wide tests and introspection.
var catalog = []*commandSpec{
	&cmdPowerOff, &cmdPowerOn, &cmdBrakeRelease,
	&cmdLoadProgram, &cmdLoadInstallation,
	&cmdPlay, &cmdPause, &cmdStop,
	&cmdClosePopup, &cmdCloseSafetyPopup, &cmdRestartSafety, &cmdUnlockProtectiveStop,
	&cmdShutdown, &cmdQuit,
	&cmdRunning, &cmdIsProgramSaved, &cmdIsInRemoteControl,
	&cmdPopup, &cmdAddToLog,
	&cmdPolyscopeVersion,
	&cmdGetRobotModel, &cmdGetSerialNumber,
	&cmdRobotMode, &cmdGetLoadedProgram, &cmdSafetyMode, &cmdSafetyStatus, &cmdProgramState,
	&cmdGetOperationalMode, &cmdSetOperationalMode, &cmdClearOperationalMode,
	&cmdSetUserRole, &cmdGetUserRole,
	&cmdGenerateFlightReport, &cmdGenerateSupportFile,
}

// --- Generic execution shapes ---

// checkSupportedLocked runs the version gate for the connected controller.
// The caller must hold c.mu so the gate decision and the send observe the
// same connection. Ineligible commands never reach the wire.
func (c *Client) checkSupportedLocked(s *commandSpec) error {
	if c.conn == nil {
		return ErrNotConnected
	}

	return s.supported(c.version, c.eSeries)
}

// execConfirm executes a fire-and-confirm command.
func (c *Client) execConfirm(s *commandSpec, arg string) error {
	request, expected, _ := s.render(arg)

	if s.responseTimeout > 0 {
		return c.runWithReadTimeout(s.responseTimeout, func() error {
			if err := c.checkSupportedLocked(s); err != nil {
				return err
			}

			return c.sendRequestLocked(request, expected)
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkSupportedLocked(s); err != nil {
		return err
	}

	return c.sendRequestLocked(request, expected)
}

// execWait executes a fire-and-wait command: acknowledgement first, then a
// status poll for the settled state. The boolean reports whether the status
// settled within the command's wait timeout.
func (c *Client) execWait(s *commandSpec, arg string) (bool, error) {
	request, expected, settled := s.render(arg)

	c.mu.Lock()
	err := c.checkSupportedLocked(s)
	if err == nil {
		err = c.sendRequestLocked(request, expected)
	}
	c.mu.Unlock()
	if err != nil {
		return false, err
	}

	timeout := s.waitTimeout
	if timeout == 0 {
		timeout = defaultSettleTimeout
	}

	return c.waitForReply(s.statusQuery, settled, timeout)
}

// execRetry executes a fire-and-retry-until-settled command over the given
// number of rounds. The gate is re-evaluated before each re-issued action.
func (c *Client) execRetry(s *commandSpec, rounds uint) (bool, error) {
	request, expected, settled := s.render("")

	return c.retryCommand(request, expected, s.statusQuery, settled, rounds, func() error {
		return c.checkSupportedLocked(s)
	})
}

// execCapture executes a query command and returns the captured reply.
func (c *Client) execCapture(s *commandSpec, arg string) (string, error) {
	request, expected, _ := s.render(arg)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkSupportedLocked(s); err != nil {
		return "", err
	}

	return c.sendRequestCaptureLocked(request, expected)
}

// execCaptureStrict is execCapture for catch-all queries: it additionally
// rejects the server's generic "could not understand" reply.
func (c *Client) execCaptureStrict(s *commandSpec) (string, error) {
	reply, err := c.execCapture(s, "")
	if err != nil {
		return "", err
	}

	if matchReply(couldNotUnderstandPattern, reply) {
		return "", &UnexpectedReplyError{Command: s.request, Expected: s.expected, Actual: reply}
	}

	return reply, nil
}
