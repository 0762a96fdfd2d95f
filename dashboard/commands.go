package dashboard

// DefaultPowerOnRetryRounds is the default number of retry rounds for
// CommandPowerOn. Powering on can take tens of minutes on a cold controller.
const DefaultPowerOnRetryRounds = 1200

// CommandPowerOff powers the arm off and waits for "Robotmode: POWER_OFF".
// The boolean reports whether the robot reached the state in time.
func (c *Client) CommandPowerOff() (bool, error) {
	return c.execWait(&cmdPowerOff, "")
}

// CommandPowerOn powers the arm on, re-issuing "power on" up to rounds times
// (roughly one round per second) until the robot reports "Robotmode: IDLE".
// Use DefaultPowerOnRetryRounds when in doubt.
func (c *Client) CommandPowerOn(rounds uint) (bool, error) {
	return c.execRetry(&cmdPowerOn, rounds)
}

// CommandBrakeRelease releases the brakes and waits for "Robotmode: RUNNING".
func (c *Client) CommandBrakeRelease() (bool, error) {
	return c.execWait(&cmdBrakeRelease, "")
}

// CommandLoadProgram loads the given .urp program file and waits until the
// program state reports it stopped and ready.
func (c *Client) CommandLoadProgram(programFileName string) (bool, error) {
	return c.execWait(&cmdLoadProgram, programFileName)
}

// CommandLoadInstallation loads the given .installation file.
func (c *Client) CommandLoadInstallation(installationFileName string) error {
	return c.execConfirm(&cmdLoadInstallation, installationFileName)
}

// CommandPlay starts the loaded program and waits for the PLAYING state.
func (c *Client) CommandPlay() (bool, error) {
	return c.execWait(&cmdPlay, "")
}

// CommandPause pauses the running program and waits for the PAUSED state.
func (c *Client) CommandPause() (bool, error) {
	return c.execWait(&cmdPause, "")
}

// CommandStop stops the running program and waits for the STOPPED state.
func (c *Client) CommandStop() (bool, error) {
	return c.execWait(&cmdStop, "")
}

// CommandClosePopup closes the current popup dialog.
func (c *Client) CommandClosePopup() error {
	return c.execConfirm(&cmdClosePopup, "")
}

// CommandCloseSafetyPopup closes the current safety popup dialog.
func (c *Client) CommandCloseSafetyPopup() error {
	return c.execConfirm(&cmdCloseSafetyPopup, "")
}

// CommandRestartSafety restarts the safety system after a fault and waits for
// "Robotmode: POWER_OFF".
func (c *Client) CommandRestartSafety() (bool, error) {
	return c.execWait(&cmdRestartSafety, "")
}

// CommandUnlockProtectiveStop releases a protective stop.
func (c *Client) CommandUnlockProtectiveStop() error {
	return c.execConfirm(&cmdUnlockProtectiveStop, "")
}

// CommandShutdown shuts down the robot controller.
func (c *Client) CommandShutdown() error {
	return c.execConfirm(&cmdShutdown, "")
}

// CommandQuit closes the dashboard session on the server side.
func (c *Client) CommandQuit() error {
	return c.execConfirm(&cmdQuit, "")
}

// CommandRunning verifies that a program is currently running.
func (c *Client) CommandRunning() error {
	return c.execConfirm(&cmdRunning, "")
}

// CommandIsProgramSaved verifies that the loaded program has no unsaved changes.
func (c *Client) CommandIsProgramSaved() error {
	return c.execConfirm(&cmdIsProgramSaved, "")
}

// CommandIsInRemoteControl reports whether the robot is in remote control
// mode. Only available on e-Series controllers.
func (c *Client) CommandIsInRemoteControl() (bool, error) {
	reply, err := c.execCapture(&cmdIsInRemoteControl, "")
	if err != nil {
		return false, err
	}

	return matchReply("true", reply), nil
}

// CommandPopup shows a popup with the given text on the teach pendant.
func (c *Client) CommandPopup(popupText string) error {
	return c.execConfirm(&cmdPopup, popupText)
}

// CommandAddToLog appends the given text to the robot's log.
func (c *Client) CommandAddToLog(logText string) error {
	return c.execConfirm(&cmdAddToLog, logText)
}

// CommandPolyscopeVersion re-queries the controller's software version,
// refreshes the cached version and generation, and returns the raw reply,
// e.g. "URSoftware 5.9.4.10300 (Aug 05 2020)". The exchange and the cache
// refresh are atomic with respect to other commands.
func (c *Client) CommandPolyscopeVersion() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return "", ErrNotConnected
	}

	return c.captureVersionLocked()
}

// CommandGetRobotModel returns the robot model, e.g. "UR5".
func (c *Client) CommandGetRobotModel() (string, error) {
	return c.execCapture(&cmdGetRobotModel, "")
}

// CommandGetSerialNumber returns the robot's serial number.
func (c *Client) CommandGetSerialNumber() (string, error) {
	return c.execCapture(&cmdGetSerialNumber, "")
}

// CommandRobotMode returns the robot mode, e.g. "Robotmode: RUNNING".
func (c *Client) CommandRobotMode() (string, error) {
	return c.execCapture(&cmdRobotMode, "")
}

// CommandGetLoadedProgram returns the path of the loaded program.
func (c *Client) CommandGetLoadedProgram() (string, error) {
	return c.execCapture(&cmdGetLoadedProgram, "")
}

// CommandSafetyMode returns the safety mode, e.g. "Safetymode: NORMAL".
func (c *Client) CommandSafetyMode() (string, error) {
	return c.execCapture(&cmdSafetyMode, "")
}

// CommandSafetyStatus returns the safety status, e.g. "Safetystatus: NORMAL".
func (c *Client) CommandSafetyStatus() (string, error) {
	return c.execCapture(&cmdSafetyStatus, "")
}

// CommandProgramState returns the program state, e.g. "STOPPED program.urp".
func (c *Client) CommandProgramState() (string, error) {
	return c.execCaptureStrict(&cmdProgramState)
}

// CommandGetOperationalMode returns the operational mode. Only available on
// e-Series controllers.
func (c *Client) CommandGetOperationalMode() (string, error) {
	return c.execCaptureStrict(&cmdGetOperationalMode)
}

// CommandSetOperationalMode sets the operational mode ("manual" or
// "automatic"). Only available on e-Series controllers.
func (c *Client) CommandSetOperationalMode(operationalMode string) error {
	return c.execConfirm(&cmdSetOperationalMode, operationalMode)
}

// CommandClearOperationalMode releases dashboard control of the operational
// mode. Only available on e-Series controllers.
func (c *Client) CommandClearOperationalMode() error {
	return c.execConfirm(&cmdClearOperationalMode, "")
}

// CommandSetUserRole sets the active user role. Only available on CB3
// controllers.
func (c *Client) CommandSetUserRole(userRole string) error {
	return c.execConfirm(&cmdSetUserRole, userRole)
}

// CommandGetUserRole returns the active user role. Only available on CB3
// controllers.
func (c *Client) CommandGetUserRole() (string, error) {
	return c.execCaptureStrict(&cmdGetUserRole)
}

// CommandGenerateFlightReport generates a flight report of the given type.
// The read deadline is widened to 3 minutes for this single exchange.
func (c *Client) CommandGenerateFlightReport(reportType string) error {
	return c.execConfirm(&cmdGenerateFlightReport, reportType)
}

// CommandGenerateSupportFile generates a support file into the given
// directory below the programs directory. The read deadline is widened to
// 10 minutes for this single exchange.
func (c *Client) CommandGenerateSupportFile(dirPath string) error {
	return c.execConfirm(&cmdGenerateSupportFile, dirPath)
}
