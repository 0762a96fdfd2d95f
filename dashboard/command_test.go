package dashboard

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_PatternsCompile(t *testing.T) {
	for _, spec := range catalog {
		t.Run(spec.name, func(t *testing.T) {
			require.NotEmpty(t, spec.name)
			require.NotEmpty(t, spec.request)
			require.NotEmpty(t, spec.expected)

			_, expected, settled := spec.render("test.urp")

			_, err := regexp.Compile("^(?:" + expected + ")$")
			require.NoError(t, err)

			if spec.statusQuery != "" {
				require.NotEmpty(t, settled)
				_, err := regexp.Compile("^(?:" + settled + ")$")
				require.NoError(t, err)
			}
		})
	}
}

func TestCatalog_GenerationCoverage(t *testing.T) {
	for _, spec := range catalog {
		// A command unavailable on both generations would be dead weight.
		require.False(t, spec.minESeries == nil && spec.minCB3 == nil,
			"command %q has no eligible generation", spec.name)
	}
}

func TestCommandSpec_Render(t *testing.T) {
	request, expected, settled := cmdLoadProgram.render("test.urp")
	assert.Equal(t, "load test.urp", request)
	assert.Equal(t, "(?:Loading program: ).*(?:test\\.urp).*", expected)
	assert.Equal(t, "STOPPED test\\.urp", settled)

	// Regex metacharacters in arguments are quoted inside patterns but kept
	// verbatim in the request line.
	request, expected, _ = cmdLoadProgram.render("a+b.urp")
	assert.Equal(t, "load a+b.urp", request)
	assert.True(t, matchReply(expected, "Loading program: /programs/a+b.urp"))
	assert.False(t, matchReply(expected, "Loading program: /programs/aab.urp"))
}

func TestCommandSpec_RenderEmptyArgument(t *testing.T) {
	// An empty argument instantiates the templates with nothing; the "%s"
	// marker must never survive into the wire line or the patterns.
	request, expected, settled := cmdGenerateFlightReport.render("")
	assert.Equal(t, "generate flight report ", request)
	assert.Equal(t, "(?:Flight Report generated with id:).*", expected)
	assert.Empty(t, settled)

	request, expected, settled = cmdLoadProgram.render("")
	assert.Equal(t, "load ", request)
	assert.Equal(t, "(?:Loading program: ).*(?:).*", expected)
	assert.Equal(t, "STOPPED ", settled)

	for _, spec := range catalog {
		request, expected, settled := spec.render("")
		assert.NotContains(t, request, "%s", spec.name)
		assert.NotContains(t, expected, "%s", spec.name)
		assert.NotContains(t, settled, "%s", spec.name)
	}
}

func TestMatchReply_FullLineAnchoring(t *testing.T) {
	// Fixed patterns match the whole line, not a substring.
	assert.True(t, matchReply("Powering off", "Powering off"))
	assert.False(t, matchReply("Powering off", "Powering off now"))
	assert.False(t, matchReply("Powering off", "robot Powering off"))

	// Wildcard-wrapped patterns tolerate embedded dynamic text.
	assert.True(t, matchReply("(?:Robotmode: ).*", "Robotmode: IDLE"))
	assert.False(t, matchReply("(?:Robotmode: ).*", "Safetymode: NORMAL"))
	assert.True(t, matchReply("(?:true ).*", "true (program saved)"))
	assert.False(t, matchReply("(?:true ).*", "false (unsaved changes)"))
}

func TestCommandSpec_Supported(t *testing.T) {
	cb31 := Version{Major: 3, Minor: 1, Patch: 9}
	cb32 := Version{Major: 3, Minor: 2}
	cb314 := Version{Major: 3, Minor: 14, Patch: 3, Build: 1031}
	e50 := Version{Major: 5}
	e594 := Version{Major: 5, Minor: 9, Patch: 4, Build: 10300}

	tests := []struct {
		name      string
		spec      *commandSpec
		actual    Version
		eSeries   bool
		supported bool
	}{
		{"load installation refused below CB3 threshold", &cmdLoadInstallation, cb31, false, false},
		{"load installation accepted at CB3 threshold", &cmdLoadInstallation, cb32, false, true},
		{"load installation accepted above CB3 threshold", &cmdLoadInstallation, cb314, false, true},
		{"power on accepted at e-Series threshold", &cmdPowerOn, e50, true, true},
		{"power on accepted above e-Series threshold", &cmdPowerOn, e594, true, true},
		{"restart safety refused below e-Series threshold", &cmdRestartSafety, e50, true, false},
		{"remote control query refused on CB3", &cmdIsInRemoteControl, cb314, false, false},
		{"remote control query accepted on e-Series 5.9", &cmdIsInRemoteControl, e594, true, true},
		{"user role refused on e-Series", &cmdSetUserRole, e594, true, false},
		{"user role accepted on CB3", &cmdSetUserRole, cb314, false, true},
		{"version query ungated on CB3", &cmdPolyscopeVersion, cb31, false, true},
		{"version query ungated on e-Series", &cmdPolyscopeVersion, e50, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.supported(tt.actual, tt.eSeries)
			if tt.supported {
				require.NoError(t, err)
				return
			}

			versionErr := &UnsupportedVersionError{}
			require.ErrorAs(t, err, &versionErr)
			assert.Equal(t, tt.spec.name, versionErr.Command)
			assert.Equal(t, tt.actual, versionErr.Actual)
		})
	}
}

func TestCommandSpec_SupportedGenerationExclusive(t *testing.T) {
	// Generation-exclusive commands carry no required version for the other
	// generation; the error states categorical unavailability.
	err := cmdIsInRemoteControl.supported(Version{Major: 3, Minor: 14}, false)

	versionErr := &UnsupportedVersionError{}
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, "CB3", versionErr.Generation)
	assert.Empty(t, versionErr.Required)
}
