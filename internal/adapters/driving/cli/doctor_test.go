package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitrep/internal/connectors/servicenow"
)

func TestDoctorCmd_Use(t *testing.T) {
	assert.Equal(t, "doctor", doctorCmd.Use)
}

func TestDoctorCmd_FailsWhenNothingConfigured(t *testing.T) {
	clearCredentials(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"doctor"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source systems are configured")
	out := buf.String()
	assert.Contains(t, out, "missing "+servicenow.EnvInstanceURL)
	assert.Contains(t, out, "Gemini      not configured")
}

func TestDoctorCmd_ReportsConfiguredSources(t *testing.T) {
	clearCredentials(t)
	t.Setenv(servicenow.EnvInstanceURL, "https://acme.service-now.com")
	t.Setenv(servicenow.EnvUsername, "ops.bot")
	t.Setenv(servicenow.EnvPassword, "hunter2")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"doctor"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "ServiceNow  OK")
	assert.Contains(t, out, "Salesforce  missing")
	assert.Contains(t, out, "SharePoint  missing")
}
