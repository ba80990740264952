package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
)

func TestFromViperDefaults(t *testing.T) {
	cfg := FromViper(viper.New())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Sheets.Backend)
	assert.Equal(t, "Inventory", cfg.Sheets.Worksheet)
	assert.Equal(t, LogMemory, cfg.Transaction.Log)
	assert.Equal(t, 60, cfg.Cache.ProductsTTLSeconds)
	assert.Equal(t, economics.DefaultPolicy(), cfg.PolicyConfig())
}

func TestFromViperEnvOverrides(t *testing.T) {
	t.Setenv("POLICY_LEAD_TIME_DAYS", "10")
	t.Setenv("POLICY_CRITICAL_STOCK", "3")
	t.Setenv("TRANSACTION_LOG", "Postgres")
	t.Setenv("GOOGLE_SHEETS_INVENTORY_ID", "sheet-123")

	cfg := FromViper(viper.New())
	policy := cfg.PolicyConfig()

	assert.Equal(t, 10.0, policy.LeadTimeDays)
	assert.Equal(t, 3, policy.CriticalStock)
	assert.Equal(t, 3.0, policy.SafetyStockDays)
	assert.Equal(t, LogPostgres, cfg.Transaction.Log)
	assert.Equal(t, BackendPublic, cfg.Sheets.Backend)
}

func TestResolveBackend(t *testing.T) {
	cases := []struct {
		name   string
		sheets SheetsConfig
		want   string
	}{
		{"explicit wins", SheetsConfig{Backend: BackendMemory, SpreadsheetID: "x", CredentialsJSON: "{}"}, BackendMemory},
		{"credentials and id", SheetsConfig{SpreadsheetID: "x", CredentialsFile: "/tmp/sa.json"}, BackendSheets},
		{"id only", SheetsConfig{SpreadsheetID: "x"}, BackendPublic},
		{"nothing", SheetsConfig{}, BackendMemory},
		{"unknown value", SheetsConfig{Backend: "excel"}, BackendMemory},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Sheets: tc.sheets}
			assert.Equal(t, tc.want, cfg.resolveBackend())
		})
	}
}
