package constants

// Table names in the hosted database.
const (
	TableCalls     = "calls"
	TableLeads     = "leads"
	TableEmailLogs = "email_logs"
)

// IsKnownTable reports whether the relay reads or writes the given table.
func IsKnownTable(name string) bool {
	switch name {
	case TableCalls, TableLeads, TableEmailLogs:
		return true
	}
	return false
}
