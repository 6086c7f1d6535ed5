package agui

// Role represents the role of a message sender. Values are the lowercase
// wire strings.
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
	RoleTool      Role = "tool"
)

// Valid reports whether r is one of the protocol roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDeveloper, RoleSystem, RoleAssistant, RoleUser, RoleTool:
		return true
	}
	return false
}
