package domain

// Module is a named feature screen gated by role
type Module string

const (
	ModuleCalculator            Module = "calculator"
	ModuleCashflow              Module = "cashflow"
	ModuleCashflowEntry         Module = "cashflowentry"
	ModuleTransactions          Module = "transactions"
	ModuleTankerManagement      Module = "tanker-management"
	ModuleBaseCompanyManagement Module = "base-company-management"
	ModuleParties               Module = "parties"
	ModuleMaterials             Module = "materials"
	ModuleUserManagement        Module = "user-management"
)

// ModuleInfo describes a module for navigation
type ModuleInfo struct {
	Key         Module `json:"key"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// AccessConfig is what a role may see
type AccessConfig struct {
	Role        Role     `json:"role"`
	Modules     []Module `json:"modules"`
	DisplayName string   `json:"display_name"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
}

// HasModule reports whether the config grants a module
func (a AccessConfig) HasModule(m Module) bool {
	for _, mod := range a.Modules {
		if mod == m {
			return true
		}
	}
	return false
}

// AccessTable is the single role → capability mapping. Everything that gates on
// role (middleware, navigation payloads, login responses) reads it.
type AccessTable struct {
	roles   map[Role]AccessConfig
	modules map[Module]ModuleInfo
	order   []Module
}

// DefaultAccessTable returns the built-in role mapping
func DefaultAccessTable() *AccessTable {
	modules := []ModuleInfo{
		{Key: ModuleCalculator, Name: "Material Price Calculator", Icon: "🧮", Path: "/calculator", Description: "Calculate material costs and pricing"},
		{Key: ModuleCashflow, Name: "Cash Flow", Icon: "💰", Path: "/cashflow", Description: "Track income and expenses"},
		{Key: ModuleCashflowEntry, Name: "Cash Flow Entry", Icon: "📝", Path: "/cashflowentry", Description: "Add new cash flow transactions"},
		{Key: ModuleTransactions, Name: "Transactions Dashboard", Icon: "📈", Path: "/transactions", Description: "View all transactions and analytics"},
		{Key: ModuleTankerManagement, Name: "Tanker Management", Icon: "🚚", Path: "/tanker-management", Description: "Register transporters and tankers"},
		{Key: ModuleBaseCompanyManagement, Name: "Base Companies", Icon: "🏢", Path: "/base-company-management", Description: "Manage base companies"},
		{Key: ModuleParties, Name: "Parties", Icon: "🤝", Path: "/parties", Description: "Suppliers, customers and business parties"},
		{Key: ModuleMaterials, Name: "Materials", Icon: "📦", Path: "/materials", Description: "Material master data"},
		{Key: ModuleUserManagement, Name: "User Management", Icon: "👥", Path: "/users", Description: "Grant and revoke access"},
	}

	all := make([]Module, 0, len(modules))
	for _, m := range modules {
		all = append(all, m.Key)
	}

	return NewAccessTable(modules, []AccessConfig{
		{Role: RoleAdministrator, Modules: all, DisplayName: "Administrator", Color: "#667eea", Icon: "👑"},
		{Role: RoleSupervisor, Modules: []Module{ModuleCalculator, ModuleTankerManagement}, DisplayName: "Supervisor", Color: "#48bb78", Icon: "📊"},
		{Role: RoleManagement, Modules: []Module{ModuleCalculator, ModuleCashflow, ModuleTransactions}, DisplayName: "Management", Color: "#ed8936", Icon: "💼"},
	})
}

// NewAccessTable builds a table from module descriptions and role configs
func NewAccessTable(modules []ModuleInfo, roles []AccessConfig) *AccessTable {
	t := &AccessTable{
		roles:   make(map[Role]AccessConfig, len(roles)),
		modules: make(map[Module]ModuleInfo, len(modules)),
	}
	for _, m := range modules {
		t.modules[m.Key] = m
		t.order = append(t.order, m.Key)
	}
	for _, r := range roles {
		mods := make([]Module, len(r.Modules))
		copy(mods, r.Modules)
		r.Modules = mods
		t.roles[r.Role] = r
	}
	return t
}

// For returns the access config of a role
func (t *AccessTable) For(role Role) (AccessConfig, error) {
	cfg, ok := t.roles[role]
	if !ok {
		return AccessConfig{}, ErrUnknownRole
	}
	mods := make([]Module, len(cfg.Modules))
	copy(mods, cfg.Modules)
	cfg.Modules = mods
	return cfg, nil
}

// HasModuleAccess reports whether role may use module. Unknown roles get nothing.
func (t *AccessTable) HasModuleAccess(role Role, m Module) bool {
	cfg, ok := t.roles[role]
	if !ok {
		return false
	}
	return cfg.HasModule(m)
}

// AvailableModules returns navigation entries for a role in table order
func (t *AccessTable) AvailableModules(role Role) []ModuleInfo {
	cfg, ok := t.roles[role]
	if !ok {
		return []ModuleInfo{}
	}
	out := make([]ModuleInfo, 0, len(cfg.Modules))
	for _, key := range t.order {
		if cfg.HasModule(key) {
			out = append(out, t.modules[key])
		}
	}
	return out
}

// All returns every role config in display order
func (t *AccessTable) All() []AccessConfig {
	out := make([]AccessConfig, 0, len(t.roles))
	for _, r := range Roles() {
		if cfg, err := t.For(r); err == nil {
			out = append(out, cfg)
		}
	}
	return out
}
